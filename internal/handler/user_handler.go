package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"ragrids/internal/auth"
	apperrors "ragrids/internal/errors"
	"ragrids/internal/model"
	"ragrids/internal/service"
)

// UserHandler handles customer authentication and profile endpoints.
type UserHandler struct {
	svc      service.UserService
	tokenTTL time.Duration
}

// NewUserHandler creates a user handler.
func NewUserHandler(svc service.UserService, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{svc: svc, tokenTTL: tokenTTL}
}

// UserRegisterRequest represents a customer registration request.
type UserRegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Mobile      string `json:"mobile" validate:"required,mobile_in"`
	Password    string `json:"password" validate:"required,strong_password"`
	CompanyName string `json:"companyName" validate:"required"`
	District    string `json:"district" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (r *UserRegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.District = strings.TrimSpace(r.District)
}

// UpdateProfileRequest carries the editable profile fields. Omitted or empty
// fields are left unchanged.
type UpdateProfileRequest struct {
	Email       *string `json:"email"`
	Mobile      *string `json:"mobile"`
	CompanyName *string `json:"companyName"`
	District    *string `json:"district"`
}

// profileContact is validated after empty fields are dropped.
type profileContact struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Mobile string `json:"mobile" validate:"omitempty,mobile_in"`
}

func (r UpdateProfileRequest) patch() model.ProfilePatch {
	return model.ProfilePatch{
		Email:       provided(r.Email),
		Mobile:      provided(r.Mobile),
		CompanyName: provided(r.CompanyName),
		District:    provided(r.District),
	}
}

func (r UpdateProfileRequest) contact() profileContact {
	p := r.patch()
	var c profileContact
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Mobile != nil {
		c.Mobile = *p.Mobile
	}
	return c
}

// provided trims s and reports blank values as not provided.
func provided(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ProfileResponse wraps a single customer.
type ProfileResponse struct {
	Message string      `json:"message"`
	Data    *model.User `json:"data"`
}

// ownID returns the :id path parameter when it names the authenticated caller.
func ownID(c echo.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return "", apperrors.UnauthorizedError("Unauthorized")
	}
	id := c.Param("id")
	if id != claims.UserID {
		return "", apperrors.ErrForbidden
	}
	return id, nil
}

// Register godoc
// @Summary Register a customer
// @Description Creates the customer and sends a welcome email in the background.
// @Tags user
// @Accept json
// @Produce json
// @Param request body UserRegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/user/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req UserRegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequestError("Invalid request body")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), service.UserRegistration{
		Name:        req.Name,
		Email:       req.Email,
		Mobile:      req.Mobile,
		Password:    req.Password,
		CompanyName: req.CompanyName,
		District:    req.District,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

// Login godoc
// @Summary Customer login
// @Description Sets the userToken cookie and also returns the token.
// @Tags user
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequestError("Invalid request body")
	}

	token, user, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	user.EnsureFiles()

	c.SetCookie(auth.SessionCookie(auth.KindUser, token, h.tokenTTL))
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login success",
		Data:    user,
		Token:   token,
	})
}

// Logout godoc
// @Summary Customer logout
// @Description Clears the userToken cookie. Always succeeds.
// @Tags user
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/user/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(auth.ClearCookie(auth.KindUser))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logout success"})
}

// GetProfile godoc
// @Summary Get own profile
// @Tags user
// @Produce json
// @Security UserToken
// @Param id path string true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/user/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := ownID(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	user.EnsureFiles()

	return c.JSON(http.StatusOK, ProfileResponse{
		Message: "Profile fetched successfully",
		Data:    user,
	})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Partial update; omitted or empty fields are unchanged. Also served on PUT.
// @Tags user
// @Accept json
// @Produce json
// @Security UserToken
// @Param id path string true "User ID"
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/user/{id} [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := ownID(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequestError("Invalid request body")
	}
	contact := req.contact()
	if err := c.Validate(&contact); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), id, req.patch())
	if err != nil {
		return err
	}
	user.EnsureFiles()

	return c.JSON(http.StatusOK, ProfileResponse{
		Message: "Profile updated successfully",
		Data:    user,
	})
}
