package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"ragrids/internal/auth"
	apperrors "ragrids/internal/errors"
	"ragrids/internal/service"
)

// AdminHandler handles admin authentication endpoints.
type AdminHandler struct {
	svc      service.AdminService
	tokenTTL time.Duration
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc service.AdminService, tokenTTL time.Duration) *AdminHandler {
	return &AdminHandler{svc: svc, tokenTTL: tokenTTL}
}

// AdminRegisterRequest represents an admin registration request.
type AdminRegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,mobile_in"`
	Password string `json:"password" validate:"required,strong_password"`
}

// Normalize trims surrounding whitespace from the identity fields.
func (r *AdminRegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Mobile = strings.TrimSpace(r.Mobile)
}

// LoginRequest represents a login request for either principal kind.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// LoginResponse is returned after a successful login. Data never carries the
// password hash.
type LoginResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Token   string      `json:"token"`
}

// MessageResponse carries a bare status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary Register an admin
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminRegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/admin/register [post]
func (h *AdminHandler) Register(c echo.Context) error {
	var req AdminRegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequestError("Invalid request body")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	admin, err := h.svc.Register(c.Request().Context(), service.AdminRegistration{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		UserID:  admin.ID,
	})
}

// Login godoc
// @Summary Admin login
// @Description Sets the AdminToken cookie and also returns the token.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequestError("Invalid request body")
	}

	token, admin, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(auth.SessionCookie(auth.KindAdmin, token, h.tokenTTL))
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login success",
		Data:    admin,
		Token:   token,
	})
}

// Logout godoc
// @Summary Admin logout
// @Description Clears the AdminToken cookie. Always succeeds.
// @Tags admin
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/admin/logout [post]
func (h *AdminHandler) Logout(c echo.Context) error {
	c.SetCookie(auth.ClearCookie(auth.KindAdmin))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logout success"})
}
