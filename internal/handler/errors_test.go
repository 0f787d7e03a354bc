package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "ragrids/internal/errors"
	"ragrids/internal/validation"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "application error",
			err:    apperrors.ValidationError("All fields are required", "email", "mobile"),
			status: http.StatusBadRequest,
			body:   `{"message":"All fields are required","code":"VALIDATION_ERROR","error":["email","mobile"]}`,
		},
		{
			name:   "wrapped domain error",
			err:    fmt.Errorf("update: %w", apperrors.ErrEmailInUse),
			status: http.StatusBadRequest,
			body:   `{"message":"Email already in use","code":"CONFLICT"}`,
		},
		{
			name:   "unknown error hides details",
			err:    errors.New("dial tcp 10.0.0.1:3306: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"message":"Server error","code":"INTERNAL_ERROR"}`,
		},
		{
			name:   "echo not found",
			err:    echo.ErrNotFound,
			status: http.StatusNotFound,
			body:   `{"message":"Not Found","code":"NOT_FOUND"}`,
		},
		{
			name:   "echo unauthorized",
			err:    echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt"),
			status: http.StatusUnauthorized,
			body:   `{"message":"Unauthorized","code":"UNAUTHORIZED"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestProvided(t *testing.T) {
	empty := ""
	value := "Pune"

	assert.Nil(t, provided(nil))
	assert.Nil(t, provided(&empty))
	assert.Equal(t, &value, provided(&value))

	patch := UpdateProfileRequest{District: &value, CompanyName: &empty}.patch()
	assert.Nil(t, patch.CompanyName)
	assert.Equal(t, "Pune", *patch.District)
	assert.False(t, patch.Empty())

	blank := "   "
	padded := "  9876543210 "
	assert.Nil(t, provided(&blank))
	assert.Equal(t, "9876543210", *provided(&padded))
}

func TestUpdateProfileRequest_Contact(t *testing.T) {
	empty := ""
	padded := " new@ragrids.in "

	c := UpdateProfileRequest{Email: &empty, Mobile: &empty}.contact()
	assert.Equal(t, profileContact{}, c)
	assert.NoError(t, validation.New().Validate(&c))

	c = UpdateProfileRequest{Email: &padded}.contact()
	assert.Equal(t, "new@ragrids.in", c.Email)
	assert.NoError(t, validation.New().Validate(&c))

	bad := "not-an-email"
	c = UpdateProfileRequest{Email: &bad}.contact()
	assert.Error(t, validation.New().Validate(&c))
}

func TestRegisterRequest_Normalize(t *testing.T) {
	req := UserRegisterRequest{Name: " Ravi ", Email: " ravi@ragrids.in ", Mobile: "  9876543210  "}
	req.Normalize()
	assert.Equal(t, "Ravi", req.Name)
	assert.Equal(t, "ravi@ragrids.in", req.Email)
	assert.Equal(t, "9876543210", req.Mobile)

	admin := AdminRegisterRequest{Email: " asha@ragrids.in", Mobile: "9876543210 "}
	admin.Normalize()
	assert.Equal(t, "asha@ragrids.in", admin.Email)
	assert.Equal(t, "9876543210", admin.Mobile)
}
