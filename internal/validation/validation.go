// Package validation holds the request validator shared by all handlers and
// the rules specific to this portal.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "ragrids/internal/errors"
)

// Password policy applied at registration.
const (
	MinPasswordLength = 8
)

// indianMobile accepts an optional +91/91/0 prefix followed by a ten digit
// number starting with 6-9.
var indianMobile = regexp.MustCompile(`^(\+?91|0)?[6-9]\d{9}$`)

var messages = map[string]string{
	"email":           "Invalid email",
	"mobile_in":       "Invalid mobile number",
	"strong_password": "Provide a strong password",
}

// Validator wraps go-playground/validator with the portal rules registered.
// It satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// registration only fails on a bad tag name, which is a programming error
	_ = v.RegisterValidation("mobile_in", func(fl validator.FieldLevel) bool {
		return IsMobile(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate runs struct validation and converts failures into a
// ValidationError. Missing required fields are reported together; otherwise
// the first failing rule in field order is reported.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.BadRequestError("Invalid request body")
	}

	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return apperrors.ValidationError("All fields are required", missing...)
	}

	first := fieldErrs[0]
	if msg, ok := messages[first.Tag()]; ok {
		return apperrors.ValidationError(msg, first.Field())
	}
	return apperrors.ValidationError("Invalid "+first.Field(), first.Field())
}

// IsMobile reports whether s is a valid Indian mobile number.
func IsMobile(s string) bool {
	return indianMobile.MatchString(strings.TrimSpace(s))
}

// IsStrongPassword requires MinPasswordLength characters including at least
// one lowercase letter, one uppercase letter, one digit and one symbol.
func IsStrongPassword(s string) bool {
	if len([]rune(s)) < MinPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
