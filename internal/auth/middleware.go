package auth

import (
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "ragrids/internal/errors"
)

// ClaimsContextKey is where a guard stores the verified claims.
const ClaimsContextKey = "claims"

// Guard returns middleware admitting only requests carrying a valid token of
// the service's kind. The kind's cookie is consulted first, then the bearer
// header.
func Guard(tokens *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsContextKey,
		TokenLookup: fmt.Sprintf("cookie:%s,header:%s:Bearer ", tokens.Kind().CookieName(), echo.HeaderAuthorization),
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return tokens.ValidateToken(token)
		},
		ErrorHandler: func(_ echo.Context, _ error) error {
			return apperrors.UnauthorizedError("Unauthorized")
		},
	})
}

// ClaimsFromContext returns the claims stored by Guard.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
