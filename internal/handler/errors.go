package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "ragrids/internal/errors"
	"ragrids/internal/logging"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"message","code"}. Anything that is not already an HTTP error becomes a
// generic 500 and is logged with its details.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		httpErr *apperrors.HTTPError
		echoErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &httpErr):
	case errors.As(err, &echoErr):
		httpErr = fromEchoError(echoErr)
	default:
		httpErr = apperrors.MapErrorToHTTP(err)
	}

	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger := logging.FromContext(c.Request().Context())
		logger.Error().Err(err).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.StatusCode)
		return
	}
	_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func fromEchoError(he *echo.HTTPError) *apperrors.HTTPError {
	msg := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		msg = s
	} else if he.Message != nil {
		msg = fmt.Sprint(he.Message)
	}

	switch {
	case he.Code == http.StatusUnauthorized:
		return apperrors.UnauthorizedError("Unauthorized")
	case he.Code == http.StatusNotFound:
		return apperrors.NewHTTPError(he.Code, msg, apperrors.CodeNotFound)
	case he.Code == http.StatusForbidden:
		return apperrors.NewHTTPError(he.Code, msg, apperrors.CodeForbidden)
	case he.Code >= http.StatusInternalServerError:
		return apperrors.ServerError()
	default:
		return apperrors.NewHTTPError(he.Code, msg, apperrors.CodeBadRequest)
	}
}
