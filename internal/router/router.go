package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"ragrids/internal/auth"
	"ragrids/internal/config"
	"ragrids/internal/handler"
	"ragrids/internal/logging"
	"ragrids/internal/validation"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Admin     *handler.AdminHandler
	User      *handler.UserHandler
	Customers *handler.CustomerHandler
	Uploads   *handler.UploadHandler
}

// Tokens holds one token service per principal kind. Each guards its own
// routes only.
type Tokens struct {
	Admin *auth.JWTService
	User  *auth.JWTService
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, logger zerolog.Logger, h Handlers, tokens Tokens) {
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = validation.New()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	adminGuard := auth.Guard(tokens.Admin)
	userGuard := auth.Guard(tokens.User)

	api := e.Group("/auth")

	// Public routes
	api.POST("/admin/register", h.Admin.Register)
	api.POST("/admin/login", h.Admin.Login)
	api.POST("/admin/logout", h.Admin.Logout)
	api.POST("/user/register", h.User.Register)
	api.POST("/user/login", h.User.Login)
	api.POST("/user/logout", h.User.Logout)

	// Customer routes
	api.GET("/user/:id", h.User.GetProfile, userGuard)
	api.PATCH("/user/:id", h.User.UpdateProfile, userGuard)
	api.PUT("/user/:id", h.User.UpdateProfile, userGuard)
	api.POST("/upload/:id", h.Uploads.Upload, userGuard)

	// Admin routes
	e.GET("/customers", h.Customers.List, adminGuard)
	api.GET("/customers", h.Customers.List, adminGuard)
}
