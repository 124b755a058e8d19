// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"enroll/internal/delivery/http/middleware"
	"enroll/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	e.GET("/", handler.Welcome)
	e.GET("/health", handler.HealthCheck)

	// Sign-up and login routes the mobile client calls.
	userGroup := e.Group("/api/user")
	{
		userGroup.POST("/register", r.userHandler.Register)
		userGroup.POST("/login", r.userHandler.Login)
		userGroup.POST("/validate-step", r.userHandler.ValidateStep)
	}

	// Routes that require an authenticated session.
	userGroup.GET("/profile", r.userHandler.GetProfile, r.authMiddleware.Authenticate)
}
