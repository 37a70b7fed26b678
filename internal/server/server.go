package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
)

// contentSecurityPolicy mirrors what the public site needs: self-hosted
// assets, Unsplash imagery and the Google Maps embed, nothing else.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self'; " +
	"style-src 'self'; " +
	"img-src 'self' data: https://images.unsplash.com https://plus.unsplash.com; " +
	"font-src 'self' data:; " +
	"connect-src 'self'; " +
	"frame-src 'self' https://www.google.com https://maps.gstatic.com; " +
	"object-src 'none'; " +
	"form-action 'self'; " +
	"base-uri 'self'"

const msgOriginRejected = "Originea cererii nu este permisă."

// RouteRegister registers Echo routes.
type RouteRegister interface {
	RegisterRoutes(s *echo.Echo)
}

// Server holds the Echo instance.
type Server struct {
	e *echo.Echo
}

// New creates a new server instance serving the embedded public site, with
// the shared middleware stack already applied.
func New(log *slog.Logger, publicFS fs.FS, allowedOrigins []string) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.Use(slogecho.New(log))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ContentSecurityPolicy: contentSecurityPolicy,
	}))
	e.Use(originGuard(allowedOrigins))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsAllowList(allowedOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	e.StaticFS("/", publicFS)

	return &Server{
		e: e,
	}
}

// RegisterRouter attaches a route registrar.
func (s *Server) RegisterRouter(r RouteRegister) {
	r.RegisterRoutes(s.e)
}

// Start runs the HTTP server.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// originGuard rejects browser requests from origins outside the allow-list
// with a fixed message. An empty list allows everything; requests without an
// Origin header, or with the literal "null" origin (file:// during local
// development), always pass.
func originGuard(allowedOrigins []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowedOrigins) == 0 {
				return next(c)
			}
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || origin == "null" {
				return next(c)
			}
			if !slices.Contains(allowedOrigins, origin) {
				return c.JSON(http.StatusForbidden, map[string]string{"message": msgOriginRejected})
			}
			return next(c)
		}
	}
}

func corsAllowList(allowedOrigins []string) []string {
	if len(allowedOrigins) == 0 {
		return []string{"*"}
	}
	return allowedOrigins
}
