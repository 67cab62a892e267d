package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"orders/internal/adapters/in/http/docs"
	"orders/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterOptions struct {
	Logger       *slog.Logger
	Doc          *openapi3.T
	HealthChecks map[string]HealthCheck
}

// NewRouter wires middleware, the generated API routes, health, metrics and
// swagger UI onto a new echo instance.
func NewRouter(server *Server, opts RouterOptions) (*echo.Echo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(correlationIDMiddleware(logger))
	e.Use(requestLoggerMiddleware())
	e.Use(metricsMiddleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, CorrelationIDHeader, "Idempotency-Key"},
	}))

	if opts.Doc != nil {
		if err := docs.Register(opts.Doc); err != nil {
			return nil, err
		}
		validator, err := openAPIValidatorMiddleware(opts.Doc)
		if err != nil {
			return nil, err
		}
		e.Use(validator)
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	servers.RegisterHandlers(e, server)

	e.GET("/health", healthHandler(opts.HealthChecks))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}

func healthHandler(checks map[string]HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		failed := make(map[string]string)
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "unhealthy", "checks": failed})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	}
}
