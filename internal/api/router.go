package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"scent-enricher/backend/internal/logging"
)

// NewEcho builds the echo instance with middleware and all REST routes.
// Extra mounts (such as the MCP handlers) are added by the caller.
func NewEcho(server *Server, logger *logging.Logger, version string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ProblemErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(otelecho.Middleware("scent-enricher"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Error("request failed", "method", v.Method, "uri", v.URI, "status", v.Status,
					"latency", v.Latency, "request_id", v.RequestID, "error", v.Error)
				return nil
			}
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency, "request_id", v.RequestID)
			return nil
		},
	}))

	e.GET("/health", NewHandler(version).HandleHealth)
	e.GET("/openapi.yaml", SpecHandler)
	e.GET("/docs", SwaggerHandler)

	RegisterHandlers(e.Group("/api/v1"), server)
	return e
}
