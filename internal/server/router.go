package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/loci-citymap/internal/app/middleware"
	"github.com/FACorreiaa/loci-citymap/internal/routes"
)

// SetupRouter configures the Gin engine and wraps it with CORS.
func SetupRouter(deps routes.Dependencies, logger *zap.Logger) (*gin.Engine, http.Handler, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.OTELGinMiddleware(deps.Config.Observability.ServiceName))
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		SkipPaths:  []string{"/healthz"},
		Context:    zapContextFunc(),
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.SecurityMiddleware(middleware.TileOrigin(deps.Config.Map.TileURL)))

	if err := routes.Setup(r, deps, logger); err != nil {
		return nil, nil, err
	}

	return r, middleware.CORS(deps.Config.AllowedOrigin, r), nil
}

// zapContextFunc adds request and trace ids to access log lines.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get(middleware.RequestIDHeader); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if session := c.Param("session"); session != "" {
			fields = append(fields, zap.String("session_id", session))
		}

		return fields
	}
}
