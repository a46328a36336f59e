package domain

import (
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
	"github.com/FACorreiaa/loci-citymap/internal/app/observability/metrics"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// Render writes a templ component as HTML with the given status.
func (h *BaseHandler) Render(c *gin.Context, status int, name string, component templ.Component) {
	start := time.Now()
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.Logger.Error("Failed to render component", zap.String("component", name), zap.Error(err))
		_ = c.Error(err)
	}
	metrics.Get().TemplateRenderDuration.Record(c.Request.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("component", name)))
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrBadRequest),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidCoordinates):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError logs server-side failures and answers with the mapped
// status. Client errors echo their message, server errors do not.
func (h *BaseHandler) AbortWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
