package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/medibook-api/pkg/metrics"
)

type Handler struct {
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func New(m *metrics.Metrics, gatherer prometheus.Gatherer) *Handler {
	return &Handler{metrics: m, gatherer: gatherer}
}

// Middleware records request duration and counts by route template.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		h.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		h.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch code := c.Writer.Status(); {
		case code >= 500:
			h.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case code >= 400:
			h.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
