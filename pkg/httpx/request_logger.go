package httpx

import (
	"strconv"
	"time"

	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// служебные маршруты: в гистограмму попадают, в лог — нет
var quietRoutes = map[string]struct{}{"/metrics": {}, "/ping": {}}

// RequestLogger — строка в лог и наблюдение в http_request_duration_seconds на каждый запрос.
// Уровень по статусу: 5xx — Errorf, 4xx — Warnf. request_id/client_id/trace_id дописывает логгер.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status/100)+"xx").
			Observe(elapsed.Seconds())

		if _, quiet := quietRoutes[route]; quiet {
			return
		}

		ctx := c.Request.Context()
		const format = "request method=%s path=%s status=%d ip=%s duration=%s size=%d errors=%q"
		args := []any{c.Request.Method, c.Request.URL.Path, status, c.ClientIP(), elapsed, c.Writer.Size(), c.Errors.String()}
		switch {
		case status >= 500:
			log.Errorf(ctx, format, args...)
		case status >= 400:
			log.Warnf(ctx, format, args...)
		default:
			log.Infof(ctx, format, args...)
		}
	}
}
