package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sampleapp/internal/logger"
)

// HTTPRecorder receives per-request measurements.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, d time.Duration)
}

// RequestLogger logs one structured line per request and feeds rec when
// it is not nil. The level follows the response status.
func RequestLogger(rec HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		if rec != nil {
			rec.RecordHTTPRequest(c.Request.Method, route, status, duration)
		}

		fields := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(duration.Microseconds()) / 1000,
			"client_ip":   c.ClientIP(),
		}
		if id := c.GetString(RequestIDKey); id != "" {
			fields["request_id"] = id
		}
		if userID := c.GetString(GinUserIDKey); userID != "" {
			fields["user_id"] = userID
		}

		level := zerolog.InfoLevel
		switch {
		case status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400:
			level = zerolog.WarnLevel
		}

		logger.Log(level, "http request", fields)
	}
}
