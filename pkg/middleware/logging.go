package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// RequestLogger logs each request with method, path, status and latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.WithContext(c.Request.Context()).Error("request completed", fields...)
		case c.Writer.Status() >= 400:
			log.WithContext(c.Request.Context()).Warn("request completed", fields...)
		default:
			log.WithContext(c.Request.Context()).Info("request completed", fields...)
		}
	}
}
