// Package events provides the request logging middleware
package events

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Naya-01/PAE/internal/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// CreateEvent returns a middleware that tags each request with an id and
// logs its start and completion
func CreateEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		log := logger.HTTP().With("request_id", requestID)

		log.Debug("Request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()

		logLevel := log.Info
		if status >= 500 {
			logLevel = log.Error
		} else if status >= 400 {
			logLevel = log.Warn
		}

		logLevel("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}

// RequestID returns the id assigned to the request by CreateEvent
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
