package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/devconnect/internal/utils"
)

const requestIDHeader = "X-Request-Id"

// RequestLogger writes one line per request. Failures carry the code and
// operation of the AppError the handler attached, plus its full cause.
func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Set("request_id", reqID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		entry := l.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"route":      route,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		})
		if id, ok := Identity(c); ok {
			entry = entry.WithField("user_id", id.UserID.Hex())
		}
		if last := c.Errors.Last(); last != nil {
			var ae *utils.AppError
			if errors.As(last.Err, &ae) {
				entry = entry.WithFields(logrus.Fields{"code": ae.Code, "op": ae.Op})
			}
			entry = entry.WithError(last.Err)
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}
