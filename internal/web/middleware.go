package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func accessLog(logger *zap.Logger, observer requestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		elapsed := time.Since(started)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if observer != nil {
			observer.ObserveRequest(c.Request.Method, route, c.Writer.Status(), elapsed)
		}
		if route == "/healthz" || route == "/metrics" {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", requestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", elapsed),
			zap.String("client_ip", c.ClientIP()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.String("error", errs.String()))
		}
		logger.Info("http request", fields...)
	}
}

func rejectTooLarge(c *gin.Context) {
	abortWithError(c, &APIError{Kind: KindPayloadTooLarge, Message: "audio file exceeds the upload limit"})
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic while serving request",
			zap.String("request_id", requestIDFrom(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("recovered", recovered),
		)
		abortWithError(c, &APIError{Kind: KindInternal, Message: "internal server error"})
	})
}

// limitBody caps request bodies so oversized uploads fail while parsing.
// A declared Content-Length above limit goes straight to reject.
func limitBody(limit int64, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			reject(c)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
