package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/goliatone/go-auction-query/catalog"
	"github.com/goliatone/go-auction-query/internal/metrics"
	"github.com/goliatone/go-auction-query/paging"
	"github.com/goliatone/go-auction-query/pkg/logger"
	"github.com/goliatone/go-auction-query/query"
	"github.com/goliatone/go-auction-query/similarity"
	"github.com/goliatone/go-auction-query/specification"
)

// ErrorResponse is the body of every non 2xx answer.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields,omitempty"`
}

// RequestError reports a malformed request parameter.
type RequestError struct {
	Param   string
	Message string
}

func (e *RequestError) Error() string {
	return "invalid " + e.Param + ": " + e.Message
}

// RequestLogger logs every request with timing and status, and makes the
// logger available to the request context.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		logger.FromContext(c.Request.Context()).Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("error", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		)
	}
}

// QueryMetrics records the latency of every routed request under its route.
func QueryMetrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" || route == "/metrics" {
			return
		}
		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}
		collector.ObserveQuery(route, time.Since(start), err)
	}
}

// ErrorHandler renders the last error registered by a handler.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		status, body := errorResponse(last.Err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(last.Err))
		}
		c.JSON(status, body)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var fields validation.Errors
	var reqErr *RequestError

	switch {
	case errors.As(err, &fields):
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields}
	case errors.As(err, &reqErr),
		errors.Is(err, paging.ErrOutOfRange),
		errors.Is(err, specification.ErrTakeOutOfRange):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, query.ErrNoBids),
		errors.Is(err, query.ErrNotEnoughItems),
		errors.Is(err, similarity.ErrNoCandidates):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
	}
}

// fail registers err for ErrorHandler and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
