package middleware

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

// RequestID takes X-Request-ID from the request or makes one, echoes it on
// the response and logs one line per request with method, path, status,
// latency and the trace id when the request carries a span.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.Set("request_id", id)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			traceID := "-"
			if sc := trace.SpanContextFromContext(req.Context()); sc.HasTraceID() {
				traceID = sc.TraceID().String()
			}
			log.Printf("http: %s %s %d %s req=%s trace=%s user=%s",
				req.Method, req.URL.Path, c.Response().Status, time.Since(start).Round(time.Microsecond),
				id, traceID, UserID(c))
			return nil
		}
	}
}
