package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing instruments requests with OpenTelemetry spans and enriches
// them with the request, session, and user identifiers the rest of the
// stack logs under
func Tracing(serviceName string, provider trace.TracerProvider) gin.HandlerFunc {
	otelMiddleware := otelgin.Middleware(serviceName, otelgin.WithTracerProvider(provider))

	return func(c *gin.Context) {
		otelMiddleware(c)
		enrichSpan(c)
	}
}

func enrichSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}

	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if sessionID := GetSessionID(c); sessionID != "" {
		span.SetAttributes(attribute.String("session_id", sessionID))
	}
	if userID := c.GetString(JWTUserIDKey); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
}

// SpanErrorMarker marks the active span as errored for 4xx and 5xx
// responses after the handler chain has run
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status >= 400 {
			span.SetStatus(codes.Error, c.Errors.String())
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
	}
}
