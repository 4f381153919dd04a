package middleware

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader links all audit events and responses produced by one external call.
const CorrelationIDHeader = "X-Correlation-Id"

const maxCorrelationIDLen = 128

// CorrelationIDMiddleware takes the caller's correlation id, or generates one,
// echoes it on the response and stores it in the request context.
// Ids that are not valid UTF-8 or longer than maxCorrelationIDLen bytes are replaced.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := strings.TrimSpace(c.GetHeader(CorrelationIDHeader))
		if cid == "" || len(cid) > maxCorrelationIDLen || !utf8.ValidString(cid) {
			cid = strings.ReplaceAll(uuid.NewString(), "-", "")
		}

		c.Header(CorrelationIDHeader, cid)

		ctx := WithCorrelationID(c.Request.Context(), cid)
		ctx = WithLogger(ctx, GetLoggerFromCtx(ctx).With(slog.String("correlation_id", cid)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// WithCorrelationID returns a copy of ctx carrying cid.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDCtxKey, cid)
}

// GetCorrelationIDFromCtx returns the correlation id of the current call, or nil if there is none.
func GetCorrelationIDFromCtx(ctx context.Context) *string {
	cid, ok := ctx.Value(correlationIDCtxKey).(string)
	if !ok || cid == "" {
		return nil
	}
	return &cid
}
