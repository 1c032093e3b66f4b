package middlewares

import (
	"context"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
)

type ctxKey string

const (
	ctxCallerKey    ctxKey = "caller"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithCaller inyecta la identidad resuelta del caller.
func WithCaller(ctx context.Context, c repository.CallerIdentity) context.Context {
	return context.WithValue(ctx, ctxCallerKey, c)
}

// GetCaller obtiene el caller. ok=false si RequireCaller no corrió.
func GetCaller(ctx context.Context) (repository.CallerIdentity, bool) {
	c, ok := ctx.Value(ctxCallerKey).(repository.CallerIdentity)
	return c, ok && c.ID != ""
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID retorna "" si no hay request ID.
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
