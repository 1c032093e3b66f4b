package middlewares

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/profilegate/internal/auth"
	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/dropDatabas3/profilegate/internal/http/errors"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
)

// CallerResolver es lo que RequireCaller necesita de auth.Resolver.
type CallerResolver interface {
	Resolve(ctx context.Context, token string) (repository.CallerIdentity, error)
}

// RequireCaller extrae el bearer token, lo resuelve y guarda la identidad en
// el contexto. Sin token o con token inválido responde 401 sin tocar el store.
func RequireCaller(resolver CallerResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearer(r.Header)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				errors.WriteError(w, err)
				return
			}

			caller, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if !stderrors.Is(err, auth.ErrMissingCredential) {
					w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				}
				errors.WriteError(w, err)
				return
			}

			ctx := WithCaller(r.Context(), caller)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(caller.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
