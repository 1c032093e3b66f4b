package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
)

// ErrInvalidCredential agrupa token inválido, expirado, malformado o fallo del
// provider. El detalle solo va al log.
var ErrInvalidCredential = errors.New("auth: invalid credential")

// Resolver adapta un IdentityProvider al contrato del pipeline.
// Es stateless: se construye una vez y se comparte entre requests.
type Resolver struct {
	provider repository.IdentityProvider
	name     string
}

// NewResolver crea el adapter. name solo se usa en logs ("gotrue", "jwt").
func NewResolver(p repository.IdentityProvider, name string) *Resolver {
	return &Resolver{provider: p, name: name}
}

// Resolve intercambia el token por la identidad del caller. Sin reintentos.
func (r *Resolver) Resolve(ctx context.Context, token string) (repository.CallerIdentity, error) {
	if strings.TrimSpace(token) == "" {
		return repository.CallerIdentity{}, ErrMissingCredential
	}

	id, err := r.provider.Resolve(ctx, token)
	if err != nil {
		logger.From(ctx).Info("credential rejected",
			logger.Layer("auth"),
			logger.Provider(r.name),
			logger.Err(err),
		)
		return repository.CallerIdentity{}, ErrInvalidCredential
	}
	if strings.TrimSpace(id.ID) == "" {
		logger.From(ctx).Warn("provider returned identity without id",
			logger.Layer("auth"),
			logger.Provider(r.name),
		)
		return repository.CallerIdentity{}, ErrInvalidCredential
	}
	return id, nil
}
