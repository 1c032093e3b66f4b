package repository

import "context"

// CallerIdentity es el solicitante autenticado del request actual.
// Se crea por request a partir de un token resuelto y nunca se persiste.
type CallerIdentity struct {
	ID string
}

// IdentityProvider valida un bearer token opaco y devuelve la identidad.
// Cualquier token inválido, expirado o malformado devuelve un error; el
// adapter puede envolver ErrInvalidToken o un error de transporte.
type IdentityProvider interface {
	Resolve(ctx context.Context, token string) (CallerIdentity, error)
}
