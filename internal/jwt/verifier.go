// Package jwt verifica access tokens HS256 emitidos por el auth server de la
// plataforma, sin llamada remota. El secreto es el JWT secret compartido.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Leeway tolerado para exp/nbf.
const defaultLeeway = 30 * time.Second

var (
	ErrMissingSubject = errors.New("jwt: missing sub")
	ErrEmptySecret    = errors.New("jwt: empty secret")
)

// Verifier implementa repository.IdentityProvider con verificación local.
type Verifier struct {
	secret   []byte
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// NewVerifier crea un verificador. audience vacío desactiva el chequeo de aud.
func NewVerifier(secret, audience string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	return &Verifier{
		secret:   []byte(secret),
		audience: audience,
		leeway:   defaultLeeway,
		now:      time.Now,
	}, nil
}

// Resolve valida firma, exp/nbf y aud, y devuelve sub como identidad.
func (v *Verifier) Resolve(_ context.Context, token string) (repository.CallerIdentity, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithLeeway(v.leeway),
		jwtv5.WithTimeFunc(v.now),
		jwtv5.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwtv5.WithAudience(v.audience))
	}

	claims := jwtv5.MapClaims{}
	tok, err := jwtv5.ParseWithClaims(token, claims, func(*jwtv5.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return repository.CallerIdentity{}, fmt.Errorf("%w: %v", repository.ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return repository.CallerIdentity{}, fmt.Errorf("%w: %v", repository.ErrInvalidToken, ErrMissingSubject)
	}
	return repository.CallerIdentity{ID: sub}, nil
}
