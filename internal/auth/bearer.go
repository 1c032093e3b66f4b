package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ErrMissingCredential: no hay header Authorization con esquema Bearer.
var ErrMissingCredential = errors.New("auth: missing bearer credential")

const bearerPrefix = "bearer "

// ExtractBearer devuelve el token de "Authorization: Bearer <token>".
// El esquema es case-insensitive; un token vacío cuenta como ausente.
func ExtractBearer(h http.Header) (string, error) {
	ah := strings.TrimSpace(h.Get("Authorization"))
	if len(ah) < len(bearerPrefix) || !strings.EqualFold(ah[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingCredential
	}
	tok := strings.TrimSpace(ah[len(bearerPrefix):])
	if tok == "" {
		return "", ErrMissingCredential
	}
	return tok, nil
}
