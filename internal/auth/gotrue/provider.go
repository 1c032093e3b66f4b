// Package gotrue resuelve bearer tokens contra el endpoint de usuario del
// auth server de la plataforma (GET /auth/v1/user).
// A diferencia del verificador JWT local, cada resolución es una llamada remota,
// así un token revocado deja de valer en cuanto el server lo invalida.
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
)

const userPath = "/auth/v1/user"

// Provider es el cliente del auth server. Seguro para uso concurrente.
type Provider struct {
	BaseURL string
	APIKey  string

	http *http.Client
}

// New crea el provider. timeout <= 0 usa 10s.
func New(baseURL, apiKey string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Resolve implementa repository.IdentityProvider.
func (p *Provider) Resolve(ctx context.Context, token string) (repository.CallerIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+userPath, nil)
	if err != nil {
		return repository.CallerIdentity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if p.APIKey != "" {
		req.Header.Set("apikey", p.APIKey)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return repository.CallerIdentity{}, fmt.Errorf("gotrue: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return repository.CallerIdentity{}, fmt.Errorf("gotrue: status %d: %w", resp.StatusCode, repository.ErrInvalidToken)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return repository.CallerIdentity{}, fmt.Errorf("gotrue: unexpected status %d", resp.StatusCode)
	}

	var u userResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		return repository.CallerIdentity{}, fmt.Errorf("gotrue: decode user: %w", err)
	}
	if u.ID == "" {
		return repository.CallerIdentity{}, fmt.Errorf("gotrue: user without id: %w", repository.ErrInvalidToken)
	}
	return repository.CallerIdentity{ID: u.ID}, nil
}
