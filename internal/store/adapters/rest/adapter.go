// Package rest implementa el record store sobre la API REST de la plataforma
// (dialecto PostgREST: /rest/v1/{tabla} y /rest/v1/rpc/{función}).
package rest

import (
	"context"
	"fmt"
	"strings"

	store "github.com/dropDatabas3/profilegate/internal/store"
)

func init() {
	store.RegisterAdapter(&restAdapter{})
}

type restAdapter struct{}

func (a *restAdapter) Name() string { return "postgrest" }

func (a *restAdapter) Connect(_ context.Context, cfg store.AdapterConfig) (store.Connection, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("postgrest: url required")
	}
	if strings.TrimSpace(cfg.ServiceKey) == "" {
		return nil, fmt.Errorf("postgrest: service key required")
	}
	return New(cfg.URL, cfg.ServiceKey, cfg.Timeout), nil
}
