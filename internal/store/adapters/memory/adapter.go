// Package memory implementa un record store en memoria para desarrollo local
// y tests. Soporta set_user_role como procedimiento registrado.
package memory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	store "github.com/dropDatabas3/profilegate/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, cfg store.AdapterConfig) (store.Connection, error) {
	s := New()
	s.RegisterProcedure(repository.SetUserRoleProcedure, SetUserRole(repository.ProfilesTable))
	if cfg.SeedFile != "" {
		if err := s.LoadSeedFile(cfg.SeedFile); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// seedFile es el formato YAML del seed:
//
//	profiles:
//	  - id: 7d0c...
//	    email: ana@example.com
//	    role: admin
type seedFile map[string][]map[string]any

// LoadSeedFile carga filas desde un YAML { tabla: [filas] }.
func (s *Store) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("memory: read seed: %w", err)
	}
	return s.LoadSeed(data)
}

// LoadSeed carga filas desde YAML. Cada fila necesita un id string.
func (s *Store) LoadSeed(data []byte) error {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("memory: parse seed: %w", err)
	}
	for table, rows := range seed {
		for i, r := range rows {
			if err := s.Insert(table, repository.Row(r)); err != nil {
				return fmt.Errorf("memory: seed %s[%d]: %w", table, i, err)
			}
		}
	}
	return nil
}
