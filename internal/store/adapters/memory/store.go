package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/dropDatabas3/profilegate/internal/domain/types"
)

// Procedure es un procedimiento ejecutado con el lock de escritura tomado,
// así es atómico respecto al resto de operaciones.
type Procedure func(tx *Tx, args map[string]any) error

// Store guarda filas por tabla e id. Las lecturas devuelven copias.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]repository.Row
	procs  map[string]Procedure
}

// New crea un store vacío sin procedimientos.
func New() *Store {
	return &Store{
		tables: map[string]map[string]repository.Row{},
		procs:  map[string]Procedure{},
	}
}

func (s *Store) Name() string               { return "memory" }
func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

// RegisterProcedure agrega (o reemplaza) un procedimiento.
func (s *Store) RegisterProcedure(name string, p Procedure) {
	s.mu.Lock()
	s.procs[name] = p
	s.mu.Unlock()
}

// Insert agrega o reemplaza una fila. La fila necesita un id string no vacío.
func (s *Store) Insert(table string, row repository.Row) error {
	id, _ := row["id"].(string)
	if table == "" || id == "" {
		return fmt.Errorf("memory: insert needs table and id: %w", repository.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[table]
	if t == nil {
		t = map[string]repository.Row{}
		s.tables[table] = t
	}
	t[id] = copyRow(row)
	return nil
}

func (s *Store) Get(_ context.Context, table, id string) (repository.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.tables[table][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyRow(r), nil
}

// GetAll devuelve las filas ordenadas por id.
func (s *Store) GetAll(_ context.Context, table string) ([]repository.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tables[table]
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]repository.Row, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyRow(t[id]))
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, table, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&Tx{s: s}).Update(table, id, fields)
}

func (s *Store) CallProcedure(_ context.Context, name string, args map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[name]
	if !ok {
		return fmt.Errorf("memory: %s: %w", name, repository.ErrProcedureUnavailable)
	}
	return p(&Tx{s: s}, args)
}

// Tx da acceso a las filas dentro de un procedimiento (lock ya tomado).
type Tx struct{ s *Store }

// Get devuelve la fila sin copiar.
func (tx *Tx) Get(table, id string) (repository.Row, bool) {
	r, ok := tx.s.tables[table][id]
	return r, ok
}

// Update aplica fields sobre la fila.
func (tx *Tx) Update(table, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("memory: update without fields: %w", repository.ErrInvalidInput)
	}
	r, ok := tx.s.tables[table][id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		r[k] = v
	}
	return nil
}

// SetUserRole replica la función SQL set_user_role: valida el rol y que el
// target exista antes de escribir.
func SetUserRole(table string) Procedure {
	return func(tx *Tx, args map[string]any) error {
		target, _ := args["target_id"].(string)
		role, _ := args["new_role"].(string)
		if target == "" {
			return fmt.Errorf("set_user_role: target_id required: %w", repository.ErrInvalidInput)
		}
		if !types.Role(role).IsValid() {
			return fmt.Errorf("set_user_role: invalid role %q: %w", role, repository.ErrInvalidInput)
		}
		if _, ok := tx.Get(table, target); !ok {
			return fmt.Errorf("set_user_role: %w", repository.ErrNotFound)
		}
		return tx.Update(table, target, map[string]any{"role": role})
	}
}

func copyRow(r repository.Row) repository.Row {
	cp := make(repository.Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}
