package access

import (
	"context"
	"errors"
	"sync"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
)

// fakeStore es un RecordStore en memoria que cuenta llamadas.
type fakeStore struct {
	mu   sync.Mutex
	rows map[string]repository.Row

	gets, getAlls, updates, procs int

	getErr    error
	getAllErr error
	updateErr error
	// procErr != nil simula procedimiento ausente o fallido.
	procErr error
	// procApplies: el procedimiento escribe el rol cuando no falla.
	procApplies bool
}

func newFakeStore(rows ...repository.Row) *fakeStore {
	s := &fakeStore{rows: map[string]repository.Row{}, procApplies: true}
	for _, r := range rows {
		s.rows[r["id"].(string)] = r
	}
	return s
}

func (s *fakeStore) Get(_ context.Context, _ string, id string) (repository.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	r, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := repository.Row{}
	for k, v := range r {
		cp[k] = v
	}
	return cp, nil
}

func (s *fakeStore) GetAll(_ context.Context, _ string) ([]repository.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getAlls++
	if s.getAllErr != nil {
		return nil, s.getAllErr
	}
	out := make([]repository.Row, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, _ string, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	r, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		r[k] = v
	}
	return nil
}

func (s *fakeStore) CallProcedure(_ context.Context, name string, args map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procs++
	if s.procErr != nil {
		return s.procErr
	}
	if name != repository.SetUserRoleProcedure {
		return repository.ErrProcedureUnavailable
	}
	if s.procApplies {
		id, _ := args["target_id"].(string)
		if r, ok := s.rows[id]; ok {
			r["role"] = args["new_role"]
		} else {
			return errors.New("target not found")
		}
	}
	return nil
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets + s.getAlls + s.updates + s.procs
}

func (s *fakeStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates + s.procs
}

func (s *fakeStore) role(id string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id]["role"]
}

type recordingObserver struct {
	mu        sync.Mutex
	decisions []AccessDecision
	writes    []RoleWritePath
	failures  int
}

func (o *recordingObserver) ObserveDecision(_ Operation, d AccessDecision) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.decisions = append(o.decisions, d)
}

func (o *recordingObserver) ObserveRoleWrite(p RoleWritePath, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writes = append(o.writes, p)
	if err != nil {
		o.failures++
	}
}
