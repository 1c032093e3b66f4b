package access

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/dropDatabas3/profilegate/internal/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userA = repository.CallerIdentity{ID: "user-a"}
	userB = repository.CallerIdentity{ID: "user-b"}
	admin = repository.CallerIdentity{ID: "admin-1"}
)

func seed() *fakeStore {
	return newFakeStore(
		repository.Row{"id": "user-a", "email": "a@example.com", "full_name": "Ana", "role": "user", "created_at": "2024-01-01T00:00:00Z"},
		repository.Row{"id": "user-b", "email": "b@example.com", "full_name": nil, "role": nil},
		repository.Row{"id": "admin-1", "email": "root@example.com", "role": "admin"},
	)
}

func TestGetOwnProfile_ReturnsCallerRow(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})

	p, err := g.GetOwnProfile(context.Background(), userA)
	require.NoError(t, err)
	assert.Equal(t, "user-a", p.ID)
	assert.Equal(t, "a@example.com", p.Email)
	require.NotNil(t, p.FullName)
	assert.Equal(t, "Ana", *p.FullName)
	assert.Equal(t, types.RoleUser, p.Role)
	assert.Equal(t, "2024-01-01T00:00:00Z", p.Extra["created_at"])
	assert.Equal(t, 1, s.calls())
}

func TestGetOwnProfile_MissingRowIsNotFound(t *testing.T) {
	g := NewGate(seed(), Config{})
	_, err := g.GetOwnProfile(context.Background(), repository.CallerIdentity{ID: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOwnProfile_StoreFailure(t *testing.T) {
	s := seed()
	s.getErr = errors.New("connection reset")
	g := NewGate(s, Config{})
	_, err := g.GetOwnProfile(context.Background(), userA)
	assert.ErrorIs(t, err, ErrStore)
}

func TestGetProfile_SelfIsSingleRead(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})

	p, err := g.GetProfile(context.Background(), userA, "user-a")
	require.NoError(t, err)
	assert.Equal(t, "user-a", p.ID)
	assert.Equal(t, 1, s.gets)
}

func TestGetProfile_NonAdminForbiddenWithOneStoreCall(t *testing.T) {
	s := seed()
	obs := &recordingObserver{}
	g := NewGate(s, Config{Observer: obs})

	_, err := g.GetProfile(context.Background(), userA, "user-b")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, s.calls(), "only the role lookup may touch the store")
	require.Len(t, obs.decisions, 1)
	assert.Equal(t, AccessDecision{Allow: false, Reason: ReasonNotAdmin}, obs.decisions[0])
}

func TestGetProfile_NullRoleCountsAsUser(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})
	_, err := g.GetProfile(context.Background(), userB, "user-a")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetProfile_AdminReadsAnyProfile(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})

	for _, id := range []string{"user-a", "user-b", "admin-1"} {
		p, err := g.GetProfile(context.Background(), admin, id)
		require.NoError(t, err, id)
		assert.Equal(t, id, p.ID)
	}
}

func TestGetProfile_AdminMissingTargetIsNotFound(t *testing.T) {
	g := NewGate(seed(), Config{})
	_, err := g.GetProfile(context.Background(), admin, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProfile_EmptyTargetIsBadRequest(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})
	_, err := g.GetProfile(context.Background(), userA, " ")
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Zero(t, s.calls())
}

func TestRoleLookup_MissingCallerRowIsStoreError(t *testing.T) {
	g := NewGate(seed(), Config{})
	_, err := g.GetProfile(context.Background(), repository.CallerIdentity{ID: "ghost"}, "user-a")
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestListProfiles(t *testing.T) {
	t.Run("non-admin forbidden", func(t *testing.T) {
		s := seed()
		g := NewGate(s, Config{})
		_, err := g.ListProfiles(context.Background(), userA)
		require.ErrorIs(t, err, ErrForbidden)
		assert.Zero(t, s.getAlls)
	})

	t.Run("admin gets every row", func(t *testing.T) {
		s := seed()
		g := NewGate(s, Config{})
		ps, err := g.ListProfiles(context.Background(), admin)
		require.NoError(t, err)
		assert.Len(t, ps, 3)
		for _, p := range ps {
			assert.True(t, p.Role.IsValid(), p.ID)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		s := seed()
		s.getAllErr = errors.New("timeout")
		g := NewGate(s, Config{})
		_, err := g.ListProfiles(context.Background(), admin)
		assert.ErrorIs(t, err, ErrStore)
	})
}

func TestSetRole_InvalidArgumentsNeverTouchStore(t *testing.T) {
	cases := []struct {
		name, target, role string
	}{
		{"superuser", "user-a", "superuser"},
		{"empty role", "user-a", ""},
		{"uppercase", "user-a", "Admin"},
		{"empty target", "", "admin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := seed()
			g := NewGate(s, Config{})
			err := g.SetRole(context.Background(), admin, tc.target, tc.role)
			require.ErrorIs(t, err, ErrBadRequest)
			assert.Zero(t, s.calls())
		})
	}
}

func TestSetRole_NonAdminForbidden(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})
	err := g.SetRole(context.Background(), userA, "user-a", "admin")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, s.writes())
	assert.Equal(t, "user", s.role("user-a"))
}

func TestSetRole_ViaProcedure(t *testing.T) {
	s := seed()
	obs := &recordingObserver{}
	g := NewGate(s, Config{Observer: obs})

	require.NoError(t, g.SetRole(context.Background(), admin, "user-a", "admin"))
	assert.Equal(t, "admin", s.role("user-a"))
	assert.Equal(t, 1, s.procs)
	assert.Zero(t, s.updates)
	assert.Equal(t, []RoleWritePath{PathProcedure}, obs.writes)
}

func TestSetRole_Idempotent(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})
	require.NoError(t, g.SetRole(context.Background(), admin, "user-b", "admin"))
	require.NoError(t, g.SetRole(context.Background(), admin, "user-b", "admin"))
	assert.Equal(t, "admin", s.role("user-b"))

	p, err := g.GetProfile(context.Background(), admin, "user-b")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, p.Role)
}

func TestSetRole_FallsBackToDirectUpdate(t *testing.T) {
	s := seed()
	s.procErr = repository.ErrProcedureUnavailable
	obs := &recordingObserver{}
	g := NewGate(s, Config{Observer: obs})

	require.NoError(t, g.SetRole(context.Background(), admin, "user-a", "admin"))
	assert.Equal(t, "admin", s.role("user-a"))
	assert.Equal(t, 1, s.procs)
	assert.Equal(t, 1, s.updates)
	assert.Equal(t, []RoleWritePath{PathProcedure, PathDirect}, obs.writes)
	assert.Equal(t, 1, obs.failures)
}

func TestSetRole_BothPathsFail(t *testing.T) {
	s := seed()
	s.procErr = errors.New("permission denied")
	s.updateErr = errors.New("read only")
	g := NewGate(s, Config{})

	err := g.SetRole(context.Background(), admin, "user-a", "admin")
	require.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "user", s.role("user-a"))
}

func TestSetRole_ConcurrentLastWriteWins(t *testing.T) {
	s := seed()
	g := NewGate(s, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		role := "admin"
		if i%2 == 0 {
			role = "user"
		}
		go func(r string) {
			defer wg.Done()
			assert.NoError(t, g.SetRole(context.Background(), admin, "user-b", r))
		}(role)
	}
	wg.Wait()
	assert.Contains(t, []any{"user", "admin"}, s.role("user-b"))
}
