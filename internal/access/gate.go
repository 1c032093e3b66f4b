package access

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/dropDatabas3/profilegate/internal/domain/types"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
	"go.uber.org/zap"
)

// Config configura el gate. Los valores vacíos usan los defaults del repositorio.
type Config struct {
	Table     string
	Procedure string
	Observer  Observer
}

// Gate decide ALLOW/DENY y solo toca el store cuando la decisión lo permite.
// Es stateless y seguro para uso concurrente.
type Gate struct {
	store    repository.RecordStore
	table    string
	roles    *RoleWriter
	observer Observer
}

// NewGate construye el gate sobre un RecordStore.
func NewGate(store repository.RecordStore, cfg Config) *Gate {
	table := cfg.Table
	if table == "" {
		table = repository.ProfilesTable
	}
	obs := cfg.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &Gate{
		store:    store,
		table:    table,
		roles:    NewRoleWriter(store, table, cfg.Procedure, obs),
		observer: obs,
	}
}

func (g *Gate) log(ctx context.Context, op Operation, caller repository.CallerIdentity) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("access"),
		logger.Component("gate"),
		logger.Op(string(op)),
		logger.UserID(caller.ID),
	)
}

func (g *Gate) decide(log *zap.Logger, op Operation, d AccessDecision) {
	g.observer.ObserveDecision(op, d)
	if d.Allow {
		log.Debug("access allowed", logger.Decision(true), logger.Reason(d.Reason))
		return
	}
	log.Info("access denied", logger.Decision(false), logger.Reason(d.Reason))
}

// load lee y decodifica una fila de perfil.
func (g *Gate) load(ctx context.Context, id string) (repository.Profile, error) {
	row, err := g.store.Get(ctx, g.table, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return repository.Profile{}, ErrNotFound
		}
		return repository.Profile{}, storeError("get", err)
	}
	p, err := repository.ProfileFromRow(row)
	if err != nil {
		return repository.Profile{}, storeError("decode", err)
	}
	return p, nil
}

// requireRole es el único chequeo de capacidad del gate: lee el rol del caller
// en el store (sin cache) y decide. Cualquier fallo de la lectura, incluido
// perfil inexistente, es ErrStore.
func (g *Gate) requireRole(ctx context.Context, caller repository.CallerIdentity, want types.Role) (AccessDecision, error) {
	p, err := g.load(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AccessDecision{}, storeError("role lookup", err)
		}
		return AccessDecision{}, err
	}
	if p.Role.Normalize() != want {
		return deny(ReasonNotAdmin), nil
	}
	return allow(ReasonAdmin), nil
}

// GetOwnProfile devuelve el perfil del propio caller. Siempre permitido.
func (g *Gate) GetOwnProfile(ctx context.Context, caller repository.CallerIdentity) (repository.Profile, error) {
	log := g.log(ctx, OpGetOwnProfile, caller)
	g.decide(log, OpGetOwnProfile, allow(ReasonSelf))

	p, err := g.load(ctx, caller.ID)
	if err != nil {
		log.Error("load own profile failed", logger.Err(err))
		return repository.Profile{}, err
	}
	return p, nil
}

// GetProfile devuelve el perfil targetID. El dueño lo lee con una sola lectura;
// cualquier otro caller necesita rol admin y, si no lo tiene, el target no se lee.
func (g *Gate) GetProfile(ctx context.Context, caller repository.CallerIdentity, targetID string) (repository.Profile, error) {
	log := g.log(ctx, OpGetProfile, caller).With(logger.TargetID(targetID))

	if strings.TrimSpace(targetID) == "" {
		g.decide(log, OpGetProfile, deny(ReasonBadRequest))
		return repository.Profile{}, ErrBadRequest
	}

	if targetID == caller.ID {
		g.decide(log, OpGetProfile, allow(ReasonSelf))
	} else {
		d, err := g.requireRole(ctx, caller, types.RoleAdmin)
		if err != nil {
			log.Error("role lookup failed", logger.Err(err))
			return repository.Profile{}, err
		}
		g.decide(log, OpGetProfile, d)
		if !d.Allow {
			return repository.Profile{}, ErrForbidden
		}
	}

	p, err := g.load(ctx, targetID)
	if err != nil {
		log.Error("load profile failed", logger.Err(err))
		return repository.Profile{}, err
	}
	return p, nil
}

// ListProfiles devuelve todos los perfiles, sin paginar. Solo admin.
func (g *Gate) ListProfiles(ctx context.Context, caller repository.CallerIdentity) ([]repository.Profile, error) {
	log := g.log(ctx, OpListProfiles, caller)

	d, err := g.requireRole(ctx, caller, types.RoleAdmin)
	if err != nil {
		log.Error("role lookup failed", logger.Err(err))
		return nil, err
	}
	g.decide(log, OpListProfiles, d)
	if !d.Allow {
		return nil, ErrForbidden
	}

	rows, err := g.store.GetAll(ctx, g.table)
	if err != nil {
		log.Error("list profiles failed", logger.Err(err))
		return nil, storeError("get all", err)
	}
	out := make([]repository.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := repository.ProfileFromRow(row)
		if err != nil {
			log.Error("decode profile failed", logger.Err(err))
			return nil, storeError("decode", err)
		}
		out = append(out, p)
	}
	log.Debug("profiles listed", logger.Count(len(out)))
	return out, nil
}

// SetRole cambia el rol de targetID. Los argumentos se validan antes de
// cualquier llamada al store; después exige admin y aplica el RoleWriter.
func (g *Gate) SetRole(ctx context.Context, caller repository.CallerIdentity, targetID, newRole string) error {
	log := g.log(ctx, OpSetRole, caller).With(logger.TargetID(targetID), logger.Role(newRole))

	role, ok := types.ParseRole(newRole)
	if strings.TrimSpace(targetID) == "" || !ok {
		g.decide(log, OpSetRole, deny(ReasonBadRequest))
		return ErrBadRequest
	}

	d, err := g.requireRole(ctx, caller, types.RoleAdmin)
	if err != nil {
		log.Error("role lookup failed", logger.Err(err))
		return err
	}
	g.decide(log, OpSetRole, d)
	if !d.Allow {
		return ErrForbidden
	}

	path, err := g.roles.Apply(ctx, targetID, role)
	if err != nil {
		return err
	}
	log.Info("role updated", logger.String("path", string(path)))
	return nil
}
