package access

import (
	"context"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/dropDatabas3/profilegate/internal/domain/types"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
)

// RoleWritePath indica por qué camino se aplicó un cambio de rol.
type RoleWritePath string

const (
	PathProcedure RoleWritePath = "procedure"
	PathDirect    RoleWritePath = "direct"
)

// RoleWriter aplica un cambio de rol en dos pasos: tryProcedure() orElse
// directUpdate(). El procedimiento es atómico del lado del store; el update
// directo es el camino degradado cuando el procedimiento falla por cualquier
// motivo, con la garantía de consistencia más débil que eso implica.
type RoleWriter struct {
	store     repository.RecordStore
	table     string
	procedure string
	observer  Observer
}

// NewRoleWriter crea la estrategia. procedure vacío usa set_user_role.
func NewRoleWriter(store repository.RecordStore, table, procedure string, obs Observer) *RoleWriter {
	if table == "" {
		table = repository.ProfilesTable
	}
	if procedure == "" {
		procedure = repository.SetUserRoleProcedure
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &RoleWriter{store: store, table: table, procedure: procedure, observer: obs}
}

// TryProcedure llama al procedimiento atómico.
func (w *RoleWriter) TryProcedure(ctx context.Context, targetID string, role types.Role) error {
	err := w.store.CallProcedure(ctx, w.procedure, map[string]any{
		"target_id": targetID,
		"new_role":  string(role),
	})
	w.observer.ObserveRoleWrite(PathProcedure, err)
	return err
}

// DirectUpdate hace UPDATE table SET role = role WHERE id = targetID.
func (w *RoleWriter) DirectUpdate(ctx context.Context, targetID string, role types.Role) error {
	err := w.store.Update(ctx, w.table, targetID, map[string]any{"role": string(role)})
	w.observer.ObserveRoleWrite(PathDirect, err)
	return err
}

// Apply ejecuta la estrategia y devuelve el camino que tuvo éxito.
// Si ambos fallan devuelve ErrStore envolviendo el error del fallback.
func (w *RoleWriter) Apply(ctx context.Context, targetID string, role types.Role) (RoleWritePath, error) {
	log := logger.From(ctx).With(
		logger.Layer("access"),
		logger.Component("role_writer"),
		logger.TargetID(targetID),
		logger.Role(string(role)),
	)

	perr := w.TryProcedure(ctx, targetID, role)
	if perr == nil {
		return PathProcedure, nil
	}
	// El procedimiento pudo rechazar el cambio a propósito; el fallback igual
	// se aplica. Queda en WARN para que sea visible.
	log.Warn("role procedure failed, falling back to direct update",
		logger.Procedure(w.procedure),
		logger.Err(perr),
	)

	if err := w.DirectUpdate(ctx, targetID, role); err != nil {
		log.Error("direct role update failed", logger.Err(err))
		return PathDirect, storeError("direct role update", err)
	}
	return PathDirect, nil
}
