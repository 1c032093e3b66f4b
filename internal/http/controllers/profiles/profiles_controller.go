// Package profiles contiene el controller de las rutas de perfiles y roles.
package profiles

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/profilegate/internal/access"
	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	dto "github.com/dropDatabas3/profilegate/internal/http/dto/profiles"
	httperrors "github.com/dropDatabas3/profilegate/internal/http/errors"
	"github.com/dropDatabas3/profilegate/internal/http/helpers"
	mw "github.com/dropDatabas3/profilegate/internal/http/middlewares"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
)

// Gate es el contrato de access.Gate que usa el controller.
type Gate interface {
	GetOwnProfile(ctx context.Context, caller repository.CallerIdentity) (repository.Profile, error)
	GetProfile(ctx context.Context, caller repository.CallerIdentity, targetID string) (repository.Profile, error)
	ListProfiles(ctx context.Context, caller repository.CallerIdentity) ([]repository.Profile, error)
	SetRole(ctx context.Context, caller repository.CallerIdentity, targetID, newRole string) error
}

var _ Gate = (*access.Gate)(nil)

// ProfilesController maneja /api/profile, /api/profile/{id}, /api/profiles y /api/role.
// Todas las rutas requieren mw.RequireCaller antes.
type ProfilesController struct {
	gate Gate
}

func NewProfilesController(gate Gate) *ProfilesController {
	return &ProfilesController{gate: gate}
}

// caller obtiene la identidad o escribe 401 si el middleware no corrió.
func caller(w http.ResponseWriter, r *http.Request) (repository.CallerIdentity, bool) {
	c, ok := mw.GetCaller(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
	}
	return c, ok
}

// writeError loguea los 5xx con la causa y responde con el catálogo.
func writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	appErr := httperrors.FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(ctx).Error("request failed",
			logger.Layer("controller"),
			logger.Op(op),
			logger.Err(err),
		)
	}
	httperrors.WriteError(w, appErr)
}

// GetOwn maneja GET /api/profile
func (c *ProfilesController) GetOwn(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	p, err := c.gate.GetOwnProfile(r.Context(), who)
	if err != nil {
		writeError(r.Context(), w, "ProfilesController.GetOwn", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProfileResponse{Profile: p})
}

// GetByID maneja GET /api/profile/{id}
func (c *ProfilesController) GetByID(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	p, err := c.gate.GetProfile(r.Context(), who, chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, "ProfilesController.GetByID", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProfileResponse{Profile: p})
}

// List maneja GET /api/profiles
func (c *ProfilesController) List(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	ps, err := c.gate.ListProfiles(r.Context(), who)
	if err != nil {
		writeError(r.Context(), w, "ProfilesController.List", err)
		return
	}
	if ps == nil {
		ps = []repository.Profile{}
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProfilesResponse{Profiles: ps})
}

// SetRole maneja POST /api/role con body {id, role}.
func (c *ProfilesController) SetRole(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}

	var req dto.SetRoleRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.gate.SetRole(r.Context(), who, req.ID, req.Role); err != nil {
		if stderrors.Is(err, access.ErrBadRequest) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.
				WithDetail("id is required and role must be one of: user, admin").WithCause(err))
			return
		}
		writeError(r.Context(), w, "ProfilesController.SetRole", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.AckResponse{OK: true})
}
