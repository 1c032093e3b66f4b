// Package profiles define los DTOs de las rutas /api/profile*, /api/role.
package profiles

import "github.com/dropDatabas3/profilegate/internal/domain/repository"

// ProfileResponse: GET /api/profile y GET /api/profile/{id}.
type ProfileResponse struct {
	Profile repository.Profile `json:"profile"`
}

// ProfilesResponse: GET /api/profiles. Profiles nunca es null.
type ProfilesResponse struct {
	Profiles []repository.Profile `json:"profiles"`
}

// SetRoleRequest: body de POST /api/role.
type SetRoleRequest struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// AckResponse: respuesta de POST /api/role.
type AckResponse struct {
	OK bool `json:"ok"`
}
