package repository

import (
	"encoding/json"
	"fmt"

	"github.com/dropDatabas3/profilegate/internal/domain/types"
	"github.com/mitchellh/mapstructure"
)

// Profile es una fila de la tabla de perfiles.
// Extra guarda columnas adicionales del store (timestamps, avatar...) que el
// core no interpreta; se devuelven tal cual en el JSON.
type Profile struct {
	ID       string         `mapstructure:"id"`
	Email    string         `mapstructure:"email"`
	FullName *string        `mapstructure:"full_name"`
	Role     types.Role     `mapstructure:"role"`
	Extra    map[string]any `mapstructure:",remain"`
}

// ProfileFromRow decodifica una fila. El rol ausente queda como user.
func ProfileFromRow(row Row) (Profile, error) {
	var p Profile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &p,
		TagName: "mapstructure",
	})
	if err != nil {
		return Profile{}, err
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return Profile{}, fmt.Errorf("decode profile row: %w", err)
	}
	if p.ID == "" {
		return Profile{}, fmt.Errorf("decode profile row: missing id")
	}
	p.Role = p.Role.Normalize()
	return p, nil
}

// IsAdmin indica si el perfil tiene rol admin.
func (p Profile) IsAdmin() bool { return p.Role.Normalize() == types.RoleAdmin }

// MarshalJSON aplana Extra junto a los campos conocidos.
// Los campos conocidos ganan ante una clave repetida en Extra.
func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["id"] = p.ID
	out["email"] = p.Email
	out["full_name"] = p.FullName
	out["role"] = p.Role.Normalize()
	return json.Marshal(out)
}
