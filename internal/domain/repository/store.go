package repository

import "context"

// ProfilesTable es la tabla compartida de perfiles.
const ProfilesTable = "profiles"

// SetUserRoleProcedure es el procedimiento atómico preferido para cambiar roles.
// Argumentos: target_id, new_role.
const SetUserRoleProcedure = "set_user_role"

// Row es una fila tal como la devuelve el store. Las columnas que el core no
// interpreta se conservan sin tocar.
type Row map[string]any

// RecordStore es el store persistente externo.
type RecordStore interface {
	// Get devuelve la fila con id dado. ErrNotFound si no existe.
	Get(ctx context.Context, table, id string) (Row, error)

	// GetAll devuelve todas las filas de la tabla, sin paginar.
	GetAll(ctx context.Context, table string) ([]Row, error)

	// Update aplica fields sobre la fila con id dado.
	Update(ctx context.Context, table, id string, fields map[string]any) error

	// CallProcedure ejecuta un procedimiento remoto con argumentos nombrados.
	CallProcedure(ctx context.Context, name string, args map[string]any) error
}

// Pinger lo implementan los stores que pueden verificar conectividad (readyz).
type Pinger interface {
	Ping(ctx context.Context) error
}
