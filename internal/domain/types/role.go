// Package types define tipos de dominio compartidos entre paquetes.
package types

import "strings"

// Role es el rol de un perfil dentro de la tabla compartida.
type Role string

const (
	// RoleUser es el rol por defecto; un rol ausente o vacío se trata como user.
	RoleUser Role = "user"
	// RoleAdmin habilita lectura de perfiles ajenos, listado y cambio de roles.
	RoleAdmin Role = "admin"
)

// IsValid retorna true solo para los dos roles reconocidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Normalize trata el rol vacío como RoleUser. No valida otros valores.
func (r Role) Normalize() Role {
	if strings.TrimSpace(string(r)) == "" {
		return RoleUser
	}
	return r
}

// ParseRole interpreta un rol recibido por la API. Es estricto: "Admin" o
// "superuser" no son válidos.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
