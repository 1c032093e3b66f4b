// Package access es el gate de control de acceso sobre la tabla de perfiles.
//
// Regla única: el caller accede a su propio perfil; cualquier otra operación
// (leer un perfil ajeno, listar, cambiar roles) exige rol admin, verificado con
// requireRole contra el store en cada request. No se cachean identidades,
// roles ni perfiles, y ninguna operación reintenta ante fallos del store.
package access
