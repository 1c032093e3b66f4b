// Package auth extrae el bearer credential de un request y lo resuelve contra
// el identity provider externo. No hay cache: cada request resuelve de nuevo.
package auth
