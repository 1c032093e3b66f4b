package repository

import "errors"

var (
	// ErrNotFound indica que la fila solicitada no existe.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indica argumentos inválidos para el store (tabla vacía, sin campos...).
	ErrInvalidInput = errors.New("invalid input")

	// ErrProcedureUnavailable indica que el procedimiento remoto no existe en el store.
	ErrProcedureUnavailable = errors.New("procedure unavailable")

	// ErrInvalidToken indica que el identity provider rechazó el token.
	ErrInvalidToken = errors.New("invalid token")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
