package access

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest: argumentos de mutate-role ausentes o inválidos.
	ErrBadRequest = errors.New("access: bad request")

	// ErrForbidden: caller autenticado pero ni dueño ni admin.
	ErrForbidden = errors.New("access: forbidden")

	// ErrNotFound: el perfil pedido no existe. Indica inconsistencia del store.
	ErrNotFound = errors.New("access: profile not found")

	// ErrStore: cualquier fallo del store no clasificado.
	ErrStore = errors.New("access: store error")
)

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
