// Package helpers contiene utilidades de lectura/escritura JSON para controllers.
package helpers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/dropDatabas3/profilegate/internal/http/errors"
)

// MaxBodyBytes limita los bodies JSON de entrada.
const MaxBodyBytes = 64 << 10

// ReadJSON decodifica el body en v. Campos desconocidos se ignoran; body
// vacío deja v en su zero value. Devuelve un *AppError listo para WriteError.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.ErrBodyTooLarge.WithCause(err)
		}
		return errors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// WriteJSON escribe una respuesta JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
