// Package errors define el catálogo de errores HTTP y su serialización.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/profilegate/internal/access"
	"github.com/dropDatabas3/profilegate/internal/auth"
)

// errorResponse controla exactamente qué se envía al cliente.
type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// FromError traduce errores de dominio al catálogo. Lo desconocido es 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case stderrors.Is(err, auth.ErrMissingCredential):
		return ErrTokenMissing.WithCause(err)
	case stderrors.Is(err, auth.ErrInvalidCredential):
		return ErrTokenInvalid.WithCause(err)
	case stderrors.Is(err, access.ErrBadRequest):
		return ErrBadRequest.WithCause(err)
	case stderrors.Is(err, access.ErrForbidden):
		return ErrForbidden.WithCause(err)
	case stderrors.Is(err, access.ErrNotFound):
		return ErrProfileMissing.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

// WriteError escribe la respuesta JSON para err.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Detail: appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
