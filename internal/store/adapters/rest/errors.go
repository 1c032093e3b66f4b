package rest

import "errors"

// 22P02: el id no tiene el formato de la columna (ej: uuid inválido).
const codeInvalidText = "22P02"

func asStatus(err error, target **StatusError) bool {
	return err != nil && errors.As(err, target)
}

func isInvalidID(err error) bool {
	var se *StatusError
	return asStatus(err, &se) && se.Code == codeInvalidText
}
