package middlewares

import "net/http"

// Middleware es un decorador de http.Handler
type Middleware func(http.Handler) http.Handler

// Chain aplica middlewares en orden de izquierda a derecha.
// Chain(h, A, B, C) ejecuta: A -> B -> C -> h
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// Std adapta la cadena a la firma que espera chi (r.Use / r.With).
func Std(mws ...Middleware) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler { return Chain(h, mws...) }
}
