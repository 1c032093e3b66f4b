// Package health define el DTO de /readyz.
package health

type HealthResponse struct {
	Status string `json:"status"` // ready | unavailable
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}
