// Package store provee el registry de adapters de record store.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
)

// Adapter crea conexiones a un backend de registros.
type Adapter interface {
	// Name retorna el nombre del driver ("postgres", "postgrest", "memory").
	Name() string

	// Connect establece la conexión. El resultado es de larga vida y se
	// comparte entre requests.
	Connect(ctx context.Context, cfg AdapterConfig) (Connection, error)
}

// Connection es un RecordStore con ciclo de vida.
type Connection interface {
	repository.RecordStore

	// Name retorna el nombre del adapter.
	Name() string

	// Ping verifica la conexión (readyz).
	Ping(ctx context.Context) error

	// Close libera recursos (pool, clientes).
	Close() error
}

// AdapterConfig configuración para conectar a un backend.
type AdapterConfig struct {
	// Name del driver: "postgres", "postgrest", "memory"
	Name string

	// DSN connection string (postgres)
	DSN string

	// URL base, service key y timeout HTTP (postgrest)
	URL        string
	ServiceKey string
	Timeout    time.Duration

	// Pool settings (postgres)
	MaxOpenConns int
	MaxIdleConns int

	// SeedFile YAML con filas iniciales (memory)
	SeedFile string
}

// ─── Registry Global ───

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter. Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("adapter: %q already registered", name))
	}
	adapters[name] = a
}

// GetAdapter obtiene un adapter por nombre.
func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open abre una conexión usando el adapter indicado en la config.
func Open(ctx context.Context, cfg AdapterConfig) (Connection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("adapter: %q not registered (available: %v)", cfg.Name, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}
