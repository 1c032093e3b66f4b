// Package repository define los contratos con los colaboradores externos.
//
// Dos colaboradores, ambos fuera de este proceso:
//
//	┌──────────────────────────────┐      ┌──────────────────────────────┐
//	│  IdentityProvider            │      │  RecordStore                 │
//	│  token → CallerIdentity      │      │  get / getAll / update / rpc │
//	└──────────────────────────────┘      └──────────────────────────────┘
//	   adapters: gotrue, jwt                 adapters: pg, rest, memory
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - Errores de dominio en errors.go; los adapters los envuelven con %w.
//   - Las implementaciones son seguras para uso concurrente y no cachean.
package repository
