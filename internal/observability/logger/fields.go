package logger

import "go.uber.org/zap"

// =================================================================================
// CAMPOS - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS - ACCESO A PERFILES
// =================================================================================

// UserID es el caller autenticado.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// TargetID es el perfil sobre el que se opera (puede diferir del caller).
func TargetID(v string) zap.Field { return zap.String("target_id", v) }

func Role(v string) zap.Field      { return zap.String("role", v) }
func Decision(v bool) zap.Field    { return zap.Bool("allow", v) }
func Reason(v string) zap.Field    { return zap.String("reason", v) }
func Table(v string) zap.Field     { return zap.String("table", v) }
func Procedure(v string) zap.Field { return zap.String("procedure", v) }
func Provider(v string) zap.Field  { return zap.String("provider", v) }

// =================================================================================
// CAMPOS - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }
func String(k, v string) zap.Field { return zap.String(k, v) }
func Any(k string, v any) zap.Field {
	return zap.Any(k, v)
}
