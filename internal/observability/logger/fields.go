package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - RESTAURANTE
// =================================================================================

// Tenant crea un campo con el tenant (partición de datos) activo.
func Tenant(v string) zap.Field { return zap.String("tenant", v) }

// User crea un campo con el username del staff autenticado.
func User(v string) zap.Field { return zap.String("user", v) }

// Table crea un campo con el número de mesa.
func Table(v int) zap.Field { return zap.Int("table", v) }

// OrderID crea un campo con el ID de la orden.
func OrderID(v int64) zap.Field { return zap.Int64("order_id", v) }

// ProductID crea un campo con el ID del producto.
func ProductID(v int64) zap.Field { return zap.Int64("product_id", v) }

// CacheName crea un campo con el nombre lógico del cache (business, order, ...).
func CacheName(v string) zap.Field { return zap.String("cache", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

func Layer(v string) zap.Field        { return zap.String("layer", v) }
func Component(v string) zap.Field    { return zap.String("component", v) }
func Op(v string) zap.Field           { return zap.String("op", v) }
func Err(err error) zap.Field         { return zap.Error(err) }
func Count(v int) zap.Field           { return zap.Int("count", v) }
func Key(v string) zap.Field          { return zap.String("key", v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
func String(key, v string) zap.Field  { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
