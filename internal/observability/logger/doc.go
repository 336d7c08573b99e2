// Package logger expone un logger Zap singleton con scoping por contexto.
//
// Cada unidad de trabajo (un request HTTP, una suscripción al stream de
// comandas) lleva su propio logger derivado con request_id y tenant, de modo
// que las líneas de distintos tenants nunca se mezclan en un mismo campo.
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En servicios:
//
//	log := logger.From(ctx)
//	log.Warn("cache backend unavailable", logger.CacheName("order"), logger.Err(err))
package logger
