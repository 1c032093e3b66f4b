// Package logger expone el logger zap del servicio.
//
// Un único logger de proceso (Init una vez en main) y loggers "scoped" por
// request que viajan en el context.Context:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("access"), logger.Op("ListProfiles"))
//	log.Warn("role lookup failed", logger.Err(err))
//
// En "prod" la salida es JSON; en cualquier otro entorno, consola con colores.
package logger
