// Package logger provides structured, component-scoped logging on top of
// zerolog.
//
//	logging:
//	  level: "info"
//	  format: "json"
//
//	log := logger.Get("job")
//	log.Info("job accepted", logger.Fields(logger.FieldJobID, id))
package logger
