// Package logger provides structured logging for the resolution engine,
// wrapping zerolog with configuration and domain field conventions.
//
//	log := logger.NewDefault("bindkit")
//	log.Debug("producer created", logger.Fields(
//	    logger.FieldServiceType, "Validator[string]",
//	    logger.FieldImplementation, "DefaultValidator[string]"))
package logger
