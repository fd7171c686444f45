// Package logger provides structured logging for pipelayer applications
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. There is no process-wide
// logger: callers build one and hand it to whatever needs it, typically a
// pipeline.Context.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "hello-service").WithComponent("pipeline")
//	log.Info("run complete", logger.Fields("pipeline", "Hello World"))
package logger
