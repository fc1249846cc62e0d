// Package logger provides structured logging on top of zerolog.
//
// It supports console and JSON output, level configuration, and
// component-scoped loggers with structured fields. Loggers are created once
// at process entry and passed to the components that need them.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "transcribe").WithComponent("session")
//	log.Info("session ready", logger.Fields("pid", pid))
package logger
