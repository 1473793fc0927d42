// Package logger provides structured logging for pipes-cliff using zerolog.
//
// The library stays quiet by default: components log through a Nop logger
// unless the caller installs one. Loggers are component-scoped and carry
// structured fields.
//
// # Usage
//
//	log := logger.NewDefault("my-tool").WithComponent("engine")
//	log.Info("process started", logger.Fields("pid", pid))
package logger
