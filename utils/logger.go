package utils

import (
	"log"

	"go.uber.org/zap"
)

// Logger encapsulates a sugared zap logger named after the component which
// it belongs to.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger returns a logger for the given component. Tracing loggers use the
// zap development configuration, others discard everything.
func NewLogger(module string, trace bool) *Logger {
	if !trace {
		return NopLogger(module)
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Cannot create new logger:", err)
	}
	return &Logger{l.Sugar().Named(module)}
}

// NewFileLogger returns a tracing logger that also writes to the given files.
func NewFileLogger(module string, files ...string) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = append(cfg.OutputPaths, files...)
	l, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot create new logger:", err)
	}
	return &Logger{l.Sugar().Named(module)}
}

// NopLogger returns a logger which discards all output.
func NopLogger(module string) *Logger {
	return &Logger{zap.NewNop().Sugar().Named(module)}
}
