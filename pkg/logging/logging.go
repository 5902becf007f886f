// Package logging builds the zap logger shared by the CLI, TUI and MCP server.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for level ("debug", "info", "warn", "error"; anything
// else means info) and format ("json" or console). Logs go to stderr so they
// never mix with command output.
func New(level, format string) (*zap.Logger, error) {
	zapLevel := ParseLevel(level)

	encoding := "console"
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if format == "json" {
		encoding = "json"
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build()
}

// ParseLevel maps a config string onto a zap level.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
