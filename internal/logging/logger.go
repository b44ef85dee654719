// Package logging provides structured logging with zerolog. It supports json
// and console output, log levels, request ID tracking, and automatic masking
// of sensitive fields so credentials never leak into structured log fields.
//
// Loggers are passed explicitly to collaborators; there is no package-global
// logger.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Level represents logging levels
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// defaultSensitiveFields are field names masked in logs regardless of
// configuration, to prevent accidental credential exposure.
var defaultSensitiveFields = []string{
	"password",
	"token",
	"secret",
	"api_key",
	"apikey",
	"authorization",
}

// RedactedPlaceholder replaces sensitive values in log output.
const RedactedPlaceholder = "***REDACTED***"

type contextKey string

const requestIDKey contextKey = "request_id"

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level Level

	// Format is the output format (json or console)
	Format string

	// Output is the writer for logs (default: os.Stderr)
	Output io.Writer

	// ServiceName is added to every entry when set
	ServiceName string

	// SensitiveFields extends the default set of masked field names
	SensitiveFields []string
}

// Logger wraps zerolog for structured logging
type Logger struct {
	logger          zerolog.Logger
	sensitiveFields map[string]bool
}

// NewLogger creates a new structured logger
func NewLogger(config LoggerConfig) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var zeroLevel zerolog.Level
	switch config.Level {
	case LevelDebug:
		zeroLevel = zerolog.DebugLevel
	case LevelWarn:
		zeroLevel = zerolog.WarnLevel
	case LevelError:
		zeroLevel = zerolog.ErrorLevel
	default:
		zeroLevel = zerolog.InfoLevel
	}

	if config.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).Level(zeroLevel).With().Timestamp().Logger()
	if config.ServiceName != "" {
		logger = logger.With().Str("service", config.ServiceName).Logger()
	}

	sensitiveFields := make(map[string]bool)
	for _, field := range defaultSensitiveFields {
		sensitiveFields[field] = true
	}
	for _, field := range config.SensitiveFields {
		sensitiveFields[strings.ToLower(field)] = true
	}

	return &Logger{
		logger:          logger,
		sensitiveFields: sensitiveFields,
	}
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{
		logger:          zerolog.Nop(),
		sensitiveFields: map[string]bool{},
	}
}

// maskSensitive masks sensitive field values (case-insensitive)
func (l *Logger) maskSensitive(key string, value any) any {
	if l.sensitiveFields[strings.ToLower(key)] {
		return RedactedPlaceholder
	}
	return value
}

// WithField returns a logger with an additional field
func (l *Logger) WithField(key string, value any) *Logger {
	newLogger := *l
	newLogger.logger = l.logger.With().Interface(key, l.maskSensitive(key, value)).Logger()
	return &newLogger
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	newLogger := *l
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, l.maskSensitive(key, value))
	}
	newLogger.logger = ctx.Logger()
	return &newLogger
}

// WithContext returns a logger carrying the request ID from ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	newLogger := *l
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		newLogger.logger = l.logger.With().Str(string(requestIDKey), requestID).Logger()
	}
	return &newLogger
}

// DebugEnabled reports whether debug entries will be emitted. Callers use it
// to avoid building expensive debug payloads that would be discarded.
func (l *Logger) DebugEnabled() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

// NewRequestID generates a new request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID stores a request ID on the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context, or "".
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
