// Package log provides structured logging with run context.
//
// Two logger variants are available:
//   - Logger: Non-sugared zap.Logger for the runtime path (high performance, structured fields)
//   - SugaredLogger: Printf-style logging for CLI/debug surfaces (convenience over performance)
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging with run context.
// All log entries carry the run identity so concurrent runs writing to a
// shared stream remain attributable.
//
// Use this for the runtime path where performance matters.
// For CLI/debug surfaces, use Sugar() to get a SugaredLogger.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger provides printf-style logging for CLI and debug surfaces.
// Wraps zap.SugaredLogger with run context.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a new logger bound to a run identity.
// Output defaults to os.Stderr so structured logs never interleave with
// rendered results on stdout.
func NewLogger(runID string) *Logger {
	return newLoggerWithWriter(runID, os.Stderr)
}

// Nop returns a logger that discards everything. Useful as a default so
// library code never needs logger-presence checks.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// WithOutput returns a new logger with a different output writer.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return &Logger{zap: l.zap.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

// newLoggerWithWriter creates a logger writing to the specified writer.
func newLoggerWithWriter(runID string, w io.Writer) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)

	zapLogger := zap.New(core).With(zap.String("run_id", runID))
	return &Logger{zap: zapLogger}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zap.Any("fields", fields))
}

// Sugar returns a SugaredLogger for printf-style logging.
// Use for CLI/debug surfaces where convenience matters more than performance.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Debugf logs a debug message with printf-style formatting.
func (s *SugaredLogger) Debugf(template string, args ...any) {
	s.sugar.Debugf(template, args...)
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) {
	s.sugar.Warnf(template, args...)
}

// Errorf logs an error message with printf-style formatting.
func (s *SugaredLogger) Errorf(template string, args ...any) {
	s.sugar.Errorf(template, args...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
