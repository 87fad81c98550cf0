// Package jesslog provides the structured logging seam every pipeline
// component logs through, backed by go.uber.org/zap rather than the
// teacher's hand-rolled printf-style Logger interface.
package jesslog

import "go.uber.org/zap"

// Logger is the narrow interface pipeline components depend on, mirroring
// the shape of the teacher's plugin.Logger but with leveled zap.Field
// structure instead of Printf-style formatting.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
}

// zapLogger adapts *zap.Logger to Logger.
type zapLogger struct {
	z *zap.Logger
}

// New wraps an existing *zap.Logger.
func New(z *zap.Logger) Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &zapLogger{z: z}
}

// NewDevelopment returns a human-readable, console-encoded logger suitable
// for local runs of the pipeline, mirroring zap.NewDevelopment().
func NewDevelopment() Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		return Nop()
	}
	return New(z)
}

// NewProduction returns a JSON-encoded logger suitable for production
// invocations of the pipeline, mirroring zap.NewProduction().
func NewProduction() Logger {
	z, err := zap.NewProduction()
	if err != nil {
		return Nop()
	}
	return New(z)
}

// Nop returns a logger that discards everything, the default for library
// consumers that don't configure one — mirroring the teacher's
// NewNoOpLogger().
func Nop() Logger {
	return New(zap.NewNop())
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}
