// Package vastlog constructs the zap.Logger shared by every indexing and
// query-evaluation component that accepts one, so callers wiring up a
// process get one consistent console format instead of each package
// picking its own.
package vastlog

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded logger writing to w at the given level.
func New(w io.Writer, level zapcore.Level) *zap.Logger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}
	config.EncodeDuration = func(d time.Duration, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(d.String())
	}
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	))
}

// Nop returns a logger that discards everything, the default every
// constructor in bitmapindex and expr falls back to when given nil.
func Nop() *zap.Logger {
	return zap.NewNop()
}
