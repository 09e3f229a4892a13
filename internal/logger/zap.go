package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger so call sites don't import zap.
type Logger struct {
	*zap.SugaredLogger
}

// parseLevel maps a textual level to zapcore; unknown strings fall back
// to debug so misconfiguration never hides output.
func parseLevel(s string) zapcore.Level {
	switch s {
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

func newZapLogger(level string) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		zap.NewAtomicLevelAt(parseLevel(level)),
	)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}
