// Package log wraps zap behind the small leveled interface the daemon
// surface uses. The key-exchange core never logs; only the CLI and the
// metrics listener do.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a leveled, structured logger.
type Logger interface {
	Debugw(msg string, keyvals ...interface{})
	Infow(msg string, keyvals ...interface{})
	Warnw(msg string, keyvals ...interface{})
	Errorw(msg string, keyvals ...interface{})
	Fatalw(msg string, keyvals ...interface{})
	// With returns a logger that adds the given key value pairs to every
	// statement.
	With(keyvals ...interface{}) Logger
	// Named adds a sub-scope name to the logger.
	Named(s string) Logger
}

// Levels, in zap's numbering.
const (
	DebugLevel = int(zapcore.DebugLevel)
	InfoLevel  = int(zapcore.InfoLevel)
	WarnLevel  = int(zapcore.WarnLevel)
	ErrorLevel = int(zapcore.ErrorLevel)
)

// DefaultLevel is the level of the default logger. Change it before the
// first DefaultLogger call to take effect.
var DefaultLevel = InfoLevel

var (
	defaultLogger    Logger
	defaultLoggerSet sync.Once
)

// DefaultLogger returns the process-wide logger, writing console output
// to stderr at DefaultLevel.
func DefaultLogger() Logger {
	defaultLoggerSet.Do(func() {
		defaultLogger = New(os.Stderr, DefaultLevel, false)
	})
	return defaultLogger
}

// New returns a logger printing statements at or above level to output.
// A nil output means stderr.
func New(output zapcore.WriteSyncer, level int, jsonFormat bool) Logger {
	if output == nil {
		output = os.Stderr
	}
	encoder := consoleEncoder()
	if jsonFormat {
		encoder = jsonEncoder()
	}
	core := zapcore.NewCore(encoder, output, zapcore.Level(level))
	return &logger{zap.New(core, zap.WithCaller(true)).Sugar()}
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) With(keyvals ...interface{}) Logger {
	return &logger{l.SugaredLogger.With(keyvals...)}
}

func (l *logger) Named(s string) Logger {
	return &logger{l.SugaredLogger.Named(s)}
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}
