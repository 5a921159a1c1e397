package logging

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It discards everything until Init is called.
var Logger = zap.NewNop()

// Options controls where and how verbosely Init logs
type Options struct {
	// File is an optional path that receives a rotated copy of every log line
	File  string
	Debug bool
}

// NewLogger builds a JSON logger writing to stdout and, if opts.File is set, to a rotated file
func NewLogger(opts Options) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		cores = append(cores, zapcore.NewCore(encoder,
			zapcore.AddSync(&lumberjack.Logger{
				Filename: opts.File, MaxSize: 100, MaxAge: 28, Compress: true,
			}),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// Init replaces Logger with one built from opts and returns it
func Init(opts Options) *zap.Logger {
	Logger = NewLogger(opts)
	return Logger
}

type contextKey int

const sessionIDKey contextKey = 0

// WithSessionID stores a session id on ctx so FromContext can attach it to log lines
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// FromContext returns Logger, tagged with the session id from ctx if there is one
func FromContext(ctx context.Context) *zap.Logger {
	if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
		return Logger.With(zap.String("session_id", id))
	}
	return Logger
}

// LogDuration lets you do: defer logging.LogDuration(ctx, "FuncName")()
func LogDuration(ctx context.Context, name string) func() {
	start := time.Now()
	return func() {
		FromContext(ctx).Debug("function timed",
			zap.String("func", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}
}
