// Package logger provides a structured, levelled logger built on log/slog.
//
// The key extension over plain slog is WithCtx: the logger middleware stores a
// logger tagged with the request ID in the request context, so every line a
// handler or service writes is correlated:
//
//	log := logger.WithCtx(ctx)
//	log.Info("products imported", "imported", 3)
//	// → time=... level=INFO msg="products imported" request_id=7b1e... imported=3
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/catalog/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stdout, config.IsProduction())
	slog.SetDefault(L)
}

// New builds the base logger: JSON at INFO for production, text at DEBUG
// otherwise.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetDefault replaces the package logger and slog's default.
func SetDefault(l *slog.Logger) {
	L = l
	slog.SetDefault(l)
}

// EnableMongo tees every record into MongoDB in addition to the current
// handler. The returned func flushes and disconnects; call it on shutdown.
func EnableMongo(uri, database, collection string) (func(), error) {
	mh, err := NewMongoHandler(uri, database, collection)
	if err != nil {
		return nil, err
	}
	SetDefault(slog.New(NewMultiHandler(L.Handler(), mh)).With("service", config.AppName()))
	return mh.Close, nil
}

type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or the base logger when
// ctx carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log into ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
