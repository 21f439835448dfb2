// Package logger builds the process-wide structured logger.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"verigate/internal/platform/config"
	"verigate/pkg/attrs"
	"verigate/pkg/requestcontext"
)

// New returns a logger writing to stdout and, when cfg.File is set, a JSON
// copy to that file. The returned func closes the file.
func New(cfg config.Log) (*slog.Logger, func() error) {
	var console slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "text" {
		console = slog.NewTextHandler(os.Stdout, opts)
	} else {
		console = slog.NewJSONHandler(os.Stdout, opts)
	}

	if cfg.File == "" {
		return slog.New(withRequestContext(console)), func() error { return nil }
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l := slog.New(withRequestContext(console))
		l.Error("failed to open log file, using stdout only", attrs.Error, err, "file", cfg.File)
		return l, func() error { return nil }
	}
	return NewWithWriters(os.Stdout, file, cfg), file.Close
}

// NewWithWriters fans out to a console handler on console and a JSON handler
// on file.
func NewWithWriters(console, file io.Writer, cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var consoleHandler slog.Handler = slog.NewJSONHandler(console, opts)
	if cfg.Format == "text" {
		consoleHandler = slog.NewTextHandler(console, opts)
	}
	return slog.New(withRequestContext(slogmulti.Fanout(consoleHandler, slog.NewJSONHandler(file, opts))))
}

// withRequestContext stamps request and tenant ids carried by the context
// onto every record that does not already have them.
func withRequestContext(h slog.Handler) slog.Handler {
	mw := slogmulti.NewHandleInlineMiddleware(func(ctx context.Context, record slog.Record, next func(context.Context, slog.Record) error) error {
		present := map[string]bool{}
		record.Attrs(func(a slog.Attr) bool {
			present[a.Key] = true
			return true
		})
		if id := requestcontext.RequestID(ctx); id != "" && !present[attrs.RequestID] {
			record.AddAttrs(slog.String(attrs.RequestID, id))
		}
		if id := requestcontext.TenantID(ctx); id != "" && !present[attrs.TenantID] {
			record.AddAttrs(slog.String(attrs.TenantID, id))
		}
		return next(ctx, record)
	})
	return slogmulti.Pipe(mw).Handler(h)
}
