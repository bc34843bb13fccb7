package log

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/config"
)

// errorColor is the ANSI 256 color used for error attributes in text output.
const errorColor = 9

// NewSlogLogger builds the process logger, writing to w, and installs it as
// the slog default. The shell owns stdout, so callers pass os.Stderr.
func NewSlogLogger(cfg config.Log, w io.Writer) *slog.Logger {
	logger := slog.New(sessionHandler{newHandler(cfg, w)})
	slog.SetDefault(logger)
	return logger
}

func newHandler(cfg config.Log, w io.Writer) slog.Handler {
	if cfg.Format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      cfg.Level,
		AddSource:  cfg.AddSource,
		TimeFormat: time.Kitchen,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() != slog.KindAny {
				return a
			}
			if _, ok := a.Value.Any().(error); ok {
				return tint.Attr(errorColor, a)
			}
			return a
		},
	})
}
