package log

import (
	"context"
	"log/slog"

	"github.com/tuanvumaihuynh/perishable-catalog/pkg/sessionid"
)

const sessionIDKey = "session_id"

// sessionHandler stamps each record with the session id found in its context.
type sessionHandler struct {
	slog.Handler
}

func (h sessionHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := sessionid.FromContext(ctx); ok {
		r.AddAttrs(slog.String(sessionIDKey, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sessionHandler{h.Handler.WithAttrs(attrs)}
}

func (h sessionHandler) WithGroup(name string) slog.Handler {
	return sessionHandler{h.Handler.WithGroup(name)}
}
