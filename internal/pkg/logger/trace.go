package logger

import (
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

type traceKey string

// TraceIDKey is both the gin key and the log attribute name
const TraceIDKey = "trace_id"

const traceCtxKey traceKey = TraceIDKey

// ContextHandler copies the trace id from ctx onto every record
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if traceID := TraceID(ctx); traceID != "" {
		r.AddAttrs(log.String(TraceIDKey, traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// WithTraceID returns ctx carrying traceID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceCtxKey, traceID)
}

// NewTraceContext starts a background trace, used by jobs and consumers
func NewTraceContext(prefix string) context.Context {
	return WithTraceID(context.Background(), prefix+"-"+uuid.NewString())
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceCtxKey).(string)
	return id
}
