package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

const redacted = "***"

// keySet holds lowercase attribute names whose values never reach a log sink.
type keySet map[string]struct{}

func newKeySet(fields []string) keySet {
	ks := make(keySet, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			ks[f] = struct{}{}
		}
	}
	return ks
}

func (ks keySet) has(key string) bool {
	_, ok := ks[strings.ToLower(key)]
	return ok
}

// redactHandler replaces sensitive values by key. Keys are matched at any
// depth: slog groups, maps and JSON documents carried as strings or bytes.
type redactHandler struct {
	next slog.Handler
	keys keySet
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	if len(h.keys) == 0 {
		return h.next.Handle(ctx, r)
	}

	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.keys.attr(a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.keys.attr(a)
	}
	return &redactHandler{next: h.next.WithAttrs(clean), keys: h.keys}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name), keys: h.keys}
}

func (ks keySet) attr(a slog.Attr) slog.Attr {
	if ks.has(a.Key) {
		return slog.String(a.Key, redacted)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		clean := make([]any, len(group))
		for i, ga := range group {
			clean[i] = ks.attr(ga)
		}
		return slog.Group(a.Key, clean...)
	case slog.KindString:
		if s, ok := ks.jsonText([]byte(v.String())); ok {
			return slog.String(a.Key, s)
		}
	case slog.KindAny:
		switch raw := v.Any().(type) {
		case map[string]any, []any:
			return slog.Any(a.Key, ks.walk(raw))
		case map[string]string:
			m := make(map[string]any, len(raw))
			for k, s := range raw {
				m[k] = s
			}
			return slog.Any(a.Key, ks.walk(m))
		case []byte:
			if s, ok := ks.jsonText(raw); ok {
				return slog.String(a.Key, s)
			}
		}
	}

	return slog.Attr{Key: a.Key, Value: v}
}

// jsonText redacts a JSON object or array; ok is false for any other text.
func (ks keySet) jsonText(b []byte) (string, bool) {
	if len(b) == 0 || (b[0] != '{' && b[0] != '[') {
		return "", false
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return "", false
	}

	out, err := json.Marshal(ks.walk(doc))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func (ks keySet) walk(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if ks.has(k) {
				out[k] = redacted
				continue
			}
			out[k] = ks.walk(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = ks.walk(inner)
		}
		return out
	default:
		return v
	}
}
