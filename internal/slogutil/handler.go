// Package slogutil provides the slog handlers and logger constructors used by depgraph.
package slogutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"depgraph/internal/errors"
)

// TextHandler writes one line per record:
//
//	2026-01-02T15:04:05Z [debug] Module added | module=src/a.js#0 dependencies=1
//
// Groups are flattened into dotted keys, so a load report logged under "load"
// reads load.id=... load.records=3. Module keys and snapshots print through
// their String method. A graph error adds a <key>.code pair carrying its code.
type TextHandler struct {
	w     io.Writer
	level slog.Leveler
	mu    *sync.Mutex

	// prefix holds the attrs bound by WithAttrs, already encoded.
	prefix string
	// group is the dotted key prefix from WithGroup, with its trailing dot.
	group string
}

// NewTextHandler creates a line handler. opts.Level defaults to info.
func NewTextHandler(w io.Writer, opts *slog.HandlerOptions) *TextHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &TextHandler{w: w, level: level, mu: &sync.Mutex{}}
}

// Enabled reports whether level is at or above the handler's level.
func (h *TextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r as a single line.
func (h *TextHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.UTC().Format(time.RFC3339))
		b.WriteByte(' ')
	}
	b.WriteByte('[')
	b.WriteString(levelString(r.Level))
	b.WriteString("] ")
	b.WriteString(r.Message)

	var attrs strings.Builder
	attrs.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&attrs, h.group, a)
		return true
	})
	if attrs.Len() > 0 {
		b.WriteString(" |")
		b.WriteString(attrs.String())
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler that writes attrs on every line.
func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}
	next := *h
	next.prefix = b.String()
	return &next
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *TextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

// appendAttr writes " key=value" for a, recursing into groups.
func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return
		}
		nested := group
		if a.Key != "" {
			nested = group + a.Key + "."
		}
		for _, m := range members {
			appendAttr(b, nested, m)
		}
		return
	}
	if a.Key == "" {
		return
	}

	key := group + a.Key
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(formatValue(a.Value))

	if err, ok := a.Value.Any().(error); ok {
		if code := errors.CodeOf(err); code != "" {
			b.WriteString(" " + key + ".code=" + string(code))
		}
	}
}

// levelString returns a lowercase string for the log level.
func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

// formatValue renders a resolved, non-group value.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quote(v.String())
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().Round(time.Microsecond).String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return quote(x.Error())
		case fmt.Stringer:
			return quote(x.String())
		}
		return quote(fmt.Sprint(v.Any()))
	default:
		return v.String()
	}
}

// quote leaves plain tokens bare and quotes anything that would split the line.
func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\n\r|") {
		return strconv.Quote(s)
	}
	return s
}
