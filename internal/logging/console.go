package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// shortIDLength is how much of a correlation ID the console header shows.
// The JSON handler always keeps the full value.
const shortIDLength = 8

// consoleHandler renders one line per record:
//
//	<time> <LEVEL> <component>[<correlation>]: <rack>: <message> ALERT <alert> key=value...
//
// component, correlation_id, rack and alert are lifted out of the attributes
// into the header. When the same key is set more than once the innermost
// value wins, so the decoder's "rack" component replaces the analyzer's.
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	prefix    string
	addSource bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// consoleLine collects the header fields and trailing attributes of a record.
type consoleLine struct {
	component   string
	correlation string
	rack        string
	alert       string
	fields      []field
}

type field struct {
	key   string
	value slog.Value
}

func (l *consoleLine) add(prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = joinKey(prefix, attr.Key)
		}
		for _, child := range attr.Value.Group() {
			l.add(next, child)
		}
		return
	}
	if prefix == "" {
		switch attr.Key {
		case FieldComponent:
			l.component = plainString(attr.Value)
			return
		case FieldCorrelationID:
			l.correlation = plainString(attr.Value)
			return
		case FieldRack:
			l.rack = plainString(attr.Value)
			return
		case FieldAlert:
			l.alert = plainString(attr.Value)
			return
		case FieldSourcePath:
			attr.Value = slog.StringValue(filepath.Base(plainString(attr.Value)))
		}
	}
	l.fields = append(l.fields, field{key: joinKey(prefix, attr.Key), value: attr.Value})
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	line := consoleLine{fields: make([]field, 0, record.NumAttrs()+len(h.attrs))}
	for _, attr := range h.attrs {
		line.add("", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		line.add(h.prefix, attr)
		return true
	})

	var buf bytes.Buffer
	buf.Grow(128 + len(line.fields)*24)
	buf.WriteString(timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, " %-5s", levelLabel(record.Level))
	if line.component != "" || line.correlation != "" {
		buf.WriteByte(' ')
		buf.WriteString(line.component)
		if line.correlation != "" {
			buf.WriteByte('[')
			buf.WriteString(shortID(line.correlation))
			buf.WriteByte(']')
		}
		buf.WriteByte(':')
	}
	buf.WriteByte(' ')
	if line.rack != "" {
		buf.WriteString(line.rack)
		buf.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}
	if line.alert != "" {
		buf.WriteString(" ALERT ")
		buf.WriteString(line.alert)
	}
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range line.fields {
		if f.key == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(f.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// WithAttrs pre-qualifies attributes with the current group prefix so Handle
// can treat stored and record attributes alike.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		if h.prefix != "" {
			attr = slog.Attr{Key: joinKey(h.prefix, attr.Key), Value: attr.Value}
		}
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = joinKey(h.prefix, name)
	return &clone
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func plainString(v slog.Value) string {
	if v.Kind() == slog.KindString {
		return v.String()
	}
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	return v.String()
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindDuration:
		return v.Duration().Round(time.Microsecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		return v.String()
	}
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool {
		return r <= ' ' || r == '=' || r == '"'
	})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
