package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleSink is shared by a root console handler and everything derived from
// it, so lines never interleave and repeat suppression spans components.
type consoleSink struct {
	mu sync.Mutex
	w  io.Writer
	// last info value shown per component and label
	seen map[string]map[string]string
}

// consoleHandler writes one header line per record:
//
//	2026-01-02 15:04:05 WARN [renderer] Tick #7 - status fetch failed
//	    - Service: tautulli
//	    - Kind: transient
//
// Info and above show a curated, de-duplicated field list; debug dumps every
// attribute verbatim.
type consoleHandler struct {
	sink      *consoleSink
	level     *slog.LevelVar
	addSource bool
	prefix    string
	preset    []logField
}

type logField struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{
		sink:      &consoleSink{w: w, seen: make(map[string]map[string]string)},
		level:     lvl,
		addSource: addSource,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	fields := make([]logField, 0, len(h.preset)+record.NumAttrs())
	fields = append(fields, h.preset...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendFlat(fields, h.prefix, attr)
		return true
	})
	fields = mergeDuplicates(fields)

	head := consoleHeader{
		time:    record.Time,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
	}
	if head.time.IsZero() {
		head.time = time.Now()
	}
	if head.message == "" {
		head.message = "(no message)"
	}
	if h.addSource {
		head.source = record.Source()
	}

	body := make([]logField, 0, len(fields))
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			if head.component == "" {
				head.component = plainValue(f.value)
			}
			continue
		case FieldTick:
			if head.tick == "" {
				head.tick = strings.TrimSpace(plainValue(f.value))
			}
		}
		body = append(body, f)
	}

	var b strings.Builder
	head.writeTo(&b)

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	if record.Level < slog.LevelInfo {
		for _, f := range body {
			b.WriteString("    ")
			b.WriteString(f.key)
			b.WriteString(": ")
			b.WriteString(quotedValue(f.value))
			b.WriteByte('\n')
		}
	} else {
		shown, hidden := selectInfoFields(body, infoAttrLimit, false)
		shown = h.sink.dropRepeats(head.component, shown, record.Level)
		writeInfoFields(&b, shown, hidden)
	}
	_, err := io.WriteString(h.sink.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.preset = make([]logField, len(h.preset), len(h.preset)+len(attrs))
	copy(clone.preset, h.preset)
	for _, attr := range attrs {
		clone.preset = appendFlat(clone.preset, h.prefix, attr)
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

type consoleHeader struct {
	time      time.Time
	level     slog.Level
	component string
	tick      string
	message   string
	source    *slog.Source
}

func (c consoleHeader) writeTo(b *strings.Builder) {
	b.WriteString(consoleTime(c.time))
	b.WriteByte(' ')
	b.WriteString(consoleLevel(c.level))
	if c.component != "" {
		b.WriteString(" [" + c.component + "]")
	}
	if c.tick != "" {
		b.WriteString(" Tick #" + c.tick)
	}
	b.WriteString(" - " + c.message)
	if c.source != nil && c.source.File != "" {
		b.WriteString(" [" + filepath.Base(c.source.File) + ":" + strconv.Itoa(c.source.Line) + "]")
	}
	b.WriteByte('\n')
}

func writeInfoFields(b *strings.Builder, shown []infoField, hidden int) {
	for _, f := range shown {
		b.WriteString("    - " + f.label + ": " + f.value + "\n")
	}
	switch {
	case hidden == 1:
		b.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		b.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
	}
}

// dropRepeats hides info fields whose value matches the last one shown for the
// same component. Warnings and errors always print in full and refresh the
// remembered values.
func (s *consoleSink) dropRepeats(component string, fields []infoField, level slog.Level) []infoField {
	if component == "" || len(fields) == 0 {
		return fields
	}
	last, ok := s.seen[component]
	if !ok {
		last = make(map[string]string)
		s.seen[component] = last
	}
	if level > slog.LevelInfo {
		for _, f := range fields {
			last[f.label] = f.value
		}
		return fields
	}
	kept := fields[:0:0]
	for _, f := range fields {
		if prev, ok := last[f.label]; ok && prev == f.value {
			continue
		}
		last[f.label] = f.value
		kept = append(kept, f)
	}
	return kept
}

// appendFlat resolves attr and appends it, expanding groups into dotted keys.
func appendFlat(dst []logField, prefix string, attr slog.Attr) []logField {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	key := joinKey(prefix, attr.Key)
	if value.Kind() == slog.KindGroup {
		for _, member := range value.Group() {
			dst = appendFlat(dst, key, member)
		}
		return dst
	}
	if key == "" {
		return dst
	}
	return append(dst, logField{key: key, value: value})
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

// mergeDuplicates keeps the first position of each key with its last value.
func mergeDuplicates(fields []logField) []logField {
	if len(fields) < 2 {
		return fields
	}
	index := make(map[string]int, len(fields))
	out := make([]logField, 0, len(fields))
	for _, f := range fields {
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}
