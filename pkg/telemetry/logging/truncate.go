package logging

import (
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// truncationMarker is appended to every shortened value.
const truncationMarker = "...(truncated)"

// Truncator shortens string log values that exceed a byte limit. Query
// expressions can be arbitrarily long (a constraint list has no upper bound),
// so values are capped before they reach the handler.
type Truncator struct {
	max int
}

// NewTruncator creates a truncator with the given byte limit.
func NewTruncator(max int) *Truncator {
	return &Truncator{max: max}
}

// Truncate returns s unchanged if it fits, otherwise a prefix cut on a rune
// boundary followed by a marker that records the original length.
func (t *Truncator) Truncate(s string) string {
	if t == nil || t.max <= 0 || len(s) <= t.max {
		return s
	}
	cut := t.max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s%s[%d bytes]", s[:cut], truncationMarker, len(s))
}

// TruncateArgs applies Truncate to the values of key-value pairs and to
// string-valued slog.Attr arguments. Keys are never modified.
func (t *Truncator) TruncateArgs(args ...any) []any {
	if t == nil || t.max <= 0 || len(args) == 0 {
		return args
	}

	out := make([]any, len(args))
	copy(out, args)

	for i := 0; i < len(out); i++ {
		switch v := out[i].(type) {
		case slog.Attr:
			out[i] = t.truncateAttr(v)
		case string:
			// A bare string is a key; the value follows it
			if i+1 < len(out) {
				out[i+1] = t.truncateValue(out[i+1])
				i++
			}
		}
	}
	return out
}

func (t *Truncator) truncateValue(v any) any {
	switch val := v.(type) {
	case string:
		return t.Truncate(val)
	case error:
		if msg := val.Error(); len(msg) > t.max {
			return t.Truncate(msg)
		}
		return val
	case slog.Attr:
		return t.truncateAttr(val)
	default:
		return v
	}
}

func (t *Truncator) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, t.Truncate(a.Value.String()))
	}
	return a
}
