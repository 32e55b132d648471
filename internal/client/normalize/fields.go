package normalize

import (
	"math"
	"strings"
	"time"
)

// Keys is an ordered synonym list for one canonical field.
type Keys []string

// In returns the first present value.
func (k Keys) In(n Node) (Node, bool) { return n.First(k...) }

// Text returns the first present non-empty string.
func (k Keys) Text(n Node) (string, bool) {
	for _, p := range k {
		if s, ok := n.Get(p).Text(); ok {
			return s, true
		}
	}
	return "", false
}

// TextOr is Text with a default.
func (k Keys) TextOr(n Node, def string) string {
	if s, ok := k.Text(n); ok {
		return s
	}
	return def
}

// Flag returns the truthiness of the first present value.
func (k Keys) Flag(n Node) (bool, bool) {
	v, ok := k.In(n)
	if !ok {
		return false, false
	}
	return v.Truthy(), true
}

// Number returns the first present value that reads as a number.
func (k Keys) Number(n Node) (float64, bool) {
	for _, p := range k {
		if f, ok := n.Get(p).Number(); ok {
			return f, true
		}
	}
	return 0, false
}

// Time returns the first present value that reads as a timestamp.
func (k Keys) Time(n Node) (time.Time, bool) {
	for _, p := range k {
		if t, ok := asTime(n.Get(p)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FlagOrStatus resolves a boolean-shaped field. The first present candidate
// decides when it is a real boolean. Otherwise a status string is compared
// case-insensitively against literal; failing that, the candidate's
// truthiness is used.
func FlagOrStatus(n Node, candidates Keys, literal string) bool {
	v, found := candidates.In(n)
	if found && v.IsBool() {
		return v.Truthy()
	}
	if status, ok := statusKeys.Text(n); ok {
		return strings.EqualFold(status, literal)
	}
	return found && v.Truthy()
}

var statusKeys = Keys{"status", "data.status"}

func asTime(n Node) (time.Time, bool) {
	if s, ok := n.Raw().(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}
	if ms, ok := n.Number(); ok && ms > 0 {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// roundHalfUp rounds the way the web client always did (ties toward +inf).
func roundHalfUp(f float64) int64 {
	return int64(math.Floor(f + 0.5))
}
