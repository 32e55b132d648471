package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Node is a decoded JSON value whose shape is not known in advance.
// The zero Node is absent.
type Node struct {
	v any
}

// Parse decodes raw JSON into a Node. Empty input yields an absent Node.
func Parse(data []byte) (Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Node{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Node{}, err
	}
	return Node{v: v}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Node {
	n, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return n
}

// Of wraps an already decoded value.
func Of(v any) Node { return Node{v: v} }

// Encode marshals v and parses it back as a Node.
func Encode(v any) (Node, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Node{}, err
	}
	return Parse(b)
}

func (n Node) Raw() any { return n.v }

// Present reports whether the value exists and is not null.
func (n Node) Present() bool { return n.v != nil }

func (n Node) MarshalJSON() ([]byte, error) { return json.Marshal(n.v) }

func (n *Node) UnmarshalJSON(b []byte) error {
	p, err := Parse(b)
	if err != nil {
		return err
	}
	*n = p
	return nil
}

// Get walks a dotted path through nested objects.
func (n Node) Get(path string) Node {
	cur := n.v
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return Node{}
		}
		cur = obj[key]
	}
	return Node{v: cur}
}

// First returns the value at the first present path.
func (n Node) First(paths ...string) (Node, bool) {
	for _, p := range paths {
		if v := n.Get(p); v.Present() {
			return v, true
		}
	}
	return Node{}, false
}

func (n Node) IsObject() bool {
	_, ok := n.v.(map[string]any)
	return ok
}

// Items returns the elements of an array value.
func (n Node) Items() ([]Node, bool) {
	arr, ok := n.v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]Node, len(arr))
	for i, v := range arr {
		out[i] = Node{v: v}
	}
	return out, true
}

// Fields returns the members of an object value.
func (n Node) Fields() map[string]Node {
	obj, ok := n.v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]Node, len(obj))
	for k, v := range obj {
		out[k] = Node{v: v}
	}
	return out
}

// Text renders scalars as strings. Numeric ids become their decimal form.
// The empty string counts as absent.
func (n Node) Text() (string, bool) {
	var s string
	switch v := n.v.(type) {
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	}
	return s, s != ""
}

// Number reads a numeric value. Numeric strings are accepted.
func (n Node) Number() (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := n.v.(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsBool reports whether the value is a JSON boolean.
func (n Node) IsBool() bool {
	_, ok := n.v.(bool)
	return ok
}

// Truthy coerces any value to a boolean. Strings that parse as booleans
// ("false", "0") use the parsed value; other non-empty strings are true.
func (n Node) Truthy() bool {
	switch v := n.v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		return v != ""
	case json.Number, float64:
		f, _ := n.Number()
		return f != 0
	default:
		return true
	}
}
