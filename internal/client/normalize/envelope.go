package normalize

// Payload unwraps the standard {success, message, data} envelope. The entity
// may sit in data.data, in data, or be the root itself.
func Payload(env Node) Node {
	if inner := env.Get("data.data"); inner.Present() {
		return inner
	}
	if data := env.Get("data"); data.Present() {
		return data
	}
	return env
}

// List unwraps a list-shaped response. The root value wins when it is already
// an array; then data, data.data, and each type-specific key under data and
// at the root. A response with no array anywhere is an empty list.
func List(env Node, keys ...string) []Node {
	candidates := []string{"data", "data.data"}
	for _, k := range keys {
		candidates = append(candidates, "data."+k, k)
	}
	if items, ok := env.Items(); ok {
		return items
	}
	for _, p := range candidates {
		if items, ok := env.Get(p).Items(); ok {
			return items
		}
	}
	return nil
}

var messageKeys = Keys{"message", "data.message", "error", "error.message"}

// Message returns the server-supplied human message, if any.
func Message(env Node) string {
	for _, p := range messageKeys {
		if s, ok := env.Get(p).Raw().(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Succeeded reads the envelope's success flag. An envelope without one is
// treated as successful.
func Succeeded(env Node) bool {
	v := env.Get("success")
	if !v.Present() {
		return true
	}
	return v.Truthy()
}
