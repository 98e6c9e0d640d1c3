package model

// Attrs is a node's free-form attribute bag: string keys mapped to
// JSON-compatible values. Unknown keys from upstream documents are
// carried opaquely and re-emitted on serialization.
type Attrs map[string]any

// String returns the value for key as a string, or "" when absent or
// not a string.
func (a Attrs) String(key string) string {
	if a == nil {
		return ""
	}
	if s, ok := a[key].(string); ok {
		return s
	}
	return ""
}

// Float returns the value for key as a float64. JSON numbers decode as
// float64; integer values stored programmatically are converted.
func (a Attrs) Float(key string) float64 {
	if a == nil {
		return 0
	}
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns the value for key as a bool, or false when absent
func (a Attrs) Bool(key string) bool {
	if a == nil {
		return false
	}
	if b, ok := a[key].(bool); ok {
		return b
	}
	return false
}

// Clone returns a shallow copy of the bag. Values are shared; the bag
// itself is safe to add or remove keys on.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// attrsFrom converts a decoded JSON object into an Attrs bag, excluding
// the named keys. Returns nil if v is not a mapping.
func attrsFrom(v any, exclude ...string) Attrs {
	var src map[string]any
	switch m := v.(type) {
	case map[string]any:
		src = m
	case Attrs:
		src = m
	default:
		return nil
	}
	out := make(Attrs, len(src))
	for k, val := range src {
		out[k] = val
	}
	for _, k := range exclude {
		delete(out, k)
	}
	return out
}
