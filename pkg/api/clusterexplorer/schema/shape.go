// Package schema holds the version-independent representation of contract
// node shapes and the declarative tables that translate them between
// published contract versions.
package schema

// Version names a published contract revision.
type Version string

const (
	V1   Version = "v1"
	V1x1 Version = "v1.1"
)

// NodeTypeField is the tag field present in every node shape.
const NodeTypeField = "nodeType"

// Shape is the structural form of a contract node: a tag plus plain fields.
// Nested resource kinds are map[string]any with manifestKind and abbreviation.
type Shape map[string]any

// NodeType returns the tag of the shape, or "" when absent or not a string.
func (s Shape) NodeType() string {
	if s == nil {
		return ""
	}
	t, _ := s[NodeTypeField].(string)
	return t
}

// Copy returns a shallow copy.
func (s Shape) Copy() Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String returns the field as a string.
func (s Shape) String(field string) (string, bool) {
	v, ok := s[field].(string)
	return v, ok
}

// Map returns the field as a nested map, accepting both Shape and map[string]any.
func (s Shape) Map(field string) (map[string]any, bool) {
	switch v := s[field].(type) {
	case map[string]any:
		return v, true
	case Shape:
		return map[string]any(v), true
	}
	return nil, false
}

// Kind decodes a nested resource kind field.
func (s Shape) Kind(field string) (manifestKind, abbreviation string, ok bool) {
	m, ok := s.Map(field)
	if !ok {
		return "", "", false
	}
	manifestKind, ok = m["manifestKind"].(string)
	if !ok || manifestKind == "" {
		return "", "", false
	}
	abbreviation, _ = m["abbreviation"].(string)
	return manifestKind, abbreviation, true
}

// KindValue encodes a resource kind for storage in a shape.
func KindValue(manifestKind, abbreviation string) map[string]any {
	return map[string]any{"manifestKind": manifestKind, "abbreviation": abbreviation}
}

// OptionalString decodes a string field that may be absent or null.
func (s Shape) OptionalString(field string) (string, bool) {
	v, present := s[field]
	if !present || v == nil {
		return "", true
	}
	str, ok := v.(string)
	return str, ok
}
