package schema

// FieldMapping relates one field of an older shape to a field of a newer one.
// Old == "" means the field only exists in the newer version; Derive then
// computes it from the older shape (or it is left unset). New == "" means the
// field was dropped by the newer version.
type FieldMapping struct {
	Old    string
	New    string
	Derive func(old Shape) (any, bool)
}

// ShapeMapping maps one node tag between two versions. NewType == "" marks a
// tag with no counterpart in the newer version.
type ShapeMapping struct {
	OldType string
	NewType string
	Fields  []FieldMapping
}

// Mapping is a declarative table between two contract versions.
type Mapping struct {
	Old    Version
	New    Version
	Shapes []ShapeMapping
}

// Identity maps a version onto itself; every shape passes unchanged.
func Identity(v Version) Mapping {
	return Mapping{Old: v, New: v}
}

func (m Mapping) isIdentity() bool { return m.Old == m.New && m.Shapes == nil }

// Forward translates an older shape into the newer version. It returns false
// when the tag is unknown or has no newer counterpart. Only fields listed in
// the table are carried; nothing from the input leaks through unmapped.
func (m Mapping) Forward(in Shape) (Shape, bool) {
	if in.NodeType() == "" {
		return nil, false
	}
	if m.isIdentity() {
		return in.Copy(), true
	}
	for _, sm := range m.Shapes {
		if sm.OldType != in.NodeType() {
			continue
		}
		if sm.NewType == "" {
			return nil, false
		}
		out := Shape{NodeTypeField: sm.NewType}
		for _, f := range sm.Fields {
			switch {
			case f.New == "":
			case f.Old == "":
				if f.Derive != nil {
					if v, ok := f.Derive(in); ok {
						out[f.New] = v
					}
				}
			default:
				if v, ok := in[f.Old]; ok {
					out[f.New] = v
				}
			}
		}
		return out, true
	}
	return nil, false
}

// Backward translates a newer shape into the older version.
func (m Mapping) Backward(in Shape) (Shape, bool) {
	if in.NodeType() == "" {
		return nil, false
	}
	if m.isIdentity() {
		return in.Copy(), true
	}
	for _, sm := range m.Shapes {
		if sm.NewType == "" || sm.NewType != in.NodeType() {
			continue
		}
		out := Shape{NodeTypeField: sm.OldType}
		for _, f := range sm.Fields {
			if f.Old == "" || f.New == "" {
				continue
			}
			if v, ok := in[f.New]; ok {
				out[f.Old] = v
			}
		}
		return out, true
	}
	return nil, false
}

// Inverse swaps the direction of the table. Derived fields cannot be
// reconstructed backwards and are dropped.
func (m Mapping) Inverse() Mapping {
	out := Mapping{Old: m.New, New: m.Old}
	if m.Shapes == nil {
		return out
	}
	for _, sm := range m.Shapes {
		if sm.NewType == "" {
			continue
		}
		inv := ShapeMapping{OldType: sm.NewType, NewType: sm.OldType}
		for _, f := range sm.Fields {
			inv.Fields = append(inv.Fields, FieldMapping{Old: f.New, New: f.Old})
		}
		out.Shapes = append(out.Shapes, inv)
	}
	return out
}

func same(fields ...string) []FieldMapping {
	out := make([]FieldMapping, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldMapping{Old: f, New: f})
	}
	return out
}

func deriveKindName(old Shape) (any, bool) {
	name, ok := old.String("name")
	if !ok {
		return nil, false
	}
	_, abbr, ok := old.Kind("resourceKind")
	if !ok || abbr == "" {
		return nil, false
	}
	return abbr + "/" + name, true
}

// NodeSchemaV1ToV1x1 is the table between contract v1 and v1.1.
//
// helm.release exists only in v1 and is deliberately unmapped: the live tree
// never produces it, so resolving a v1 helm.release payload yields no node.
var NodeSchemaV1ToV1x1 = Mapping{
	Old: V1,
	New: V1x1,
	Shapes: []ShapeMapping{
		{
			OldType: "resource",
			NewType: "resource",
			Fields: append(same("namespace", "name", "metadata"),
				FieldMapping{Old: "resourceKind", New: "kind"},
				FieldMapping{New: "kindName", Derive: deriveKindName},
			),
		},
		{
			OldType: "folder.resource",
			NewType: "folder.resource",
			Fields:  []FieldMapping{{Old: "resourceKind", New: "kind"}},
		},
		{
			OldType: "folder.grouping",
			NewType: "folder.grouping",
			Fields:  []FieldMapping{{New: "displayName"}},
		},
		{OldType: "context", NewType: "context", Fields: same("name")},
		{OldType: "context.inactive", NewType: "context.inactive", Fields: same("name")},
		{OldType: "configitem", NewType: "configitem", Fields: same("name")},
		{OldType: "error", NewType: "error", Fields: []FieldMapping{{New: "message"}}},
		{OldType: "extension", NewType: "extension", Fields: same("payload")},
		{OldType: "helm.release"},
	},
}
