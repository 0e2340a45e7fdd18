package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestForwardResource(t *testing.T) {
	in := Shape{
		"nodeType":     "resource",
		"namespace":    "default",
		"resourceKind": KindValue("Pod", "pod"),
		"name":         "web",
		"metadata":     map[string]any{"uid": "1"},
		"unknown":      "dropped",
	}
	got, ok := NodeSchemaV1ToV1x1.Forward(in)
	if !ok {
		t.Fatal("expected resource to map")
	}
	want := Shape{
		"nodeType":  "resource",
		"namespace": "default",
		"kind":      KindValue("Pod", "pod"),
		"name":      "web",
		"kindName":  "pod/web",
		"metadata":  map[string]any{"uid": "1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected shape (-want +got):\n%s", diff)
	}

	back, ok := NodeSchemaV1ToV1x1.Backward(got)
	if !ok {
		t.Fatal("expected resource to map back")
	}
	delete(in, "unknown")
	if diff := cmp.Diff(in, back); diff != "" {
		t.Fatalf("unexpected round trip (-want +got):\n%s", diff)
	}
}

func TestForwardEdgeCases(t *testing.T) {
	m := NodeSchemaV1ToV1x1
	for _, tc := range []struct {
		name string
		in   Shape
		want Shape
		ok   bool
	}{
		{"grouping gains nothing", Shape{"nodeType": "folder.grouping"}, Shape{"nodeType": "folder.grouping"}, true},
		{"error gains nothing", Shape{"nodeType": "error"}, Shape{"nodeType": "error"}, true},
		{"extension payload", Shape{"nodeType": "extension", "payload": 42}, Shape{"nodeType": "extension", "payload": 42}, true},
		{"kind name needs abbreviation", Shape{"nodeType": "resource", "name": "x", "resourceKind": KindValue("Widget", "")},
			Shape{"nodeType": "resource", "name": "x", "kind": KindValue("Widget", "")}, true},
		{"helm release unmapped", Shape{"nodeType": "helm.release", "name": "r"}, nil, false},
		{"unknown tag", Shape{"nodeType": "cluster"}, nil, false},
		{"no tag", Shape{"name": "x"}, nil, false},
		{"nil", nil, nil, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Forward(tc.in)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected shape (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBackwardDropsNewFields(t *testing.T) {
	got, ok := NodeSchemaV1ToV1x1.Backward(Shape{"nodeType": "error", "message": "boom"})
	if !ok {
		t.Fatal("expected error to map back")
	}
	if diff := cmp.Diff(Shape{"nodeType": "error"}, got); diff != "" {
		t.Fatalf("unexpected shape (-want +got):\n%s", diff)
	}
	if _, ok := NodeSchemaV1ToV1x1.Backward(Shape{"nodeType": "helm.release"}); ok {
		t.Fatal("v1.1 has no helm.release")
	}
}

func TestInverse(t *testing.T) {
	inv := NodeSchemaV1ToV1x1.Inverse()
	if inv.Old != V1x1 || inv.New != V1 {
		t.Fatalf("unexpected versions %s -> %s", inv.Old, inv.New)
	}
	got, ok := inv.Forward(Shape{"nodeType": "folder.resource", "kind": KindValue("Pod", "pod")})
	if !ok {
		t.Fatal("expected folder to map")
	}
	if diff := cmp.Diff(Shape{"nodeType": "folder.resource", "resourceKind": KindValue("Pod", "pod")}, got); diff != "" {
		t.Fatalf("unexpected shape (-want +got):\n%s", diff)
	}
	if _, ok := inv.Forward(Shape{"nodeType": "helm.release"}); ok {
		t.Fatal("inverse must not know helm.release")
	}
}

func TestIdentity(t *testing.T) {
	in := Shape{"nodeType": "anything", "x": 1}
	got, ok := Identity(V1x1).Forward(in)
	if !ok {
		t.Fatal("identity must map every tagged shape")
	}
	got["x"] = 2
	if in["x"] != 1 {
		t.Fatal("identity must copy")
	}
}
