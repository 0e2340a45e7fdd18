package v1

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/schema"
)

func TestShapeRoundTrip(t *testing.T) {
	ns := "default"
	for _, n := range []ClusterExplorerNode{
		ResourceNode{Namespace: &ns, ResourceKind: ResourceKind{ManifestKind: "Pod", Abbreviation: "pod"}, Name: "web"},
		ResourceNode{ResourceKind: ResourceKind{ManifestKind: "Node"}, Name: "n1", Metadata: map[string]any{"uid": "x"}},
		ResourceFolderNode{ResourceKind: ResourceKind{ManifestKind: "Pod", Abbreviation: "pod"}},
		GroupingFolderNode{},
		ContextNode{Name: "prod"},
		InactiveContextNode{Name: "dev"},
		ConfigDataItemNode{Name: "key"},
		ErrorNode{},
		HelmReleaseNode{Name: "release"},
		ExtensionNode{Payload: "opaque"},
	} {
		got, ok := FromShape(ToShape(n))
		if !ok {
			t.Errorf("%s: not recognized", n.NodeType())
			continue
		}
		if diff := cmp.Diff(n, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", n.NodeType(), diff)
		}
	}
}

func TestFromShapeRejects(t *testing.T) {
	for name, s := range map[string]schema.Shape{
		"no tag":           {"name": "x"},
		"unknown tag":      {"nodeType": "cluster"},
		"resource no kind": {"nodeType": "resource", "name": "x"},
		"v1.1 resource":    {"nodeType": "resource", "name": "x", "kind": schema.KindValue("Pod", "pod")},
		"bad namespace":    {"nodeType": "resource", "name": "x", "namespace": 1, "resourceKind": schema.KindValue("Pod", "pod")},
		"context no name":  {"nodeType": "context"},
	} {
		if n, ok := FromShape(s); ok {
			t.Errorf("%s: unexpectedly recognized as %#v", name, n)
		}
	}
}
