package clusterexplorer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sttts/kexplorer/internal/explorer"
	"github.com/sttts/kexplorer/internal/explorer/nodes"
	"github.com/sttts/kexplorer/internal/testlog"
	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/schema"
	v1 "github.com/sttts/kexplorer/pkg/api/clusterexplorer/v1"
	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/v1x1"
	"github.com/sttts/kexplorer/pkg/api/treeitem"
	"github.com/sttts/kexplorer/pkg/kubeconfig"
	"github.com/sttts/kexplorer/pkg/kubectl/fake"
)

type contexts []kubeconfig.Context

func (c contexts) ListContexts(context.Context) ([]kubeconfig.Context, error) { return c, nil }

func newExplorer(t *testing.T) *explorer.Explorer {
	return explorer.New(explorer.Options{
		Kubectl:  fake.New(),
		Contexts: contexts{{Name: "dev"}, {Name: "prod", Active: true}},
		Log:      testlog.Logger(t),
	})
}

type extNode struct {
	label    string
	children []v1.Node
}

func (n *extNode) GetChildren(context.Context) ([]v1.Node, error) { return n.children, nil }
func (n *extNode) GetTreeItem() treeitem.TreeItem                  { return treeitem.New(n.label, treeitem.None) }

type v1ContributorFunc struct {
	claims   func(v1.ClusterExplorerNode) bool
	children func(parent v1.ClusterExplorerNode) []v1.Node
}

func (c v1ContributorFunc) ContributesChildren(p v1.ClusterExplorerNode) bool { return c.claims(p) }
func (c v1ContributorFunc) GetChildren(_ context.Context, p v1.ClusterExplorerNode) ([]v1.Node, error) {
	return c.children(p), nil
}

func labelsOf(ns []nodes.Node) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.GetTreeItem().Label)
	}
	return out
}

func ptr(s string) *string { return &s }

func TestGet(t *testing.T) {
	e := newExplorer(t)
	api, err := Get(e, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := api.(v1.ClusterExplorer); !ok {
		t.Fatalf("expected v1.ClusterExplorer, got %T", api)
	}
	api, err = Get(e, "v1.1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := api.(v1x1.ClusterExplorer); !ok {
		t.Fatalf("expected v1x1.ClusterExplorer, got %T", api)
	}
	if _, err := Get(e, "v2"); !errors.Is(err, ErrVersionUnavailable) {
		t.Fatalf("expected ErrVersionUnavailable, got %v", err)
	}
	for _, v := range Versions {
		if _, err := Get(e, v); err != nil {
			t.Errorf("Get(%q): %v", v, err)
		}
	}
}

func TestResolveCommandTargetV1RoundTrip(t *testing.T) {
	x := V1(newExplorer(t))
	for _, n := range []v1.ClusterExplorerNode{
		v1.ResourceNode{Namespace: ptr("default"), ResourceKind: v1.ResourceKind{ManifestKind: "Pod", Abbreviation: "pod"}, Name: "web"},
		v1.ResourceNode{ResourceKind: v1.ResourceKind{ManifestKind: "Node", Abbreviation: "no"}, Name: "n1", Metadata: map[string]any{"uid": "1"}},
		v1.ResourceFolderNode{ResourceKind: v1.ResourceKind{ManifestKind: "Pod", Abbreviation: "pod"}},
		v1.ContextNode{Name: "prod"},
		v1.InactiveContextNode{Name: "dev"},
		v1.ConfigDataItemNode{Name: "a.yaml"},
		v1.GroupingFolderNode{},
		v1.ErrorNode{},
	} {
		if diff := cmp.Diff(n, x.ResolveCommandTarget(n)); diff != "" {
			t.Errorf("round trip of %s (-want +got):\n%s", n.NodeType(), diff)
		}
	}
}

func TestResolveCommandTargetShapes(t *testing.T) {
	x := V1x1(newExplorer(t))
	podKind := v1x1.ResourceKind{ManifestKind: "Pod", Abbreviation: "pod"}

	for _, tc := range []struct {
		name   string
		target any
		want   v1x1.ClusterExplorerNode
	}{
		{"v1 map", map[string]any{
			"nodeType":     "resource",
			"namespace":    "default",
			"resourceKind": map[string]any{"manifestKind": "Pod", "abbreviation": "pod"},
			"name":         "web",
		}, v1x1.ResourceNode{Namespace: ptr("default"), Kind: podKind, Name: "web", KindName: "pod/web"}},
		{"v1.1 wins over v1", schema.Shape{
			"nodeType":     "resource",
			"namespace":    nil,
			"kind":         map[string]any{"manifestKind": "Pod", "abbreviation": "pod"},
			"resourceKind": map[string]any{"manifestKind": "Secret", "abbreviation": "secrets"},
			"name":         "web",
		}, v1x1.ResourceNode{Kind: podKind, Name: "web", KindName: "pod/web"}},
		{"yaml", "nodeType: context\nname: prod\n", v1x1.ContextNode{Name: "prod"}},
		{"json", []byte(`{"nodeType":"folder.grouping","displayName":"Workloads"}`), v1x1.GroupingFolderNode{DisplayName: "Workloads"}},
		{"v1 struct", v1.ErrorNode{}, v1x1.ErrorNode{}},
		{"v1 helm release is unmapped", v1.HelmReleaseNode{Name: "r"}, nil},
		{"foreign string", "hello", nil},
		{"foreign number", 42, nil},
		{"foreign struct", struct{ Name string }{"x"}, nil},
		{"unknown tag", map[string]any{"nodeType": "cluster", "name": "x"}, nil},
		{"no tag", map[string]any{"name": "x"}, nil},
		{"broken resource", map[string]any{"nodeType": "resource", "name": 3}, nil},
		{"broken yaml", []byte("nodeType: [oops"), nil},
		{"nil", nil, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := x.ResolveCommandTarget(tc.target)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected node (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveCommandTargetLiveNodes(t *testing.T) {
	e := newExplorer(t)
	live := nodes.NewResourceNode(e.Sources().Deps(), nodes.KindDeployment, "default", "web", nil)

	got := V1(e).ResolveCommandTarget(live)
	want := v1.ResourceNode{Namespace: ptr("default"), ResourceKind: v1.ResourceKind{ManifestKind: "Deployment", Abbreviation: "deployment"}, Name: "web"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("v1 (-want +got):\n%s", diff)
	}

	got1 := V1x1(e).ResolveCommandTarget(v1x1Node{live: live})
	if r, ok := got1.(v1x1.ResourceNode); !ok || r.KindName != "deployment/web" {
		t.Fatalf("v1.1: unexpected node %#v", got1)
	}
}

func TestV1ContributorSeesV1Shapes(t *testing.T) {
	e := newExplorer(t)
	x := V1(e)

	var seen []v1.ClusterExplorerNode
	mine := &extNode{label: "mine", children: []v1.Node{&extNode{label: "leaf"}}}
	x.RegisterNodeContributor(v1ContributorFunc{
		claims: func(p v1.ClusterExplorerNode) bool {
			_, ok := p.(v1.ContextNode)
			return ok
		},
		children: func(p v1.ClusterExplorerNode) []v1.Node {
			seen = append(seen, p)
			return []v1.Node{mine}
		},
	})

	top := e.GetChildren(context.Background(), nil)
	if len(top) != 2 {
		t.Fatalf("contributor must not claim the top level, got %v", labelsOf(top))
	}
	children := e.GetChildren(context.Background(), top[1])
	if diff := cmp.Diff([]v1.ClusterExplorerNode{v1.ContextNode{Name: "prod"}}, seen); diff != "" {
		t.Fatalf("unexpected parents (-want +got):\n%s", diff)
	}
	if len(e.GetChildren(context.Background(), top[0])) != 0 {
		t.Fatal("inactive context must not match a context contributor")
	}

	ext, ok := children[len(children)-1].(*nodes.ExtensionNode)
	if !ok {
		t.Fatalf("expected extension node, got %T", children[len(children)-1])
	}
	if diff := cmp.Diff([]string{"leaf"}, labelsOf(ext.GetChildren(context.Background()))); diff != "" {
		t.Fatalf("unexpected extension children (-want +got):\n%s", diff)
	}
	resolved, ok := x.ResolveCommandTarget(ext).(v1.ExtensionNode)
	if !ok || resolved.Payload != mine {
		t.Fatalf("expected payload to be handed back, got %#v", resolved)
	}
}

func TestNodeSourcesAt(t *testing.T) {
	e := newExplorer(t)
	x := V1x1(e)
	ns := x.NodeSources()

	x.RegisterNodeContributor(ns.GroupingFolder("Extras", "", ns.ResourcesOf("Widget", "wd", v1x1.ResourcesList{List: []v1x1.ResourceSummary{{Name: "w1"}}}, nil)).At(""))
	x.RegisterNodeContributor(ns.ResourceFolder("Widget", "Widgets", "Widget", "wd").At("Workloads"))

	ctx := context.Background()
	active := e.GetChildren(ctx, nil)[1]
	folders := e.GetChildren(ctx, active)
	labels := labelsOf(folders)
	if labels[len(labels)-1] != "Extras" {
		t.Fatalf("expected Extras under the active context, got %v", labels)
	}
	if diff := cmp.Diff([]string{"w1"}, labelsOf(e.GetChildren(ctx, folders[len(folders)-1]))); diff != "" {
		t.Fatalf("extras children (-want +got):\n%s", diff)
	}

	var workloads nodes.Node
	for _, f := range folders {
		if g, ok := f.(*nodes.GroupingFolderNode); ok && g.DisplayName == "Workloads" {
			workloads = f
		}
	}
	if workloads == nil {
		t.Fatal("no Workloads folder")
	}
	got := labelsOf(e.GetChildren(ctx, workloads))
	if got[len(got)-1] != "Widgets" {
		t.Fatalf("expected Widgets in Workloads, got %v", got)
	}
}

type v1CustomizerFunc func(n v1.ClusterExplorerNode, item *treeitem.TreeItem)

func (f v1CustomizerFunc) Customize(_ context.Context, n v1.ClusterExplorerNode, item *treeitem.TreeItem) error {
	f(n, item)
	return nil
}

func TestCustomizerAndKinds(t *testing.T) {
	e := newExplorer(t)
	x := V1(e)
	x.RegisterNodeUICustomizer(v1CustomizerFunc(func(n v1.ClusterExplorerNode, item *treeitem.TreeItem) {
		if r, ok := n.(v1.ResourceNode); ok {
			item.Description = r.ResourceKind.ManifestKind
		}
	}))
	if err := x.RegisterKind("Pod", "pod", v1.ResourceKindUIDescriptor{
		Customize: func(_ v1.ClusterExplorerNode, item *treeitem.TreeItem) { item.Tooltip = "a pod" },
	}); err != nil {
		t.Fatal(err)
	}
	if err := V1x1(e).RegisterKind("Pod", "pod", v1x1.ResourceKindUIDescriptor{}); !errors.Is(err, nodes.ErrKindRegistered) {
		t.Fatalf("expected ErrKindRegistered, got %v", err)
	}

	pod := nodes.NewResourceNode(e.Sources().Deps(), nodes.KindPod, "default", "web-1", nil)
	item := e.GetTreeItem(context.Background(), pod)
	if item.Description != "Pod" || item.Tooltip != "a pod" {
		t.Fatalf("unexpected item %+v", item)
	}
}
