package nodes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/sttts/kexplorer/pkg/api/treeitem"
	"github.com/sttts/kexplorer/pkg/kubectl"
)

// ResourceNode is one cluster object.
type ResourceNode struct {
	deps Deps

	Kind      ResourceKind
	Namespace string
	Name      string
	UID       string
	// Metadata is the object's metadata as listed, if known.
	Metadata  map[string]any
	ExtraInfo any

	// children replaces the built-in children when set.
	children func() NodeSource
}

// NewResourceNode creates a resource node.
func NewResourceNode(deps Deps, k ResourceKind, namespace, name string, metadata map[string]any) *ResourceNode {
	return &ResourceNode{deps: deps, Kind: k, Namespace: namespace, Name: name, Metadata: metadata}
}

func (n *ResourceNode) node()              {}
func (n *ResourceNode) NodeType() NodeType { return NodeTypeResource }

// KindName is the kubectl "abbreviation/name" form, e.g. "deploy/nginx".
func (n *ResourceNode) KindName() string {
	return n.Kind.Command() + "/" + n.Name
}

// selectorKinds have pods as children, selected by the object's selector.
var selectorKinds = map[string]bool{
	"Deployment":  true,
	"StatefulSet": true,
	"DaemonSet":   true,
	"ReplicaSet":  true,
	"Job":         true,
	"Service":     true,
}

func (n *ResourceNode) hasChildren() bool {
	if n.children != nil {
		return true
	}
	switch n.Kind.ManifestKind {
	case "ConfigMap", "Secret":
		return true
	}
	if selectorKinds[n.Kind.ManifestKind] {
		return true
	}
	_, ui, ok := n.deps.Kinds.Lookup(n.Kind.ManifestKind)
	return ok && ui.Children != nil
}

func (n *ResourceNode) GetChildren(ctx context.Context) []Node {
	if n.children != nil {
		return childrenOf(ctx, sourcesOf(func() []NodeSource { return []NodeSource{n.children()} }))
	}

	var out []Node
	switch {
	case n.Kind.ManifestKind == "ConfigMap" || n.Kind.ManifestKind == "Secret":
		out = n.dataItems(ctx)
	case selectorKinds[n.Kind.ManifestKind]:
		out = n.selectedPods(ctx)
	}

	if _, ui, ok := n.deps.Kinds.Lookup(n.Kind.ManifestKind); ok && ui.Children != nil {
		var sources []NodeSource
		if err := recovered(func() error {
			sources = ui.Children(ResourceSummary{Name: n.Name, ExtraInfo: n.ExtraInfo})
			return nil
		}); err != nil {
			n.deps.Log.Error(err, "kind children failed", "kind", n.Kind.ManifestKind, "name", n.Name)
			return append(out, NewErrorNode("Error", err.Error()))
		}
		out = append(out, childrenOf(ctx, sources)...)
	}
	return out
}

func (n *ResourceNode) get(ctx context.Context) (*unstructured.Unstructured, error) {
	obj, err := kubectl.ReadJSON[map[string]any](ctx, n.deps.Kubectl, getCommand(n.Kind.Command()+" "+n.Name, n.Namespace))
	if err != nil {
		return nil, err
	}
	return &unstructured.Unstructured{Object: obj}, nil
}

func (n *ResourceNode) dataItems(ctx context.Context) []Node {
	obj, err := n.get(ctx)
	if err != nil {
		return []Node{commandError(err)}
	}

	var keys []string
	switch n.Kind.ManifestKind {
	case "ConfigMap":
		var cm corev1.ConfigMap
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(obj.Object, &cm); err != nil {
			return []Node{commandError(fmt.Errorf("%w: %w", kubectl.ErrParse, err))}
		}
		for k := range cm.Data {
			keys = append(keys, k)
		}
		for k := range cm.BinaryData {
			keys = append(keys, k)
		}
	case "Secret":
		var sec corev1.Secret
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(obj.Object, &sec); err != nil {
			return []Node{commandError(fmt.Errorf("%w: %w", kubectl.ErrParse, err))}
		}
		for k := range sec.Data {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]Node, 0, len(keys))
	for _, k := range keys {
		out = append(out, &ConfigItemNode{Name: k, ParentKind: n.Kind, ParentNamespace: n.Namespace, ParentName: n.Name})
	}
	return out
}

func (n *ResourceNode) selectedPods(ctx context.Context) []Node {
	obj, err := n.get(ctx)
	if err != nil {
		return []Node{commandError(err)}
	}

	field := []string{"spec", "selector", "matchLabels"}
	if n.Kind.ManifestKind == "Service" {
		field = []string{"spec", "selector"}
	}
	sel, found, err := unstructured.NestedStringMap(obj.Object, field...)
	if err != nil {
		return []Node{commandError(fmt.Errorf("%w: selector: %w", kubectl.ErrParse, err))}
	}
	if !found || len(sel) == 0 {
		return nil
	}

	ns := n.Namespace
	if ns == "" {
		ns = obj.GetNamespace()
	}
	return listResources(ctx, n.deps, KindPod, ns, nil, "-l "+labels.SelectorFromSet(sel).String())
}

func (n *ResourceNode) GetTreeItem() treeitem.TreeItem {
	state := treeitem.None
	if n.hasChildren() {
		state = treeitem.Collapsed
	}
	item := treeitem.New(n.Name, state)
	item.ID = "resource:" + n.KindName()
	if n.Namespace != "" {
		item.ID += "@" + n.Namespace
	}
	item.ContextValue = ContextValueResourcePrefix + "." + strings.ToLower(n.Kind.Command())
	item.IconPath = "images/" + strings.ToLower(n.Kind.ManifestKind) + ".svg"
	item.Tooltip = n.KindName()
	item.Command = &treeitem.Command{
		Command:   CommandLoadResource,
		Title:     "Load",
		Arguments: []any{n.KindName(), n.Namespace},
	}

	if _, ui, ok := n.deps.Kinds.Lookup(n.Kind.ManifestKind); ok && ui.Customize != nil {
		if err := recovered(func() error { ui.Customize(n, &item); return nil }); err != nil {
			n.deps.Log.Error(err, "kind customizer failed", "kind", n.Kind.ManifestKind)
		}
	}
	return item
}

// resourceList is what `kubectl get <kind> -o json` prints.
type resourceList struct {
	Items []map[string]any `json:"items"`
}

func getCommand(what, namespace string, extra ...string) string {
	parts := []string{"get", what}
	if namespace != "" {
		parts = append(parts, "--namespace", namespace)
	}
	parts = append(parts, extra...)
	return strings.Join(append(parts, "-o", "json"), " ")
}

// listResources lists the kind through kubectl. A failure yields one error node.
func listResources(ctx context.Context, deps Deps, k ResourceKind, namespace string, children func(ResourceSummary) NodeSource, extra ...string) []Node {
	list, err := kubectl.ReadJSON[resourceList](ctx, deps.Kubectl, getCommand(k.Command(), namespace, extra...))
	if err != nil {
		deps.Log.V(1).Info("listing resources failed", "kind", k.ManifestKind, "err", err)
		return []Node{commandError(err)}
	}

	out := make([]Node, 0, len(list.Items))
	for _, item := range list.Items {
		u := unstructured.Unstructured{Object: item}
		md, _, _ := unstructured.NestedMap(item, "metadata")
		n := NewResourceNode(deps, k, u.GetNamespace(), u.GetName(), md)
		n.UID = string(u.GetUID())
		if children != nil {
			r := ResourceSummary{Name: n.Name}
			n.children = func() NodeSource { return children(r) }
		}
		out = append(out, n)
	}
	return out
}

func commandError(err error) *ErrorNode {
	return NewErrorNode("Error", err.Error())
}
