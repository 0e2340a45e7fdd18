package nodes

import (
	"context"

	"github.com/sttts/kexplorer/pkg/api/treeitem"
	"github.com/sttts/kexplorer/pkg/kubeconfig"
)

// ContextNode is the active kubeconfig context.
type ContextNode struct {
	deps    Deps
	Name    string
	Context kubeconfig.Context
}

// NewContextNode creates the node of the active context.
func NewContextNode(deps Deps, c kubeconfig.Context) *ContextNode {
	return &ContextNode{deps: deps, Name: c.Name, Context: c}
}

func (n *ContextNode) node()              {}
func (n *ContextNode) NodeType() NodeType { return NodeTypeContext }

// Minikube reports whether the context points at a minikube cluster.
func (n *ContextNode) Minikube() bool {
	return n.Name == "minikube" || n.Context.Cluster == "minikube"
}

func (n *ContextNode) GetChildren(ctx context.Context) []Node {
	return childrenOf(ctx, contextFolders(NewSources(n.deps), n.Minikube()))
}

func (n *ContextNode) GetTreeItem() treeitem.TreeItem {
	item := treeitem.New(n.Name, treeitem.Collapsed)
	item.ID = "context:" + n.Name
	item.ContextValue = ContextValueContext
	if n.Minikube() {
		item.ContextValue = ContextValueMinikube
	}
	item.IconPath = "images/k8s-logo.png"
	item.Tooltip = n.Context.Cluster
	return item
}

type folderSpec struct {
	kind      ResourceKind
	namespace string
}

type groupSpec struct {
	displayName  string
	contextValue string
	folders      []folderSpec
}

// contextTopLevel are the folders shown directly under a context.
var contextTopLevel = []folderSpec{{kind: KindNamespace}, {kind: KindNode}}

var contextGroups = []groupSpec{
	{"Workloads", "", []folderSpec{{kind: KindDeployment}, {kind: KindStatefulSet}, {kind: KindDaemonSet}, {kind: KindReplicaSet}, {kind: KindJob}, {kind: KindCronJob}, {kind: KindPod}}},
	{"Network", "", []folderSpec{{kind: KindService}, {kind: KindEndpoints}, {kind: KindIngress}}},
	{"Storage", "", []folderSpec{{kind: KindPV}, {kind: KindPVC}, {kind: KindStorage}}},
	{"Configuration", "", []folderSpec{{kind: KindConfigMap}, {kind: KindSecret}}},
}

var minikubeGroup = groupSpec{"Minikube", "vsKubernetes.minikube", []folderSpec{
	{kind: KindEndpoints, namespace: "kube-system"},
	{kind: KindPod, namespace: "kube-system"},
}}

func contextFolders(s Sources, minikube bool) []NodeSource {
	out := make([]NodeSource, 0, len(contextTopLevel)+len(contextGroups)+2)
	for _, f := range contextTopLevel {
		out = append(out, s.folder(f))
	}
	groups := contextGroups
	if minikube {
		groups = append(groups[:len(groups):len(groups)], minikubeGroup)
	}
	for _, g := range groups {
		children := make([]NodeSource, 0, len(g.folders))
		for _, f := range g.folders {
			children = append(children, s.folder(f))
		}
		out = append(out, s.GroupingFolder(g.displayName, g.contextValue, children...))
	}
	return append(out, s.folder(folderSpec{kind: KindCRD}))
}

func (s Sources) folder(f folderSpec) NodeSource {
	n := NewResourceFolderNode(s.deps, f.kind)
	n.Namespace = f.namespace
	return Static(n)
}

// InactiveContextNode is a kubeconfig context that is not current. It has no
// built-in children.
type InactiveContextNode struct {
	Name    string
	Context kubeconfig.Context
}

func (n *InactiveContextNode) node()                           {}
func (n *InactiveContextNode) NodeType() NodeType              { return NodeTypeInactiveContext }
func (n *InactiveContextNode) GetChildren(context.Context) []Node { return nil }

func (n *InactiveContextNode) GetTreeItem() treeitem.TreeItem {
	item := treeitem.New(n.Name, treeitem.None)
	item.ID = "context.inactive:" + n.Name
	item.ContextValue = ContextValueInactiveContext
	item.IconPath = "images/k8s-logo-inactive.png"
	item.Tooltip = n.Context.Cluster
	item.Command = &treeitem.Command{Command: CommandUseContext, Title: "Use context", Arguments: []any{n.Name}}
	return item
}

// ContextNodes turns kubeconfig contexts into top-level nodes.
func ContextNodes(deps Deps, contexts []kubeconfig.Context) []Node {
	out := make([]Node, 0, len(contexts))
	for _, c := range contexts {
		if c.Active {
			out = append(out, NewContextNode(deps, c))
			continue
		}
		out = append(out, &InactiveContextNode{Name: c.Name, Context: c})
	}
	return out
}
