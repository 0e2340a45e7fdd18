package nodes

import (
	"context"

	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

// GroupingFolderNode groups other folders, e.g. "Workloads".
type GroupingFolderNode struct {
	DisplayName  string
	ContextValue string
	sources      []NodeSource
}

// NewGroupingFolderNode creates a grouping folder. An empty contextValue
// selects the default.
func NewGroupingFolderNode(displayName, contextValue string, children ...NodeSource) *GroupingFolderNode {
	if contextValue == "" {
		contextValue = ContextValueGroupingFolder
	}
	return &GroupingFolderNode{DisplayName: displayName, ContextValue: contextValue, sources: children}
}

func (n *GroupingFolderNode) node()              {}
func (n *GroupingFolderNode) NodeType() NodeType { return NodeTypeGroupingFolder }

func (n *GroupingFolderNode) GetChildren(ctx context.Context) []Node {
	return childrenOf(ctx, n.sources)
}

func (n *GroupingFolderNode) GetTreeItem() treeitem.TreeItem {
	item := treeitem.New(n.DisplayName, treeitem.Collapsed)
	item.ID = "folder.grouping:" + n.DisplayName
	item.ContextValue = n.ContextValue
	item.IconPath = "images/folder.svg"
	return item
}

// ResourceFolderNode lists all resources of a kind.
type ResourceFolderNode struct {
	deps Deps
	Kind ResourceKind
	// Namespace overrides the configured namespace when set.
	Namespace string

	lister func() []NodeSource
}

// NewResourceFolderNode creates a folder listing resources of k.
func NewResourceFolderNode(deps Deps, k ResourceKind) *ResourceFolderNode {
	return &ResourceFolderNode{deps: deps, Kind: k}
}

func (n *ResourceFolderNode) node()              {}
func (n *ResourceFolderNode) NodeType() NodeType { return NodeTypeResourceFolder }

func (n *ResourceFolderNode) GetChildren(ctx context.Context) []Node {
	if n.lister != nil {
		return childrenOf(ctx, sourcesOf(n.lister))
	}
	if _, ui, ok := n.deps.Kinds.Lookup(n.Kind.ManifestKind); ok && ui.Lister != nil {
		var src NodeSource
		if err := recovered(func() error { src = ui.Lister(); return nil }); err != nil {
			n.deps.Log.Error(err, "kind lister failed", "kind", n.Kind.ManifestKind)
			return []Node{NewErrorNode("Error", err.Error())}
		}
		return childrenOf(ctx, []NodeSource{src})
	}

	ns := n.Namespace
	if ns == "" {
		ns = n.deps.namespace()
	}
	return listResources(ctx, n.deps, n.Kind, ns, nil)
}

func (n *ResourceFolderNode) GetTreeItem() treeitem.TreeItem {
	item := treeitem.New(n.Kind.Label(), treeitem.Collapsed)
	item.ID = "folder.resource:" + n.Kind.ManifestKind
	item.ContextValue = ContextValueResourceFolder
	item.IconPath = "images/folder.svg"
	return item
}
