// Package v1 is the published v1 cluster explorer contract.
//
// This package is contractual and must not change after release. New
// capabilities go into a new version package plus a schema mapping.
package v1

import (
	"context"

	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/schema"
	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

// ClusterExplorer is the v1 surface handed to extensions.
type ClusterExplorer interface {
	// ResolveCommandTarget recognizes a selection payload, or returns nil.
	ResolveCommandTarget(target any) ClusterExplorerNode
	RegisterNodeContributor(contributor NodeContributor)
	NodeSources() NodeSources
	RegisterNodeUICustomizer(customizer NodeUICustomizer)
	RegisterKind(manifestKind, abbreviation string, descriptor ResourceKindUIDescriptor) error
	Refresh()
}

// NodeContributor adds children under tree nodes. A nil parent is the top level.
type NodeContributor interface {
	ContributesChildren(parent ClusterExplorerNode) bool
	GetChildren(ctx context.Context, parent ClusterExplorerNode) ([]Node, error)
}

// NodeUICustomizer rewrites a node's presentation in place.
type NodeUICustomizer interface {
	Customize(ctx context.Context, node ClusterExplorerNode, item *treeitem.TreeItem) error
}

// ResourceKindUIDescriptor customizes how one resource kind is listed and shown.
type ResourceKindUIDescriptor struct {
	Lister    func() NodeSource
	Children  func(r ResourceSummary) []NodeSource
	Customize func(node ClusterExplorerNode, item *treeitem.TreeItem)
}

// Node is anything that can appear in the tree.
type Node interface {
	GetChildren(ctx context.Context) ([]Node, error)
	GetTreeItem() treeitem.TreeItem
}

// NodeType is the tag of a ClusterExplorerNode.
type NodeType string

const (
	NodeTypeResource        NodeType = "resource"
	NodeTypeGroupingFolder  NodeType = "folder.grouping"
	NodeTypeResourceFolder  NodeType = "folder.resource"
	NodeTypeContext         NodeType = "context"
	NodeTypeInactiveContext NodeType = "context.inactive"
	NodeTypeConfigItem      NodeType = "configitem"
	NodeTypeError           NodeType = "error"
	NodeTypeHelmRelease     NodeType = "helm.release"
	NodeTypeExtension       NodeType = "extension"
)

// ClusterExplorerNode is the closed set of v1 node shapes.
type ClusterExplorerNode interface {
	NodeType() NodeType
	clusterExplorerNode()
}

type ResourceKind struct {
	ManifestKind string
	Abbreviation string
}

type ResourceNode struct {
	// Namespace is nil for cluster scoped resources.
	Namespace    *string
	ResourceKind ResourceKind
	Name         string
	Metadata     map[string]any
}

type GroupingFolderNode struct{}

type ResourceFolderNode struct {
	ResourceKind ResourceKind
}

type ContextNode struct {
	Name string
}

// InactiveContextNode is a distinct tag rather than a flag on ContextNode:
// contributors that only match "context" never populate disconnected
// clusters by accident and must opt in explicitly.
type InactiveContextNode struct {
	Name string
}

type ConfigDataItemNode struct {
	Name string
}

type ErrorNode struct{}

type HelmReleaseNode struct {
	Name string
}

// ExtensionNode is a node owned by an extension. Payload is opaque.
type ExtensionNode struct {
	Payload any
}

func (ResourceNode) NodeType() NodeType        { return NodeTypeResource }
func (GroupingFolderNode) NodeType() NodeType  { return NodeTypeGroupingFolder }
func (ResourceFolderNode) NodeType() NodeType  { return NodeTypeResourceFolder }
func (ContextNode) NodeType() NodeType         { return NodeTypeContext }
func (InactiveContextNode) NodeType() NodeType { return NodeTypeInactiveContext }
func (ConfigDataItemNode) NodeType() NodeType  { return NodeTypeConfigItem }
func (ErrorNode) NodeType() NodeType           { return NodeTypeError }
func (HelmReleaseNode) NodeType() NodeType     { return NodeTypeHelmRelease }
func (ExtensionNode) NodeType() NodeType       { return NodeTypeExtension }

func (ResourceNode) clusterExplorerNode()        {}
func (GroupingFolderNode) clusterExplorerNode()  {}
func (ResourceFolderNode) clusterExplorerNode()  {}
func (ContextNode) clusterExplorerNode()         {}
func (InactiveContextNode) clusterExplorerNode() {}
func (ConfigDataItemNode) clusterExplorerNode()  {}
func (ErrorNode) clusterExplorerNode()           {}
func (HelmReleaseNode) clusterExplorerNode()     {}
func (ExtensionNode) clusterExplorerNode()       {}

// NodeSource is a lazy recipe for nodes.
type NodeSource interface {
	// At returns a contributor placing the nodes under the grouping folder
	// with the given display name, or under the active context when "".
	At(parentFolder string) NodeContributor
	If(condition func(ctx context.Context) (bool, error)) NodeSource
	Filter(predicate func(ClusterExplorerNode) bool) NodeSource
	Nodes(ctx context.Context) ([]Node, error)
}

// NodeSources builds the standard node sources.
type NodeSources interface {
	ResourceFolder(displayName, pluralDisplayName, manifestKind, abbreviation string) NodeSource
	GroupingFolder(displayName, contextValue string, children ...NodeSource) NodeSource
	ResourceFolderOf(displayName, pluralDisplayName, manifestKind, abbreviation string, resources func() []NodeSource) NodeSource
	ResourcesOf(manifestKind, abbreviation string, resources ResourcesSpec, children func(ResourceSummary) NodeSource) NodeSource
	ResourceOf(manifestKind, abbreviation string, resource ResourceSummary, children func() NodeSource) NodeSource
}

type ResourceSummary struct {
	Name      string
	ExtraInfo any
}

// ResourcesSpec selects the resources listed by ResourcesOf.
type ResourcesSpec interface {
	resourcesSpec()
}

// ResourcesAll lists every resource of the kind from the cluster.
type ResourcesAll struct{}

// ResourcesCallback lists the resources returned by List.
type ResourcesCallback struct {
	List func(ctx context.Context) ([]ResourceSummary, error)
}

// ResourcesList lists a fixed set of resources.
type ResourcesList struct {
	List []ResourceSummary
}

func (ResourcesAll) resourcesSpec()      {}
func (ResourcesCallback) resourcesSpec() {}
func (ResourcesList) resourcesSpec()     {}

// Version is the schema version of this package.
const Version = schema.V1
