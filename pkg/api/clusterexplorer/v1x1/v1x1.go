// Package v1x1 is the published v1.1 cluster explorer contract. It is the
// shape of the live tree; v1 shapes are translated through
// schema.NodeSchemaV1ToV1x1.
//
// This package is contractual and must not change after release.
package v1x1

import (
	"context"

	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/schema"
	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

// ClusterExplorer is the v1.1 surface handed to extensions.
type ClusterExplorer interface {
	ResolveCommandTarget(target any) ClusterExplorerNode
	RegisterNodeContributor(contributor NodeContributor)
	NodeSources() NodeSources
	RegisterNodeUICustomizer(customizer NodeUICustomizer)
	RegisterKind(manifestKind, abbreviation string, descriptor ResourceKindUIDescriptor) error
	Refresh()
}

type NodeContributor interface {
	ContributesChildren(parent ClusterExplorerNode) bool
	GetChildren(ctx context.Context, parent ClusterExplorerNode) ([]Node, error)
}

type NodeUICustomizer interface {
	Customize(ctx context.Context, node ClusterExplorerNode, item *treeitem.TreeItem) error
}

type ResourceKindUIDescriptor struct {
	Lister    func() NodeSource
	Children  func(r ResourceSummary) []NodeSource
	Customize func(node ClusterExplorerNode, item *treeitem.TreeItem)
}

type Node interface {
	GetChildren(ctx context.Context) ([]Node, error)
	GetTreeItem() treeitem.TreeItem
}

type NodeType string

const (
	NodeTypeResource        NodeType = "resource"
	NodeTypeGroupingFolder  NodeType = "folder.grouping"
	NodeTypeResourceFolder  NodeType = "folder.resource"
	NodeTypeContext         NodeType = "context"
	NodeTypeInactiveContext NodeType = "context.inactive"
	NodeTypeConfigItem      NodeType = "configitem"
	NodeTypeError           NodeType = "error"
	NodeTypeExtension       NodeType = "extension"
)

type ClusterExplorerNode interface {
	NodeType() NodeType
	clusterExplorerNode()
}

type ResourceKind struct {
	ManifestKind string
	Abbreviation string
}

type ResourceNode struct {
	Namespace *string
	Kind      ResourceKind
	Name      string
	// KindName is "abbreviation/name", ready for kubectl.
	KindName string
	Metadata map[string]any
}

type GroupingFolderNode struct {
	DisplayName string
}

type ResourceFolderNode struct {
	Kind ResourceKind
}

type ContextNode struct {
	Name string
}

type InactiveContextNode struct {
	Name string
}

type ConfigDataItemNode struct {
	Name string
}

type ErrorNode struct {
	Message string
}

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
func (ExtensionNode) NodeType() NodeType       { return NodeTypeExtension }

func (ResourceNode) clusterExplorerNode()        {}
func (GroupingFolderNode) clusterExplorerNode()  {}
func (ResourceFolderNode) clusterExplorerNode()  {}
func (ContextNode) clusterExplorerNode()         {}
func (InactiveContextNode) clusterExplorerNode() {}
func (ConfigDataItemNode) clusterExplorerNode()  {}
func (ErrorNode) clusterExplorerNode()           {}
func (ExtensionNode) clusterExplorerNode()       {}

type NodeSource interface {
	At(parentFolder string) NodeContributor
	If(condition func(ctx context.Context) (bool, error)) NodeSource
	Filter(predicate func(ClusterExplorerNode) bool) NodeSource
	Nodes(ctx context.Context) ([]Node, error)
}

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

type ResourcesSpec interface {
	resourcesSpec()
}

type ResourcesAll struct{}

type ResourcesCallback struct {
	List func(ctx context.Context) ([]ResourceSummary, error)
}

type ResourcesList struct {
	List []ResourceSummary
}

func (ResourcesAll) resourcesSpec()      {}
func (ResourcesCallback) resourcesSpec() {}
func (ResourcesList) resourcesSpec()     {}

const Version = schema.V1x1
