// Package nodes is the explorer's node model: every kind of tree entry, the
// lazy NodeSource recipes that produce them, and the resource kind registry.
package nodes

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/sttts/kexplorer/pkg/api/treeitem"
	"github.com/sttts/kexplorer/pkg/kubectl"
)

// NodeType is the immutable tag of a node.
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

// Node is a closed union: the implementations in this package are the only
// ones. Consumers switch over the concrete types.
type Node interface {
	NodeType() NodeType
	// GetChildren never fails; problems are reported as a single *ErrorNode.
	GetChildren(ctx context.Context) []Node
	GetTreeItem() treeitem.TreeItem
	node()
}

var (
	_ Node = &ResourceNode{}
	_ Node = &GroupingFolderNode{}
	_ Node = &ResourceFolderNode{}
	_ Node = &ContextNode{}
	_ Node = &InactiveContextNode{}
	_ Node = &ConfigItemNode{}
	_ Node = &ErrorNode{}
	_ Node = &ExtensionNode{}
)

// Deps bundles what nodes need to fetch their children. It is shared by all
// nodes created by one explorer.
type Deps struct {
	Kubectl kubectl.Runner
	Kinds   *KindRegistry
	Log     logr.Logger
	// Namespace returns the namespace resource folders list; "" defers to
	// the context's own namespace.
	Namespace func() string
}

func (d Deps) namespace() string {
	if d.Namespace == nil {
		return ""
	}
	return d.Namespace()
}

// Context values understood by the command bindings of the host.
const (
	ContextValueContext         = "vsKubernetes.cluster"
	ContextValueMinikube        = "vsKubernetes.cluster.minikube"
	ContextValueInactiveContext = "vsKubernetes.cluster.inactive"
	ContextValueGroupingFolder  = "vsKubernetes.folder"
	ContextValueResourceFolder  = "vsKubernetes.kind"
	ContextValueResourcePrefix  = "vsKubernetes.resource"
	ContextValueConfigItem      = "vsKubernetes.file"
	ContextValueError           = "vsKubernetes.error"
)

// Command names bound to tree items.
const (
	CommandLoadResource   = "extension.vsKubernetesLoad"
	CommandUseContext     = "extension.vsKubernetesUseContext"
	CommandLoadConfigData = "extension.vsKubernetesLoadConfigMapData"
)

// childrenOf evaluates sources in order and concatenates their nodes. A
// failing or panicking source contributes one error node in its place.
func childrenOf(ctx context.Context, sources []NodeSource) []Node {
	var out []Node
	for _, s := range sources {
		var ns []Node
		err := recovered(func() error {
			var err error
			ns, err = s.Nodes(ctx)
			return err
		})
		if err != nil {
			out = append(out, NewErrorNode("Error", err.Error()))
			continue
		}
		out = append(out, ns...)
	}
	return out
}

// sourcesOf calls an extension supplied recipe. A panic becomes a source
// failing with the panic.
func sourcesOf(fn func() []NodeSource) []NodeSource {
	var sources []NodeSource
	if err := recovered(func() error { sources = fn(); return nil }); err != nil {
		return []NodeSource{NewSource(func(context.Context) ([]Node, error) { return nil, err })}
	}
	return sources
}

// recovered converts a panic in fn into an error.
func recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
