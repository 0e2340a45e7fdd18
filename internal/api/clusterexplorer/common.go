// Package clusterexplorer implements the published cluster explorer contract
// versions on top of the tree engine.
package clusterexplorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/sttts/kexplorer/internal/explorer"
	"github.com/sttts/kexplorer/internal/explorer/nodes"
	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/schema"
	v1 "github.com/sttts/kexplorer/pkg/api/clusterexplorer/v1"
	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/v1x1"
	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

// ErrVersionUnavailable is returned by Get for unknown contract versions.
var ErrVersionUnavailable = errors.New("cluster explorer version unavailable")

// Versions lists the supported contract versions, newest first.
var Versions = []schema.Version{v1x1.Version, v1.Version}

// Get returns the facade for version: a v1.ClusterExplorer for "v1" or a
// v1x1.ClusterExplorer for "v1.1".
func Get(e *explorer.Explorer, version schema.Version) (any, error) {
	switch version {
	case v1.Version:
		return V1(e), nil
	case v1x1.Version:
		return V1x1(e), nil
	}
	return nil, fmt.Errorf("%w: %q, supported are %v", ErrVersionUnavailable, version, Versions)
}

// liveCarrier is implemented by the adapters handed to extensions.
type liveCarrier interface {
	liveNode() nodes.Node
}

// LiveShape returns the v1.1 shape of a live node.
func LiveShape(n nodes.Node) schema.Shape {
	s := schema.Shape{schema.NodeTypeField: string(n.NodeType())}
	switch n := n.(type) {
	case *nodes.ResourceNode:
		if n.Namespace != "" {
			s["namespace"] = n.Namespace
		} else {
			s["namespace"] = nil
		}
		s["kind"] = schema.KindValue(n.Kind.ManifestKind, n.Kind.Abbreviation)
		s["name"] = n.Name
		s["kindName"] = n.KindName()
		if n.Metadata != nil {
			s["metadata"] = n.Metadata
		}
	case *nodes.ResourceFolderNode:
		s["kind"] = schema.KindValue(n.Kind.ManifestKind, n.Kind.Abbreviation)
	case *nodes.GroupingFolderNode:
		s["displayName"] = n.DisplayName
	case *nodes.ContextNode:
		s["name"] = n.Name
	case *nodes.InactiveContextNode:
		s["name"] = n.Name
	case *nodes.ConfigItemNode:
		s["name"] = n.Name
	case *nodes.ErrorNode:
		s["message"] = n.Message
	case *nodes.ExtensionNode:
		s["payload"] = n.Payload()
	}
	return s
}

// ResolveCommandTarget recognizes a command target and returns its v1.1
// shape. Accepted are live nodes, adapters handed out to extensions, v1 and
// v1.1 contract nodes, maps, and JSON or YAML documents. Structural matching
// tries v1.1 first and falls back to v1 translated by mapping, so fields of
// two versions are never merged. Anything else is not a target.
func ResolveCommandTarget(target any, mapping schema.Mapping) (shape schema.Shape, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			shape, ok = nil, false
		}
	}()

	switch t := target.(type) {
	case nil:
		return nil, false
	case liveCarrier:
		return LiveShape(t.liveNode()), true
	case nodes.Node:
		return LiveShape(t), true
	case v1x1.ClusterExplorerNode:
		return v1x1.ToShape(t), true
	case v1.ClusterExplorerNode:
		return mapping.Forward(v1.ToShape(t))
	case schema.Shape:
		return matchShape(t, mapping)
	case map[string]any:
		return matchShape(schema.Shape(t), mapping)
	case json.RawMessage:
		return decodeShape(t, mapping)
	case []byte:
		return decodeShape(t, mapping)
	case string:
		return decodeShape([]byte(t), mapping)
	}
	return nil, false
}

func decodeShape(data []byte, mapping schema.Mapping) (schema.Shape, bool) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil || m == nil {
		return nil, false
	}
	return matchShape(schema.Shape(m), mapping)
}

func matchShape(s schema.Shape, mapping schema.Mapping) (schema.Shape, bool) {
	if n, ok := v1x1.FromShape(s); ok {
		return v1x1.ToShape(n), true
	}
	if n, ok := v1.FromShape(s); ok {
		return mapping.Forward(v1.ToShape(n))
	}
	return nil, false
}

// facade is what every contract version shares.
type facade struct {
	explorer *explorer.Explorer
	mapping  schema.Mapping
	sources  nodes.Sources
}

func newFacade(e *explorer.Explorer) facade {
	return facade{explorer: e, mapping: schema.NodeSchemaV1ToV1x1, sources: e.Sources()}
}

func (f facade) Refresh() {
	f.explorer.Refresh()
}

func (f facade) kind(manifestKind, abbreviation string) nodes.ResourceKind {
	return nodes.KindFor(manifestKind, abbreviation)
}

// extensionNode wraps an extension-owned contract node into the live tree.
type extensionNode struct {
	payload  any
	children func(ctx context.Context) ([]nodes.Node, error)
	item     func() treeitem.TreeItem
}

func (n extensionNode) Children(ctx context.Context) ([]nodes.Node, error) { return n.children(ctx) }
func (n extensionNode) TreeItem() treeitem.TreeItem                        { return n.item() }
func (n extensionNode) Payload() any                                       { return n.payload }
