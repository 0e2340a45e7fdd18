package v1

import "github.com/sttts/kexplorer/pkg/api/clusterexplorer/schema"

// ToShape returns the structural form of a v1 node.
func ToShape(n ClusterExplorerNode) schema.Shape {
	s := schema.Shape{schema.NodeTypeField: string(n.NodeType())}
	switch n := n.(type) {
	case ResourceNode:
		if n.Namespace != nil {
			s["namespace"] = *n.Namespace
		} else {
			s["namespace"] = nil
		}
		s["resourceKind"] = schema.KindValue(n.ResourceKind.ManifestKind, n.ResourceKind.Abbreviation)
		s["name"] = n.Name
		if n.Metadata != nil {
			s["metadata"] = n.Metadata
		}
	case ResourceFolderNode:
		s["resourceKind"] = schema.KindValue(n.ResourceKind.ManifestKind, n.ResourceKind.Abbreviation)
	case ContextNode:
		s["name"] = n.Name
	case InactiveContextNode:
		s["name"] = n.Name
	case ConfigDataItemNode:
		s["name"] = n.Name
	case HelmReleaseNode:
		s["name"] = n.Name
	case ExtensionNode:
		s["payload"] = n.Payload
	case GroupingFolderNode, ErrorNode:
	}
	return s
}

// FromShape recognizes a v1 shape. It requires the tag and every mandatory
// field of that tag with the right type; anything else is not a v1 node.
func FromShape(s schema.Shape) (ClusterExplorerNode, bool) {
	switch NodeType(s.NodeType()) {
	case NodeTypeResource:
		name, ok := s.String("name")
		if !ok {
			return nil, false
		}
		kind, abbr, ok := s.Kind("resourceKind")
		if !ok {
			return nil, false
		}
		ns, ok := s.OptionalString("namespace")
		if !ok {
			return nil, false
		}
		n := ResourceNode{ResourceKind: ResourceKind{ManifestKind: kind, Abbreviation: abbr}, Name: name}
		if s["namespace"] != nil {
			n.Namespace = &ns
		}
		if md, ok := s.Map("metadata"); ok {
			n.Metadata = md
		}
		return n, true
	case NodeTypeResourceFolder:
		kind, abbr, ok := s.Kind("resourceKind")
		if !ok {
			return nil, false
		}
		return ResourceFolderNode{ResourceKind: ResourceKind{ManifestKind: kind, Abbreviation: abbr}}, true
	case NodeTypeGroupingFolder:
		return GroupingFolderNode{}, true
	case NodeTypeContext:
		name, ok := s.String("name")
		return ContextNode{Name: name}, ok
	case NodeTypeInactiveContext:
		name, ok := s.String("name")
		return InactiveContextNode{Name: name}, ok
	case NodeTypeConfigItem:
		name, ok := s.String("name")
		return ConfigDataItemNode{Name: name}, ok
	case NodeTypeHelmRelease:
		name, ok := s.String("name")
		return HelmReleaseNode{Name: name}, ok
	case NodeTypeError:
		return ErrorNode{}, true
	case NodeTypeExtension:
		return ExtensionNode{Payload: s["payload"]}, true
	}
	return nil, false
}
