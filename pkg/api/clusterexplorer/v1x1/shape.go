package v1x1

import "github.com/sttts/kexplorer/pkg/api/clusterexplorer/schema"

// ToShape returns the structural form of a v1.1 node.
func ToShape(n ClusterExplorerNode) schema.Shape {
	s := schema.Shape{schema.NodeTypeField: string(n.NodeType())}
	switch n := n.(type) {
	case ResourceNode:
		if n.Namespace != nil {
			s["namespace"] = *n.Namespace
		} else {
			s["namespace"] = nil
		}
		s["kind"] = schema.KindValue(n.Kind.ManifestKind, n.Kind.Abbreviation)
		s["name"] = n.Name
		if n.KindName != "" {
			s["kindName"] = n.KindName
		}
		if n.Metadata != nil {
			s["metadata"] = n.Metadata
		}
	case ResourceFolderNode:
		s["kind"] = schema.KindValue(n.Kind.ManifestKind, n.Kind.Abbreviation)
	case GroupingFolderNode:
		s["displayName"] = n.DisplayName
	case ContextNode:
		s["name"] = n.Name
	case InactiveContextNode:
		s["name"] = n.Name
	case ConfigDataItemNode:
		s["name"] = n.Name
	case ErrorNode:
		s["message"] = n.Message
	case ExtensionNode:
		s["payload"] = n.Payload
	}
	return s
}

// FromShape recognizes a v1.1 shape. Fields belonging to other versions are
// ignored, never merged in.
func FromShape(s schema.Shape) (ClusterExplorerNode, bool) {
	switch NodeType(s.NodeType()) {
	case NodeTypeResource:
		name, ok := s.String("name")
		if !ok {
			return nil, false
		}
		kind, abbr, ok := s.Kind("kind")
		if !ok {
			return nil, false
		}
		ns, ok := s.OptionalString("namespace")
		if !ok {
			return nil, false
		}
		n := ResourceNode{Kind: ResourceKind{ManifestKind: kind, Abbreviation: abbr}, Name: name}
		if s["namespace"] != nil {
			n.Namespace = &ns
		}
		n.KindName, _ = s.String("kindName")
		if n.KindName == "" && abbr != "" {
			n.KindName = abbr + "/" + name
		}
		if md, ok := s.Map("metadata"); ok {
			n.Metadata = md
		}
		return n, true
	case NodeTypeResourceFolder:
		kind, abbr, ok := s.Kind("kind")
		if !ok {
			return nil, false
		}
		return ResourceFolderNode{Kind: ResourceKind{ManifestKind: kind, Abbreviation: abbr}}, true
	case NodeTypeGroupingFolder:
		name, _ := s.String("displayName")
		return GroupingFolderNode{DisplayName: name}, true
	case NodeTypeContext:
		name, ok := s.String("name")
		return ContextNode{Name: name}, ok
	case NodeTypeInactiveContext:
		name, ok := s.String("name")
		return InactiveContextNode{Name: name}, ok
	case NodeTypeConfigItem:
		name, ok := s.String("name")
		return ConfigDataItemNode{Name: name}, ok
	case NodeTypeError:
		msg, _ := s.String("message")
		return ErrorNode{Message: msg}, true
	case NodeTypeExtension:
		return ExtensionNode{Payload: s["payload"]}, true
	}
	return nil, false
}
