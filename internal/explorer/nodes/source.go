package nodes

import (
	"context"
	"fmt"
)

// Contributor adds children to parents it claims. A nil parent is the top level.
type Contributor interface {
	ContributesChildren(parent Node) bool
	GetChildren(ctx context.Context, parent Node) ([]Node, error)
}

// NodeSource is a lazy recipe for nodes. Nothing is fetched until Nodes is called.
type NodeSource interface {
	Nodes(ctx context.Context) ([]Node, error)
	// If yields no nodes unless cond reports true.
	If(cond func(ctx context.Context) (bool, error)) NodeSource
	// Filter drops nodes pred rejects.
	Filter(pred func(Node) bool) NodeSource
	// At contributes the source's nodes under grouping folders named
	// parentFolder, or under the active context node if parentFolder is empty.
	At(parentFolder string) Contributor
}

type source struct {
	nodes func(ctx context.Context) ([]Node, error)
}

// NewSource creates a NodeSource from a function.
func NewSource(fn func(ctx context.Context) ([]Node, error)) NodeSource {
	return source{nodes: fn}
}

// Static yields the given nodes.
func Static(ns ...Node) NodeSource {
	return NewSource(func(context.Context) ([]Node, error) { return ns, nil })
}

func (s source) Nodes(ctx context.Context) ([]Node, error) {
	return s.nodes(ctx)
}

func (s source) If(cond func(ctx context.Context) (bool, error)) NodeSource {
	return NewSource(func(ctx context.Context) ([]Node, error) {
		ok, err := cond(ctx)
		if err != nil {
			return nil, fmt.Errorf("evaluating condition: %w", err)
		}
		if !ok {
			return nil, nil
		}
		return s.Nodes(ctx)
	})
}

func (s source) Filter(pred func(Node) bool) NodeSource {
	return NewSource(func(ctx context.Context) ([]Node, error) {
		ns, err := s.Nodes(ctx)
		if err != nil {
			return nil, err
		}
		out := ns[:0:0]
		for _, n := range ns {
			if pred(n) {
				out = append(out, n)
			}
		}
		return out, nil
	})
}

func (s source) At(parentFolder string) Contributor {
	return &sourceContributor{parentFolder: parentFolder, source: s}
}

type sourceContributor struct {
	parentFolder string
	source       NodeSource
}

func (c *sourceContributor) ContributesChildren(parent Node) bool {
	switch p := parent.(type) {
	case *ContextNode:
		return c.parentFolder == ""
	case *GroupingFolderNode:
		return c.parentFolder != "" && p.DisplayName == c.parentFolder
	}
	return false
}

func (c *sourceContributor) GetChildren(ctx context.Context, _ Node) ([]Node, error) {
	return c.source.Nodes(ctx)
}

// ResourcesSpec selects which resources ResourcesOf yields: ResourcesAll,
// ResourcesCallback or ResourcesList.
type ResourcesSpec interface {
	resourcesSpec()
}

// ResourcesAll lists every resource of the kind through kubectl.
type ResourcesAll struct{}

// ResourcesCallback lists resources through a function.
type ResourcesCallback struct {
	List func(ctx context.Context) ([]ResourceSummary, error)
}

// ResourcesList is a fixed set of resources.
type ResourcesList struct {
	List []ResourceSummary
}

func (ResourcesAll) resourcesSpec()      {}
func (ResourcesCallback) resourcesSpec() {}
func (ResourcesList) resourcesSpec()     {}

// Sources builds the standard NodeSources. It is what extensions receive as
// their node source factory.
type Sources struct {
	deps Deps
}

// NewSources returns a factory creating nodes with deps.
func NewSources(deps Deps) Sources {
	return Sources{deps: deps}
}

// Deps returns the dependencies nodes created by the factory use.
func (s Sources) Deps() Deps {
	return s.deps
}

// ResourceFolder yields one resource folder for the kind.
func (s Sources) ResourceFolder(displayName, pluralDisplayName, manifestKind, abbreviation string) NodeSource {
	k := KindFor(manifestKind, abbreviation)
	k.DisplayName, k.PluralDisplayName = displayName, pluralDisplayName
	return Static(NewResourceFolderNode(s.deps, k))
}

// GroupingFolder yields one grouping folder with the given children.
func (s Sources) GroupingFolder(displayName, contextValue string, children ...NodeSource) NodeSource {
	return Static(NewGroupingFolderNode(displayName, contextValue, children...))
}

// ResourceFolderOf yields one resource folder whose contents come from resources.
func (s Sources) ResourceFolderOf(displayName, pluralDisplayName, manifestKind, abbreviation string, resources func() []NodeSource) NodeSource {
	k := KindFor(manifestKind, abbreviation)
	k.DisplayName, k.PluralDisplayName = displayName, pluralDisplayName
	f := NewResourceFolderNode(s.deps, k)
	f.lister = resources
	return Static(f)
}

// ResourcesOf yields resource nodes of the kind selected by spec. If children
// is non-nil it replaces the built-in children of every resource node.
func (s Sources) ResourcesOf(manifestKind, abbreviation string, spec ResourcesSpec, children func(ResourceSummary) NodeSource) NodeSource {
	k := KindFor(manifestKind, abbreviation)
	return NewSource(func(ctx context.Context) ([]Node, error) {
		var summaries []ResourceSummary
		switch spec := spec.(type) {
		case ResourcesAll, nil:
			return listResources(ctx, s.deps, k, s.deps.namespace(), children), nil
		case ResourcesCallback:
			l, err := spec.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", k.ManifestKind, err)
			}
			summaries = l
		case ResourcesList:
			summaries = spec.List
		default:
			return nil, fmt.Errorf("unsupported resources spec %T", spec)
		}
		out := make([]Node, 0, len(summaries))
		for _, r := range summaries {
			out = append(out, s.resource(k, r, children))
		}
		return out, nil
	})
}

// ResourceOf yields a single resource node.
func (s Sources) ResourceOf(manifestKind, abbreviation string, r ResourceSummary, children func(ResourceSummary) NodeSource) NodeSource {
	return Static(s.resource(KindFor(manifestKind, abbreviation), r, children))
}

func (s Sources) resource(k ResourceKind, r ResourceSummary, children func(ResourceSummary) NodeSource) *ResourceNode {
	n := NewResourceNode(s.deps, k, s.deps.namespace(), r.Name, nil)
	n.ExtraInfo = r.ExtraInfo
	if children != nil {
		n.children = func() NodeSource { return children(r) }
	}
	return n
}
