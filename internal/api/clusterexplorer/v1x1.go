package clusterexplorer

import (
	"context"

	"github.com/sttts/kexplorer/internal/explorer"
	"github.com/sttts/kexplorer/internal/explorer/nodes"
	"github.com/sttts/kexplorer/pkg/api/clusterexplorer/v1x1"
	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

type v1x1Explorer struct {
	facade
}

var _ v1x1.ClusterExplorer = &v1x1Explorer{}

// V1x1 returns the v1.1 contract of e. Its shapes are those of the live tree.
func V1x1(e *explorer.Explorer) v1x1.ClusterExplorer {
	return &v1x1Explorer{facade: newFacade(e)}
}

func (x *v1x1Explorer) ResolveCommandTarget(target any) v1x1.ClusterExplorerNode {
	s, ok := ResolveCommandTarget(target, x.mapping)
	if !ok {
		return nil
	}
	n, ok := v1x1.FromShape(s)
	if !ok {
		return nil
	}
	return n
}

func (x *v1x1Explorer) RegisterNodeContributor(c v1x1.NodeContributor) {
	if sc, ok := c.(*v1x1SourceContributor); ok {
		x.explorer.RegisterExtender(sc.live)
		return
	}
	x.explorer.RegisterExtender(&v1x1Contributor{x: x, c: c})
}

func (x *v1x1Explorer) NodeSources() v1x1.NodeSources {
	return v1x1Sources{x: x}
}

func (x *v1x1Explorer) RegisterNodeUICustomizer(c v1x1.NodeUICustomizer) {
	x.explorer.RegisterUICustomizer(&v1x1Customizer{x: x, c: c})
}

func (x *v1x1Explorer) RegisterKind(manifestKind, abbreviation string, d v1x1.ResourceKindUIDescriptor) error {
	ui := nodes.KindUIDescriptor{}
	if d.Lister != nil {
		ui.Lister = func() nodes.NodeSource { return x.toLiveSource(d.Lister()) }
	}
	if d.Children != nil {
		ui.Children = func(r nodes.ResourceSummary) []nodes.NodeSource {
			return x.toLiveSources(d.Children(v1x1.ResourceSummary(r)))
		}
	}
	if d.Customize != nil {
		ui.Customize = func(n nodes.Node, item *treeitem.TreeItem) {
			if cn := x.toContract(n); cn != nil {
				d.Customize(cn, item)
			}
		}
	}
	return x.explorer.RegisterKind(x.kind(manifestKind, abbreviation), ui)
}

// toContract converts a live node into its v1.1 form, or nil.
func (x *v1x1Explorer) toContract(n nodes.Node) v1x1.ClusterExplorerNode {
	if n == nil {
		return nil
	}
	cn, ok := v1x1.FromShape(LiveShape(n))
	if !ok {
		return nil
	}
	return cn
}

func (x *v1x1Explorer) wrap(ns []nodes.Node) []v1x1.Node {
	out := make([]v1x1.Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, v1x1Node{x: x, live: n})
	}
	return out
}

// toLive unwraps adapters and wraps extension-owned nodes.
func (x *v1x1Explorer) toLive(ns []v1x1.Node) []nodes.Node {
	out := make([]nodes.Node, 0, len(ns))
	for _, n := range ns {
		if n == nil {
			continue
		}
		if lc, ok := n.(liveCarrier); ok {
			out = append(out, lc.liveNode())
			continue
		}
		out = append(out, nodes.NewExtensionNode(extensionNode{
			payload: n,
			children: func(ctx context.Context) ([]nodes.Node, error) {
				children, err := n.GetChildren(ctx)
				if err != nil {
					return nil, err
				}
				return x.toLive(children), nil
			},
			item: n.GetTreeItem,
		}))
	}
	return out
}

func (x *v1x1Explorer) toLiveSource(s v1x1.NodeSource) nodes.NodeSource {
	if s == nil {
		return nodes.Static()
	}
	if vs, ok := s.(v1x1Source); ok {
		return vs.live
	}
	return nodes.NewSource(func(ctx context.Context) ([]nodes.Node, error) {
		ns, err := s.Nodes(ctx)
		if err != nil {
			return nil, err
		}
		return x.toLive(ns), nil
	})
}

func (x *v1x1Explorer) toLiveSources(ss []v1x1.NodeSource) []nodes.NodeSource {
	out := make([]nodes.NodeSource, 0, len(ss))
	for _, s := range ss {
		out = append(out, x.toLiveSource(s))
	}
	return out
}

// v1x1Node hands a live node to a v1.1 extension.
type v1x1Node struct {
	x    *v1x1Explorer
	live nodes.Node
}

func (n v1x1Node) liveNode() nodes.Node { return n.live }

func (n v1x1Node) GetChildren(ctx context.Context) ([]v1x1.Node, error) {
	return n.x.wrap(n.live.GetChildren(ctx)), nil
}

func (n v1x1Node) GetTreeItem() treeitem.TreeItem {
	return n.live.GetTreeItem()
}

type v1x1Contributor struct {
	x *v1x1Explorer
	c v1x1.NodeContributor
}

func (c *v1x1Contributor) ContributesChildren(parent nodes.Node) bool {
	if parent == nil {
		return c.c.ContributesChildren(nil)
	}
	cn := c.x.toContract(parent)
	if cn == nil {
		return false
	}
	return c.c.ContributesChildren(cn)
}

func (c *v1x1Contributor) GetChildren(ctx context.Context, parent nodes.Node) ([]nodes.Node, error) {
	ns, err := c.c.GetChildren(ctx, c.x.toContract(parent))
	if err != nil {
		return nil, err
	}
	return c.x.toLive(ns), nil
}

type v1x1Customizer struct {
	x *v1x1Explorer
	c v1x1.NodeUICustomizer
}

func (c *v1x1Customizer) Customize(ctx context.Context, n nodes.Node, item *treeitem.TreeItem) error {
	cn := c.x.toContract(n)
	if cn == nil {
		return nil
	}
	return c.c.Customize(ctx, cn, item)
}

// v1x1Source exposes a live NodeSource to v1.1 extensions.
type v1x1Source struct {
	x    *v1x1Explorer
	live nodes.NodeSource
}

func (s v1x1Source) At(parentFolder string) v1x1.NodeContributor {
	return &v1x1SourceContributor{s: s, parentFolder: parentFolder, live: s.live.At(parentFolder)}
}

func (s v1x1Source) If(cond func(ctx context.Context) (bool, error)) v1x1.NodeSource {
	return v1x1Source{x: s.x, live: s.live.If(cond)}
}

func (s v1x1Source) Filter(pred func(v1x1.ClusterExplorerNode) bool) v1x1.NodeSource {
	return v1x1Source{x: s.x, live: s.live.Filter(func(n nodes.Node) bool {
		cn := s.x.toContract(n)
		return cn != nil && pred(cn)
	})}
}

func (s v1x1Source) Nodes(ctx context.Context) ([]v1x1.Node, error) {
	ns, err := s.live.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	return s.x.wrap(ns), nil
}

// v1x1SourceContributor is registered as its live contributor. Its own
// methods only serve extensions calling it directly.
type v1x1SourceContributor struct {
	s            v1x1Source
	parentFolder string
	live         nodes.Contributor
}

func (c *v1x1SourceContributor) ContributesChildren(parent v1x1.ClusterExplorerNode) bool {
	switch p := parent.(type) {
	case v1x1.ContextNode:
		return c.parentFolder == ""
	case v1x1.GroupingFolderNode:
		return c.parentFolder != "" && p.DisplayName == c.parentFolder
	}
	return false
}

func (c *v1x1SourceContributor) GetChildren(ctx context.Context, _ v1x1.ClusterExplorerNode) ([]v1x1.Node, error) {
	return c.s.Nodes(ctx)
}

type v1x1Sources struct {
	x *v1x1Explorer
}

func (s v1x1Sources) source(live nodes.NodeSource) v1x1.NodeSource {
	return v1x1Source{x: s.x, live: live}
}

func (s v1x1Sources) ResourceFolder(displayName, pluralDisplayName, manifestKind, abbreviation string) v1x1.NodeSource {
	return s.source(s.x.sources.ResourceFolder(displayName, pluralDisplayName, manifestKind, abbreviation))
}

func (s v1x1Sources) GroupingFolder(displayName, contextValue string, children ...v1x1.NodeSource) v1x1.NodeSource {
	return s.source(s.x.sources.GroupingFolder(displayName, contextValue, s.x.toLiveSources(children)...))
}

func (s v1x1Sources) ResourceFolderOf(displayName, pluralDisplayName, manifestKind, abbreviation string, resources func() []v1x1.NodeSource) v1x1.NodeSource {
	return s.source(s.x.sources.ResourceFolderOf(displayName, pluralDisplayName, manifestKind, abbreviation, func() []nodes.NodeSource {
		return s.x.toLiveSources(resources())
	}))
}

func (s v1x1Sources) ResourcesOf(manifestKind, abbreviation string, spec v1x1.ResourcesSpec, children func(v1x1.ResourceSummary) v1x1.NodeSource) v1x1.NodeSource {
	var liveChildren func(nodes.ResourceSummary) nodes.NodeSource
	if children != nil {
		liveChildren = func(r nodes.ResourceSummary) nodes.NodeSource {
			return s.x.toLiveSource(children(v1x1.ResourceSummary(r)))
		}
	}
	return s.source(s.x.sources.ResourcesOf(manifestKind, abbreviation, v1x1ResourcesSpec(spec), liveChildren))
}

func (s v1x1Sources) ResourceOf(manifestKind, abbreviation string, r v1x1.ResourceSummary, children func() v1x1.NodeSource) v1x1.NodeSource {
	var liveChildren func(nodes.ResourceSummary) nodes.NodeSource
	if children != nil {
		liveChildren = func(nodes.ResourceSummary) nodes.NodeSource { return s.x.toLiveSource(children()) }
	}
	return s.source(s.x.sources.ResourceOf(manifestKind, abbreviation, nodes.ResourceSummary(r), liveChildren))
}

func v1x1ResourcesSpec(spec v1x1.ResourcesSpec) nodes.ResourcesSpec {
	switch spec := spec.(type) {
	case v1x1.ResourcesCallback:
		return nodes.ResourcesCallback{List: func(ctx context.Context) ([]nodes.ResourceSummary, error) {
			l, err := spec.List(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]nodes.ResourceSummary, 0, len(l))
			for _, r := range l {
				out = append(out, nodes.ResourceSummary(r))
			}
			return out, nil
		}}
	case v1x1.ResourcesList:
		out := make([]nodes.ResourceSummary, 0, len(spec.List))
		for _, r := range spec.List {
			out = append(out, nodes.ResourceSummary(r))
		}
		return nodes.ResourcesList{List: out}
	}
	return nodes.ResourcesAll{}
}
