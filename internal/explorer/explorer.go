// Package explorer is the tree engine. It merges the built-in hierarchy with
// children contributed by extensions and lets extensions restyle tree items.
package explorer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/sttts/kexplorer/internal/explorer/nodes"
	"github.com/sttts/kexplorer/pkg/api/treeitem"
	"github.com/sttts/kexplorer/pkg/appconfig"
	"github.com/sttts/kexplorer/pkg/kubeconfig"
	"github.com/sttts/kexplorer/pkg/kubectl"
)

// DefaultRefreshDelay is how long a registration waits before it refreshes
// an already rendered tree.
const DefaultRefreshDelay = 50 * time.Millisecond

// UICustomizer rewrites tree items after the engine built them.
type UICustomizer interface {
	Customize(ctx context.Context, node nodes.Node, item *treeitem.TreeItem) error
}

// ContextLister enumerates kubeconfig contexts. *kubeconfig.Manager implements it.
type ContextLister interface {
	ListContexts(ctx context.Context) ([]kubeconfig.Context, error)
}

var _ ContextLister = &kubeconfig.Manager{}

// Options configure an Explorer.
type Options struct {
	Kubectl  kubectl.Runner
	Contexts ContextLister
	Log      logr.Logger
	// Clock schedules deferred refreshes. Defaults to the real clock.
	Clock        clock.WithDelayedExecution
	RefreshDelay time.Duration
	Namespace    string
}

// Explorer is safe for concurrent use.
type Explorer struct {
	log      logr.Logger
	contexts ContextLister
	clock    clock.WithDelayedExecution
	kinds    *nodes.KindRegistry
	deps     nodes.Deps

	mu           sync.RWMutex
	contributors []nodes.Contributor
	customizers  []UICustomizer
	subscribers  []subscriber
	nextID       int
	namespace    string
	refreshDelay time.Duration
	// renderedTop is set once the top level has been fetched. Registrations
	// before that are picked up by the first render.
	renderedTop    bool
	refreshPending bool
}

type subscriber struct {
	id int
	fn func()
}

// New creates an explorer.
func New(opts Options) *Explorer {
	e := &Explorer{
		log:          opts.Log.WithName("explorer"),
		contexts:     opts.Contexts,
		clock:        opts.Clock,
		kinds:        nodes.NewKindRegistry(),
		namespace:    opts.Namespace,
		refreshDelay: opts.RefreshDelay,
	}
	if e.clock == nil {
		e.clock = clock.RealClock{}
	}
	if e.refreshDelay <= 0 {
		e.refreshDelay = DefaultRefreshDelay
	}
	e.deps = nodes.Deps{
		Kubectl:   opts.Kubectl,
		Kinds:     e.kinds,
		Log:       e.log.WithName("nodes"),
		Namespace: e.Namespace,
	}
	return e
}

// Sources returns the factory extensions use to build nodes.
func (e *Explorer) Sources() nodes.Sources {
	return nodes.NewSources(e.deps)
}

// Namespace returns the namespace resource folders list.
func (e *Explorer) Namespace() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.namespace
}

// GetChildren returns the base children of parent followed by the children of
// every contributor claiming parent, in registration order. A nil parent is
// the top level. Failures show up as error nodes.
func (e *Explorer) GetChildren(ctx context.Context, parent nodes.Node) []nodes.Node {
	e.mu.Lock()
	if parent == nil {
		e.renderedTop = true
	}
	contributors := append([]nodes.Contributor(nil), e.contributors...)
	e.mu.Unlock()

	claiming := make([]nodes.Contributor, 0, len(contributors))
	for _, c := range contributors {
		if e.contributes(c, parent) {
			claiming = append(claiming, c)
		}
	}

	results := make([][]nodes.Node, len(claiming)+1)
	var g errgroup.Group
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				e.log.Error(err, "listing children failed", "parent", fmt.Sprintf("%T", parent))
				results[0] = []nodes.Node{nodes.NewErrorNode("Error", err.Error())}
			}
		}()
		results[0] = e.baseChildren(ctx, parent)
		return nil
	})
	for i, c := range claiming {
		g.Go(func() error {
			results[i+1] = e.contributed(ctx, c, parent)
			return nil
		})
	}
	_ = g.Wait()

	var out []nodes.Node
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (e *Explorer) baseChildren(ctx context.Context, parent nodes.Node) []nodes.Node {
	if parent != nil {
		return parent.GetChildren(ctx)
	}
	if e.contexts == nil {
		return nil
	}
	contexts, err := e.contexts.ListContexts(ctx)
	if err != nil {
		e.log.Error(err, "listing contexts failed")
		return []nodes.Node{nodes.NewErrorNode("Error", err.Error())}
	}
	return nodes.ContextNodes(e.deps, contexts)
}

func (e *Explorer) contributes(c nodes.Contributor, parent nodes.Node) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error(fmt.Errorf("panic: %v", r), "contributor failed", "contributor", fmt.Sprintf("%T", c))
			ok = false
		}
	}()
	return c.ContributesChildren(parent)
}

func (e *Explorer) contributed(ctx context.Context, c nodes.Contributor, parent nodes.Node) (children []nodes.Node) {
	defer func() {
		if r := recover(); r != nil {
			children = []nodes.Node{e.contributorFault(c, fmt.Errorf("panic: %v", r))}
		}
	}()
	children, err := c.GetChildren(ctx, parent)
	if err != nil {
		return []nodes.Node{e.contributorFault(c, err)}
	}
	return children
}

func (e *Explorer) contributorFault(c nodes.Contributor, err error) nodes.Node {
	name := fmt.Sprintf("%T", c)
	e.log.Error(err, "contributor failed", "contributor", name)
	return nodes.NewErrorNode("Error", fmt.Sprintf("%s: %v", name, err))
}

// GetTreeItem returns the presentation of n. A leaf some contributor adds
// children to becomes collapsible. Customizers run in registration order,
// each on the previous one's output; a failing customizer is skipped.
func (e *Explorer) GetTreeItem(ctx context.Context, n nodes.Node) treeitem.TreeItem {
	e.mu.RLock()
	contributors := append([]nodes.Contributor(nil), e.contributors...)
	customizers := append([]UICustomizer(nil), e.customizers...)
	e.mu.RUnlock()

	item := n.GetTreeItem()
	if item.CollapsibleState == treeitem.None {
		for _, c := range contributors {
			if e.contributes(c, n) {
				item.CollapsibleState = treeitem.Collapsed
				break
			}
		}
	}

	for _, c := range customizers {
		next := item.Clone()
		if err := e.customize(ctx, c, n, &next); err != nil {
			e.log.Error(err, "customizer failed", "customizer", fmt.Sprintf("%T", c), "node", item.Label)
			continue
		}
		item = next
	}
	return item
}

func (e *Explorer) customize(ctx context.Context, c UICustomizer, n nodes.Node, item *treeitem.TreeItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Customize(ctx, n, item)
}

// OnDidChangeTreeData subscribes fn to refreshes. The returned function unsubscribes.
func (e *Explorer) OnDidChangeTreeData(fn func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.subscribers = append(e.subscribers, subscriber{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subscribers {
			if s.id == id {
				e.subscribers = append(e.subscribers[:i:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Refresh tells every subscriber that the whole tree changed. In-flight
// fetches are not aborted.
func (e *Explorer) Refresh() {
	e.mu.RLock()
	subs := append([]subscriber(nil), e.subscribers...)
	e.mu.RUnlock()

	e.log.V(1).Info("refresh", "subscribers", len(subs))
	for _, s := range subs {
		s.fn()
	}
}

// RegisterExtender appends a contributor. One contributing at the top level
// refreshes an already rendered tree.
func (e *Explorer) RegisterExtender(c nodes.Contributor) {
	e.mu.Lock()
	e.contributors = append(e.contributors, c)
	e.mu.Unlock()

	if e.contributes(c, nil) {
		e.scheduleRefresh()
	}
}

// RegisterUICustomizer appends a customizer and refreshes an already rendered tree.
func (e *Explorer) RegisterUICustomizer(c UICustomizer) {
	e.mu.Lock()
	e.customizers = append(e.customizers, c)
	e.mu.Unlock()

	e.scheduleRefresh()
}

// RegisterKind registers a UI descriptor for a resource kind. The first
// registration of a manifest kind wins.
func (e *Explorer) RegisterKind(k nodes.ResourceKind, ui nodes.KindUIDescriptor) error {
	if err := e.kinds.Register(k, ui); err != nil {
		return err
	}
	e.scheduleRefresh()
	return nil
}

// Kinds returns the explorer's kind registry.
func (e *Explorer) Kinds() *nodes.KindRegistry {
	return e.kinds
}

// scheduleRefresh refreshes once after the refresh delay. Calls while a
// refresh is pending are coalesced. Nothing happens before the first render.
func (e *Explorer) scheduleRefresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.renderedTop || e.refreshPending {
		return
	}
	e.refreshPending = true
	e.clock.AfterFunc(e.refreshDelay, func() {
		e.mu.Lock()
		e.refreshPending = false
		e.mu.Unlock()
		e.Refresh()
	})
}

// OnConfigChange refreshes the tree when explorer settings changed.
func (e *Explorer) OnConfigChange(ch appconfig.Change) {
	if !ch.AffectsExplorer() {
		return
	}
	if ch.Config != nil {
		e.mu.Lock()
		e.namespace = ch.Config.Explorer.Namespace
		if d := ch.Config.Explorer.RefreshDelay.Duration; d > 0 {
			e.refreshDelay = d
		}
		e.mu.Unlock()
	}
	e.log.V(1).Info("configuration changed", "keys", ch.Keys)
	e.Refresh()
}
