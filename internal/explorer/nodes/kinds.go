package nodes

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

// ErrKindRegistered is returned when a manifest kind is registered twice.
var ErrKindRegistered = errors.New("resource kind already registered")

// ResourceKind identifies a kind as kubectl knows it.
type ResourceKind struct {
	ManifestKind      string
	Abbreviation      string
	DisplayName       string
	PluralDisplayName string
}

// Label returns the plural display name, falling back to the manifest kind.
func (k ResourceKind) Label() string {
	if k.PluralDisplayName != "" {
		return k.PluralDisplayName
	}
	if k.DisplayName != "" {
		return k.DisplayName
	}
	return k.ManifestKind
}

// Command returns the kubectl resource argument for the kind.
func (k ResourceKind) Command() string {
	if k.Abbreviation != "" {
		return k.Abbreviation
	}
	return k.ManifestKind
}

func kind(manifest, abbr, display, plural string) ResourceKind {
	return ResourceKind{ManifestKind: manifest, Abbreviation: abbr, DisplayName: display, PluralDisplayName: plural}
}

// Well-known kinds used by the built-in hierarchy.
var (
	KindNamespace   = kind("Namespace", "ns", "Namespace", "Namespaces")
	KindNode        = kind("Node", "no", "Node", "Nodes")
	KindDeployment  = kind("Deployment", "deployment", "Deployment", "Deployments")
	KindStatefulSet = kind("StatefulSet", "statefulset", "StatefulSet", "Stateful Sets")
	KindDaemonSet   = kind("DaemonSet", "ds", "DaemonSet", "Daemon Sets")
	KindReplicaSet  = kind("ReplicaSet", "rs", "ReplicaSet", "Replica Sets")
	KindJob         = kind("Job", "job", "Job", "Jobs")
	KindCronJob     = kind("CronJob", "cronjob", "CronJob", "Cron Jobs")
	KindPod         = kind("Pod", "pod", "Pod", "Pods")
	KindService     = kind("Service", "svc", "Service", "Services")
	KindEndpoints   = kind("Endpoints", "endpoints", "Endpoint", "Endpoints")
	KindIngress     = kind("Ingress", "ing", "Ingress", "Ingress")
	KindPV          = kind("PersistentVolume", "pv", "Persistent Volume", "Persistent Volumes")
	KindPVC         = kind("PersistentVolumeClaim", "pvc", "Persistent Volume Claim", "Persistent Volume Claims")
	KindStorage     = kind("StorageClass", "sc", "Storage Class", "Storage Classes")
	KindConfigMap   = kind("ConfigMap", "cm", "ConfigMap", "Config Maps")
	KindSecret      = kind("Secret", "secrets", "Secret", "Secrets")
	KindCRD         = kind("CustomResourceDefinition", "crd", "Custom Resource", "Custom Resources")
)

var builtinKinds = []ResourceKind{
	KindNamespace, KindNode, KindDeployment, KindStatefulSet, KindDaemonSet, KindReplicaSet,
	KindJob, KindCronJob, KindPod, KindService, KindEndpoints, KindIngress, KindPV, KindPVC,
	KindStorage, KindConfigMap, KindSecret, KindCRD,
}

// KindFor returns the built-in kind for manifestKind, or a kind with only the
// given names filled in.
func KindFor(manifestKind, abbreviation string) ResourceKind {
	for _, k := range builtinKinds {
		if k.ManifestKind == manifestKind {
			if abbreviation != "" {
				k.Abbreviation = abbreviation
			}
			return k
		}
	}
	return ResourceKind{ManifestKind: manifestKind, Abbreviation: abbreviation, DisplayName: manifestKind, PluralDisplayName: manifestKind}
}

// ResourceSummary is the minimal description of one resource.
type ResourceSummary struct {
	Name      string
	ExtraInfo any
}

// KindUIDescriptor customizes how a kind is listed and shown. All fields are optional.
type KindUIDescriptor struct {
	// Lister replaces `kubectl get` for resource folders of the kind.
	Lister func() NodeSource
	// Children adds children under every resource of the kind.
	Children func(r ResourceSummary) []NodeSource
	// Customize rewrites the tree item of resources of the kind.
	Customize func(node Node, item *treeitem.TreeItem)
}

type registeredKind struct {
	kind ResourceKind
	ui   KindUIDescriptor
}

// KindRegistry maps manifest kinds to UI descriptors. The first registration
// of a manifest kind wins; later ones fail with ErrKindRegistered.
type KindRegistry struct {
	mu    sync.RWMutex
	kinds map[string]registeredKind
}

// NewKindRegistry creates an empty registry
func NewKindRegistry() *KindRegistry {
	return &KindRegistry{kinds: map[string]registeredKind{}}
}

// Register registers a UI descriptor for the kind.
func (r *KindRegistry) Register(k ResourceKind, ui KindUIDescriptor) error {
	if k.ManifestKind == "" {
		return fmt.Errorf("register kind: empty manifest kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[k.ManifestKind]; exists {
		return fmt.Errorf("%w: %s", ErrKindRegistered, k.ManifestKind)
	}
	r.kinds[k.ManifestKind] = registeredKind{kind: k, ui: ui}
	return nil
}

// Lookup returns the registration for manifestKind.
func (r *KindRegistry) Lookup(manifestKind string) (ResourceKind, KindUIDescriptor, bool) {
	if r == nil {
		return ResourceKind{}, KindUIDescriptor{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rk, ok := r.kinds[manifestKind]
	return rk.kind, rk.ui, ok
}

// Kinds returns all registered kinds sorted by manifest kind.
func (r *KindRegistry) Kinds() []ResourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ResourceKind, 0, len(r.kinds))
	for _, rk := range r.kinds {
		out = append(out, rk.kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ManifestKind < out[j].ManifestKind })
	return out
}
