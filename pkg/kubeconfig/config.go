package kubeconfig

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

// Context represents a Kubernetes context
type Context struct {
	Name      string
	Cluster   string
	Namespace string
	User      string
	// Active is true for the kubeconfig's current-context.
	Active bool
}

// Manager reads contexts from a kubeconfig. An empty path uses the default
// loading rules ($KUBECONFIG, then ~/.kube/config).
type Manager struct {
	path string

	mu     sync.Mutex
	config *api.Config
}

// NewManager creates a new kubeconfig manager
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the explicit kubeconfig path, if any.
func (m *Manager) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// SetPath switches to another kubeconfig. The next ListContexts reads it.
func (m *Manager) SetPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
	m.config = nil
}

func (m *Manager) rules() *clientcmd.ClientConfigLoadingRules {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if p := m.Path(); p != "" {
		rules.ExplicitPath = p
	}
	return rules
}

// Load re-reads the kubeconfig from disk.
func (m *Manager) Load() (*api.Config, error) {
	cfg, err := m.rules().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return cfg, nil
}

// ListContexts reloads the kubeconfig and returns its contexts sorted by name.
// The kubeconfig is read on every call so context switches are picked up on
// refresh.
func (m *Manager) ListContexts(context.Context) ([]Context, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}
	return contextsOf(cfg), nil
}

func contextsOf(cfg *api.Config) []Context {
	contexts := make([]Context, 0, len(cfg.Contexts))
	for name, c := range cfg.Contexts {
		namespace := c.Namespace
		if namespace == "" {
			namespace = "default"
		}
		contexts = append(contexts, Context{
			Name:      name,
			Cluster:   c.Cluster,
			Namespace: namespace,
			User:      c.AuthInfo,
			Active:    name == cfg.CurrentContext,
		})
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i].Name < contexts[j].Name })
	return contexts
}

// GetContextByName finds a context by name
func (m *Manager) GetContextByName(name string) (*Context, error) {
	contexts, err := m.ListContexts(context.Background())
	if err != nil {
		return nil, err
	}
	for i := range contexts {
		if contexts[i].Name == name {
			return &contexts[i], nil
		}
	}
	return nil, fmt.Errorf("context %q not found", name)
}

// SetCurrentContext switches the current-context and writes the file back.
func (m *Manager) SetCurrentContext(name string) error {
	cfg, err := m.Load()
	if err != nil {
		return err
	}
	if cfg.CurrentContext == name {
		return nil // Already set
	}
	if _, ok := cfg.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	cfg.CurrentContext = name

	path := m.Path()
	if path == "" {
		path = m.rules().GetDefaultFilename()
	}
	return clientcmd.WriteToFile(*cfg, path)
}
