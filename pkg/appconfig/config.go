package appconfig

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	yaml "sigs.k8s.io/yaml"
)

type ViewerConfig struct {
	Theme string `json:"theme"`
}

type ExplorerConfig struct {
	// Kubeconfig is the active kubeconfig; empty uses the default loading rules.
	Kubeconfig       string   `json:"kubeconfig,omitempty"`
	KnownKubeconfigs []string `json:"knownKubeconfigs,omitempty"`
	// Namespace scopes resource folder listings; empty uses the context's namespace.
	Namespace        string   `json:"namespace,omitempty"`
	ResourcesToWatch []string `json:"resourcesToWatch,omitempty"`
	// RefreshDelay is how long a late registration waits before re-rendering.
	RefreshDelay metav1.Duration `json:"refreshDelay"`
}

type KubectlConfig struct {
	Path string `json:"path,omitempty"`
	// PathOverrides maps GOOS to a binary path, e.g. {"windows": "C:\\bin\\kubectl.exe"}.
	PathOverrides map[string]string `json:"pathOverrides,omitempty"`
	UseWSL        bool              `json:"useWSL,omitempty"`
}

type Config struct {
	Viewer   ViewerConfig   `json:"viewer"`
	Explorer ExplorerConfig `json:"explorer"`
	Kubectl  KubectlConfig  `json:"kubectl"`
}

const (
	defaultTheme        = "dracula"
	defaultRefreshDelay = 50 * time.Millisecond
)

func Default() *Config {
	return &Config{
		Viewer:   ViewerConfig{Theme: defaultTheme},
		Explorer: ExplorerConfig{RefreshDelay: metav1.Duration{Duration: defaultRefreshDelay}},
	}
}

// DefaultPath returns ~/.kexplorer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kexplorer", "config.yaml"), nil
}

// Load reads ~/.kexplorer/config.yaml if present, otherwise returns defaults.
func Load() (*Config, error) {
	p, err := DefaultPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(p)
}

// LoadFile reads the given file, falling back to defaults when it is missing.
func LoadFile(p string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	normalize(cfg)
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Viewer.Theme = strings.ToLower(cfg.Viewer.Theme)
	if cfg.Viewer.Theme == "" {
		cfg.Viewer.Theme = defaultTheme
	}
	if cfg.Explorer.RefreshDelay.Duration <= 0 {
		cfg.Explorer.RefreshDelay.Duration = defaultRefreshDelay
	}
}

// Save writes the config to ~/.kexplorer/config.yaml, creating the directory if needed.
func Save(cfg *Config) error {
	p, err := DefaultPath()
	if err != nil {
		return err
	}
	return SaveFile(p, cfg)
}

// SaveFile writes the config to the given path.
func SaveFile(p string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	// Enforce lower-case style names for consistency
	out := *cfg
	out.Viewer.Theme = strings.ToLower(out.Viewer.Theme)
	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// SetActiveKubeconfig makes path the active kubeconfig and remembers it.
func (c *Config) SetActiveKubeconfig(path string) {
	c.Explorer.Kubeconfig = path
	c.AddKnownKubeconfig(path)
}

// AddKnownKubeconfig appends path to the known kubeconfigs unless present.
func (c *Config) AddKnownKubeconfig(path string) {
	for _, p := range c.Explorer.KnownKubeconfigs {
		if p == path {
			return
		}
	}
	c.Explorer.KnownKubeconfigs = append(c.Explorer.KnownKubeconfigs, path)
}

// ToolPath returns the configured binary for tool on goos. Per-OS overrides
// win over the plain path; "" means look the tool up on PATH.
func (c *Config) ToolPath(goos, tool string) string {
	if tool != "kubectl" {
		return ""
	}
	if p, ok := c.Kubectl.PathOverrides[goos]; ok && p != "" {
		return expandHome(p)
	}
	return expandHome(c.Kubectl.Path)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
