package appconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	yaml "sigs.k8s.io/yaml"
)

// TestConfigDefaultsYAMLMatchesCode reads config-default.yaml from the repo root
// and compares it with the in-code defaults returned by Default().
func TestConfigDefaultsYAMLMatchesCode(t *testing.T) {
	path := filepath.Join("..", "..", "config-default.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skip("config-default.yaml not found; skipping defaults sync test")
	}

	fromYAML := &Config{}
	if err := yaml.Unmarshal(data, fromYAML); err != nil {
		t.Fatalf("unmarshal defaults yaml: %v", err)
	}
	fromCode := Default()

	if fromYAML.Viewer.Theme != fromCode.Viewer.Theme {
		t.Fatalf("viewer.theme mismatch: yaml=%q code=%q", fromYAML.Viewer.Theme, fromCode.Viewer.Theme)
	}
	if fromYAML.Explorer.RefreshDelay.Duration != fromCode.Explorer.RefreshDelay.Duration {
		t.Fatalf("explorer.refreshDelay mismatch: yaml=%v code=%v", fromYAML.Explorer.RefreshDelay.Duration, fromCode.Explorer.RefreshDelay.Duration)
	}
	if !reflect.DeepEqual(fromYAML.Kubectl, fromCode.Kubectl) {
		t.Fatalf("kubectl mismatch: yaml=%+v code=%+v", fromYAML.Kubectl, fromCode.Kubectl)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile missing: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults for missing file, got %+v", cfg)
	}

	p := filepath.Join(dir, "config.yaml")
	data := []byte("viewer:\n  theme: Monokai\nexplorer:\n  namespace: apps\n  refreshDelay: 0s\nkubectl:\n  pathOverrides:\n    windows: C:/bin/kubectl.exe\n")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Viewer.Theme != "monokai" {
		t.Errorf("theme = %q, want monokai", cfg.Viewer.Theme)
	}
	if cfg.Explorer.Namespace != "apps" {
		t.Errorf("namespace = %q, want apps", cfg.Explorer.Namespace)
	}
	if cfg.Explorer.RefreshDelay.Duration != 50*time.Millisecond {
		t.Errorf("refreshDelay = %v, want default", cfg.Explorer.RefreshDelay.Duration)
	}
	if got := cfg.ToolPath("windows", "kubectl"); got != "C:/bin/kubectl.exe" {
		t.Errorf("ToolPath(windows) = %q", got)
	}
	if got := cfg.ToolPath("linux", "kubectl"); got != "" {
		t.Errorf("ToolPath(linux) = %q, want empty", got)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Viewer.Theme = "GitHub"
	cfg.SetActiveKubeconfig("/k/one")
	cfg.SetActiveKubeconfig("/k/two")
	cfg.AddKnownKubeconfig("/k/one")
	if err := SaveFile(p, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Viewer.Theme != "github" {
		t.Errorf("theme = %q, want github", got.Viewer.Theme)
	}
	if got.Explorer.Kubeconfig != "/k/two" {
		t.Errorf("kubeconfig = %q, want /k/two", got.Explorer.Kubeconfig)
	}
	if !reflect.DeepEqual(got.Explorer.KnownKubeconfigs, []string{"/k/one", "/k/two"}) {
		t.Errorf("known kubeconfigs = %v", got.Explorer.KnownKubeconfigs)
	}
}
