package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/sttts/kexplorer/internal/explorer"
	"github.com/sttts/kexplorer/internal/testlog"
	"github.com/sttts/kexplorer/pkg/appconfig"
	"github.com/sttts/kexplorer/pkg/kubeconfig"
	"github.com/sttts/kexplorer/pkg/kubectl"
	"github.com/sttts/kexplorer/pkg/kubectl/fake"
)

type contexts []kubeconfig.Context

func (c contexts) ListContexts(context.Context) ([]kubeconfig.Context, error) { return c, nil }

func testEnv(t *testing.T, r *fake.Runner) *env {
	log := testlog.Logger(t)
	return &env{
		log:     log,
		config:  appconfig.Default(),
		kubectl: r,
		explorer: explorer.New(explorer.Options{
			Kubectl:  r,
			Contexts: contexts{{Name: "dev"}, {Name: "prod", Active: true}},
			Log:      log,
		}),
	}
}

func TestTreePrinter(t *testing.T) {
	r := fake.New().On("get ns -o json", `{"kind":"List","items":[{"metadata":{"name":"default"}},{"metadata":{"name":"kube-system"}}]}`)
	e := testEnv(t, r)

	var buf bytes.Buffer
	p := &treePrinter{explorer: e.explorer, out: &buf, depth: 2}
	if err := p.Print(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"├── dev",
		"└── prod",
		"    ├── Namespaces",
		"    ├── Nodes",
		"    ├── Workloads",
		"    ├── Network",
		"    ├── Storage",
		"    ├── Configuration",
		"    └── Custom Resources",
	}
	got := strings.Split(strings.TrimSpace(ansi.Strip(buf.String())), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
	if len(r.Calls()) != 0 {
		t.Fatalf("depth 2 must not list resources, got %v", r.Calls())
	}
}

func TestTreePrinterTruncatesAndExpands(t *testing.T) {
	r := fake.New().On("get ns -o json", `{"kind":"List","items":[{"metadata":{"name":"a-very-long-namespace-name"}}]}`)
	e := testEnv(t, r)

	var buf bytes.Buffer
	p := &treePrinter{explorer: e.explorer, out: &buf, depth: 3, width: 20, noColor: true}
	if err := p.Print(context.Background()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[3] != "    │   └── a-very-…" {
		t.Fatalf("unexpected namespace line %q", lines[3])
	}
	for _, l := range lines {
		if ansi.StringWidth(l) > 20 {
			t.Fatalf("line %q exceeds width", l)
		}
	}
}

func TestShowTarget(t *testing.T) {
	r := fake.New().On("get pod/web-1 --namespace default -o yaml", "kind: Pod\n")
	e := testEnv(t, r)
	ctx := context.Background()

	got, err := showTarget(ctx, e, []byte(`{"nodeType":"resource","namespace":"default","resourceKind":{"manifestKind":"Pod","abbreviation":"pod"},"name":"web-1"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got != "kind: Pod\n" {
		t.Fatalf("unexpected output %q", got)
	}

	got, err = showTarget(ctx, e, []byte("nodeType: context\nname: prod\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "name: prod\nnodeType: context\n" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := showTarget(ctx, e, []byte("hello")); err == nil {
		t.Fatal("expected error for a foreign target")
	}

	_, err = showTarget(ctx, e, []byte(`{"nodeType":"resource","namespace":"default","kind":{"manifestKind":"Pod","abbreviation":"pod"},"name":"gone"}`))
	if !errors.Is(err, kubectl.ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
}

func TestHighlight(t *testing.T) {
	var plain, colored bytes.Buffer
	if err := highlight(&plain, "a: b\n", "dracula", true); err != nil {
		t.Fatal(err)
	}
	if plain.String() != "a: b\n" {
		t.Fatalf("unexpected plain output %q", plain.String())
	}
	if err := highlight(&colored, "a: b\n", "dracula", false); err != nil {
		t.Fatal(err)
	}
	if ansi.Strip(colored.String()) != "a: b\n" {
		t.Fatalf("highlighting changed the text: %q", ansi.Strip(colored.String()))
	}
}

func TestUseKubeconfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	kc := filepath.Join(dir, "kubeconfig")
	if err := os.WriteFile(kc, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCommand("test", "", "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "use-kubeconfig", kc})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	cfg, err := appconfig.LoadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Explorer.Kubeconfig != kc {
		t.Fatalf("expected active kubeconfig %q, got %q", kc, cfg.Explorer.Kubeconfig)
	}
	if diff := cmp.Diff([]string{kc}, cfg.Explorer.KnownKubeconfigs); diff != "" {
		t.Fatalf("known kubeconfigs (-want +got):\n%s", diff)
	}
}

func TestConfigChangeRepointsKubectl(t *testing.T) {
	e := testEnv(t, fake.New())
	runner := kubectl.NewExecRunner("", "", testlog.Logger(t))
	mgr := kubeconfig.NewManager("")
	e.opts = &globalOptions{namespace: "pinned"}
	e.kubectl = runner
	e.kubeconfig = mgr

	refreshes := 0
	e.explorer.OnDidChangeTreeData(func() { refreshes++ })

	kc := filepath.Join(t.TempDir(), "kubeconfig")
	updated := appconfig.Default()
	updated.Explorer.Kubeconfig = kc
	updated.Explorer.Namespace = "team-a"
	updated.Kubectl.Path = "/opt/bin/kubectl"
	e.onConfigChange(appconfig.Diff(appconfig.Default(), updated))

	if runner.Kubeconfig != kc || runner.Binary != "/opt/bin/kubectl" {
		t.Fatalf("runner not reconfigured: binary %q, kubeconfig %q", runner.Binary, runner.Kubeconfig)
	}
	if mgr.Path() != kc {
		t.Fatalf("expected kubeconfig manager on %q, got %q", kc, mgr.Path())
	}
	if got := e.explorer.Namespace(); got != "pinned" {
		t.Fatalf("the namespace flag must win over the config file, got %q", got)
	}
	if refreshes != 1 {
		t.Fatalf("expected one refresh, got %d", refreshes)
	}
}
