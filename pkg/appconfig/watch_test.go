package appconfig

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"

	kctesting "github.com/sttts/kexplorer/internal/testing"
)

func TestDiff(t *testing.T) {
	old := Default()
	updated := Default()
	updated.Explorer.Namespace = "apps"
	updated.Viewer.Theme = "monokai"

	change := Diff(old, updated)
	if !reflect.DeepEqual(change.Keys, []string{"explorer.namespace", "viewer.theme"}) {
		t.Fatalf("keys = %v", change.Keys)
	}
	if !change.AffectsExplorer() {
		t.Errorf("namespace change should affect the explorer")
	}

	themeOnly := Diff(old, &Config{Viewer: ViewerConfig{Theme: "monokai"}, Explorer: old.Explorer})
	if themeOnly.AffectsExplorer() {
		t.Errorf("theme change should not affect the explorer: %v", themeOnly.Keys)
	}
	if len(Diff(old, Default()).Keys) != 0 {
		t.Errorf("identical configs should not differ")
	}
}

func TestWatcherDeliversChanges(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := SaveFile(p, Default()); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(p, logr.Discard())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	var mu sync.Mutex
	var changes []Change
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(c Change) {
			mu.Lock()
			changes = append(changes, c)
			mu.Unlock()
		})
	}()

	cfg := Default()
	cfg.Explorer.Namespace = "kube-system"
	if err := os.WriteFile(p, mustMarshal(t, cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	kctesting.Eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range changes {
			if c.Affects("explorer.namespace") && c.Config.Explorer.Namespace == "kube-system" {
				return true
			}
		}
		return false
	}, "namespace change not delivered")

	cancel()
	<-done
}

func mustMarshal(t *testing.T, cfg *Config) []byte {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tmp.yaml")
	if err := SaveFile(p, cfg); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
