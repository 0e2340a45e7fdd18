package appconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	yaml "sigs.k8s.io/yaml"
)

// Change lists the dotted keys (e.g. "explorer.namespace") that differ
// between two configurations.
type Change struct {
	Keys   []string
	Config *Config
}

// Affects reports whether any changed key lies within section.
func (c Change) Affects(section string) bool {
	for _, k := range c.Keys {
		if k == section || strings.HasPrefix(k, section+".") {
			return true
		}
	}
	return false
}

// AffectsExplorer reports whether the tree must be re-rendered.
func (c Change) AffectsExplorer() bool {
	return c.Affects("explorer") || c.Affects("kubectl")
}

// Diff computes the change from old to updated.
func Diff(old, updated *Config) Change {
	a, b := flatten(old), flatten(updated)
	keys := map[string]struct{}{}
	for k, v := range a {
		if !reflect.DeepEqual(v, b[k]) {
			keys[k] = struct{}{}
		}
	}
	for k, v := range b {
		if !reflect.DeepEqual(v, a[k]) {
			keys[k] = struct{}{}
		}
	}
	out := Change{Config: updated}
	for k := range keys {
		out.Keys = append(out.Keys, k)
	}
	sort.Strings(out.Keys)
	return out
}

func flatten(cfg *Config) map[string]any {
	out := map[string]any{}
	if cfg == nil {
		return out
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return out
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return out
	}
	for section, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			out[section] = v
			continue
		}
		for k, vv := range m {
			out[section+"."+k] = vv
		}
	}
	return out
}

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	log     logr.Logger
	watcher *fsnotify.Watcher
	current *Config
}

// NewWatcher watches the directory of path, so atomic replaces by editors are seen.
func NewWatcher(path string, log logr.Logger) (*Watcher, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: path, log: log, watcher: w, current: cfg}, nil
}

// Current returns the last loaded configuration.
func (w *Watcher) Current() *Config { return w.current }

// Run delivers changes to fn until ctx is done. Reloads that change nothing
// are not delivered. Run closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context, fn func(Change)) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error(err, "config watch")
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != filepath.Clean(w.path) {
				continue
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := LoadFile(w.path)
			if err != nil {
				w.log.Error(err, "reload config", "path", w.path)
				continue
			}
			change := Diff(w.current, cfg)
			w.current = cfg
			if len(change.Keys) == 0 {
				continue
			}
			w.log.V(1).Info("config changed", "keys", change.Keys)
			fn(change)
		}
	}
}
