package kubeconfig

import (
	"context"
	"path/filepath"
	"testing"

	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

func writeKubeconfig(t *testing.T) string {
	t.Helper()
	config := &api.Config{
		CurrentContext: "minikube",
		Contexts: map[string]*api.Context{
			"minikube": {Cluster: "minikube", AuthInfo: "minikube"},
			"prod":     {Cluster: "prod-eu", AuthInfo: "admin", Namespace: "apps"},
		},
		Clusters: map[string]*api.Cluster{
			"minikube": {Server: "https://192.168.49.2:8443"},
			"prod-eu":  {Server: "https://prod:6443"},
		},
		AuthInfos: map[string]*api.AuthInfo{
			"minikube": {Token: "a"},
			"admin":    {Token: "b"},
		},
	}
	path := filepath.Join(t.TempDir(), "config")
	if err := clientcmd.WriteToFile(*config, path); err != nil {
		t.Fatalf("write kubeconfig: %v", err)
	}
	return path
}

func TestListContexts(t *testing.T) {
	m := NewManager(writeKubeconfig(t))
	contexts, err := m.ListContexts(context.Background())
	if err != nil {
		t.Fatalf("ListContexts: %v", err)
	}
	if len(contexts) != 2 {
		t.Fatalf("expected 2 contexts, got %d", len(contexts))
	}
	if contexts[0].Name != "minikube" || !contexts[0].Active {
		t.Errorf("expected active minikube first, got %+v", contexts[0])
	}
	if contexts[0].Namespace != "default" {
		t.Errorf("Namespace = %v, want default", contexts[0].Namespace)
	}
	if contexts[1].Name != "prod" || contexts[1].Active {
		t.Errorf("expected inactive prod second, got %+v", contexts[1])
	}
	if contexts[1].Namespace != "apps" || contexts[1].Cluster != "prod-eu" || contexts[1].User != "admin" {
		t.Errorf("unexpected prod context %+v", contexts[1])
	}
}

func TestSetCurrentContext(t *testing.T) {
	m := NewManager(writeKubeconfig(t))
	if err := m.SetCurrentContext("prod"); err != nil {
		t.Fatalf("SetCurrentContext: %v", err)
	}
	ctx, err := m.GetContextByName("prod")
	if err != nil {
		t.Fatalf("GetContextByName: %v", err)
	}
	if !ctx.Active {
		t.Errorf("expected prod to be active after switch")
	}
	if err := m.SetCurrentContext("missing"); err == nil {
		t.Errorf("expected error for unknown context")
	}
}

func TestListContextsMissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"))
	if _, err := m.ListContexts(context.Background()); err == nil {
		t.Fatalf("expected error for missing explicit kubeconfig")
	}
}

func TestSetPath(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"))
	m.SetPath(writeKubeconfig(t))
	contexts, err := m.ListContexts(context.Background())
	if err != nil {
		t.Fatalf("ListContexts: %v", err)
	}
	if len(contexts) != 2 {
		t.Fatalf("expected 2 contexts from the new kubeconfig, got %d", len(contexts))
	}
}
