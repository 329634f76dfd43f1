package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bgricker/apismoke/internal/registry"
)

func TestListCommandBuiltin(t *testing.T) {
	workspace(t)

	stdout, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("command execute: %v", err)
	}
	if !strings.HasPrefix(stdout, "Planos\n   • Listar Planos (POST /monitora/listar_planos)\n") {
		t.Fatalf("unexpected listing start: %q", stdout)
	}
	if !strings.Contains(stdout, "26 endpoints, 17 runnable, 9 skipped") {
		t.Fatalf("expected built-in counts, got %q", stdout)
	}
}

func TestListCommandFilters(t *testing.T) {
	workspace(t)

	stdout, _, err := execute(t, "list", "--category", "Planos", "--exclude", "/^Listar/")
	if err != nil {
		t.Fatalf("command execute: %v", err)
	}
	if strings.Contains(stdout, "Listar Planos") || strings.Contains(stdout, "Busca") {
		t.Fatalf("filters not applied: %q", stdout)
	}
}

func TestListCommandConfigAndDiscovery(t *testing.T) {
	dir := workspace(t)
	if err := os.MkdirAll(filepath.Join(dir, ".apismoke", "endpoints"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir, ".apismoke", "endpoints", "planos.yml"), twoEndpoints)
	writeFile(t, filepath.Join(dir, ".apismoke.yml"), "user_id: \"77\"\nformat: json\n")

	stdout, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("command execute: %v", err)
	}

	var set registry.Set
	if err := json.Unmarshal([]byte(stdout), &set); err != nil {
		t.Fatalf("decode listing: %v\n%s", err, stdout)
	}
	if len(set.Endpoints) != 3 || set.Sources[0] != filepath.Join(".apismoke", "endpoints", "planos.yml") {
		t.Fatalf("unexpected set %+v", set)
	}
	if got := set.Endpoints[1].Body.GetByKey("idUser").StringValue(); got != "77" {
		t.Fatalf("expected user id from config, got %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("command execute: %v", err)
	}
	if !strings.HasPrefix(stdout, "apismoke ") {
		t.Fatalf("unexpected version output %q", stdout)
	}
}

func TestMockCommandStopsOnCancel(t *testing.T) {
	workspace(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"mock", "--listen", "127.0.0.1:0", "--prefix", "/api/v1.0"})
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "Mock API serving 26 endpoints") {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("mock server did not start: %q", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("mock command: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("mock command did not stop")
	}
	if !strings.Contains(out.String(), "/api/v1.0") || !strings.Contains(out.String(), "Accepting any bearer token") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestListCommandEmptyRegistryDirFallsBack(t *testing.T) {
	dir := workspace(t)
	if err := os.MkdirAll(filepath.Join(dir, registry.DefaultDir), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stdout, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("command execute: %v", err)
	}
	if !strings.Contains(stdout, "26 endpoints, 17 runnable, 9 skipped") {
		t.Fatalf("expected built-in registry, got %q", stdout)
	}
	if !strings.Contains(stdout, "warning: "+registry.DefaultDir+": no .yml or .yaml files") {
		t.Fatalf("expected empty dir warning, got %q", stdout)
	}
}

func TestListCommandRejectsNonYAMLRegistry(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "endpoints.json"), "{}")

	_, _, err := execute(t, "list", "--endpoints", "endpoints.json")
	if err == nil || !strings.Contains(err.Error(), ".yml or .yaml") {
		t.Fatalf("expected extension error, got %v", err)
	}
}
