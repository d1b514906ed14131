package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getlawrence/otelinject/internal/codegen/dependency/commander"
	"github.com/getlawrence/otelinject/internal/logger"
)

func TestOrchestrator(t *testing.T) {
	ctx := context.Background()

	t.Run("installs only what is missing", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"dependencies":{"@opentelemetry/api":"^1.9.0","ws":"^8.18.0"}}`), 0o644); err != nil {
			t.Fatal(err)
		}
		// api is declared and installed, ws is declared but absent from node_modules
		apiDir := filepath.Join(dir, "node_modules", "@opentelemetry", "api")
		if err := os.MkdirAll(apiDir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(apiDir, "package.json"), []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}

		mock := commander.NewMock()
		mock.Commands["npm"] = true
		log := &logger.Memory{}
		orch := New(mock, log)

		installed, err := orch.Run(ctx, dir, []string{"@opentelemetry/api@^1.9.0", "ws@^8.18.0", "@opentelemetry/core@^1.30.0", "ws@^8.18.0"}, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(installed) != 2 || installed[0].Name != "ws" || installed[1].Name != "@opentelemetry/core" {
			t.Fatalf("installed = %+v", installed)
		}
		calls := mock.Calls()
		if len(calls) != 1 || !strings.HasPrefix(calls[0].Line(), "npm install") {
			t.Fatalf("unexpected calls: %+v", calls)
		}
		if strings.Contains(calls[0].Line(), "@opentelemetry/api") {
			t.Errorf("installed dependency reinstalled: %s", calls[0].Line())
		}
		if !log.Contains("Installing ws@^8.18.0") {
			t.Errorf("missing install log: %v", log.Lines())
		}
	})

	t.Run("nothing missing", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}
		mock := commander.NewMock()
		installed, err := New(mock, nil).Run(ctx, dir, nil, false)
		if err != nil || installed != nil {
			t.Fatalf("Run = %v, %v", installed, err)
		}
		if len(mock.Calls()) != 0 {
			t.Errorf("unexpected calls: %+v", mock.Calls())
		}
	})

	t.Run("no manifest", func(t *testing.T) {
		if _, err := New(commander.NewMock(), nil).Run(ctx, t.TempDir(), []string{"ws"}, false); err == nil {
			t.Fatal("expected error without package.json")
		}
	})
}

func TestEnsureManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "instrumentations", "shop")
	if err := EnsureManifest(dir, "shop-instrumentation"); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"name": "shop-instrumentation"`) {
		t.Fatalf("unexpected manifest: %s", raw)
	}

	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"kept"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureManifest(dir, "other"); err != nil {
		t.Fatal(err)
	}
	raw, _ = os.ReadFile(filepath.Join(dir, "package.json"))
	if string(raw) != `{"name":"kept"}` {
		t.Fatalf("existing manifest overwritten: %s", raw)
	}
}
