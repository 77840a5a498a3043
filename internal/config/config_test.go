// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OllamaHost != "http://ollama:11434" {
		t.Errorf("OllamaHost = %q, want %q", cfg.OllamaHost, "http://ollama:11434")
	}
	if cfg.Model != "tinyllama:1.1b" {
		t.Errorf("Model = %q, want %q", cfg.Model, "tinyllama:1.1b")
	}
	if cfg.IntervalSeconds != 120 {
		t.Errorf("IntervalSeconds = %d, want 120", cfg.IntervalSeconds)
	}
	if len(cfg.Containers) != 1 || cfg.Containers[0] != "moodle-app" {
		t.Errorf("Containers = %v, want [moodle-app]", cfg.Containers)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "loginsights.yaml")
	content := []byte(`
ollama_host: "http://localhost:11434"
model: "phi3:mini"
model_fallbacks:
  - "tinyllama:1.1b"
containers:
  - "web"
  - "db"
interval_seconds: 60
analysis_timeout_seconds: 30
report_dir: /tmp/reports
`)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "phi3:mini" {
		t.Errorf("Model = %q, want %q", cfg.Model, "phi3:mini")
	}
	if len(cfg.Containers) != 2 {
		t.Fatalf("Containers count = %d, want 2", len(cfg.Containers))
	}
	if cfg.IntervalSeconds != 60 {
		t.Errorf("IntervalSeconds = %d, want 60", cfg.IntervalSeconds)
	}
	chain := cfg.ModelChain()
	if len(chain) != 2 || chain[0] != "phi3:mini" || chain[1] != "tinyllama:1.1b" {
		t.Errorf("ModelChain = %v, want [phi3:mini tinyllama:1.1b]", chain)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://127.0.0.1:11434")
	t.Setenv("MODEL", "m1")
	t.Setenv("MODEL_FALLBACKS", "m2, m3")
	t.Setenv("CONTAINER_NAMES", "app, worker ,")
	t.Setenv("INTERVAL", "60")
	t.Setenv("ANALYSIS_TIMEOUT", "30")
	t.Setenv("MAX_LOG_ENTRIES", "200")
	t.Setenv("REPORT_DIR", "/data/reports")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OllamaHost != "http://127.0.0.1:11434" {
		t.Errorf("OllamaHost = %q", cfg.OllamaHost)
	}
	chain := cfg.ModelChain()
	if len(chain) != 3 || chain[0] != "m1" || chain[1] != "m2" || chain[2] != "m3" {
		t.Errorf("ModelChain = %v, want [m1 m2 m3]", chain)
	}
	if len(cfg.Containers) != 2 || cfg.Containers[1] != "worker" {
		t.Errorf("Containers = %v, want [app worker]", cfg.Containers)
	}
	if cfg.Interval().Seconds() != 60 {
		t.Errorf("Interval = %v, want 60s", cfg.Interval())
	}
	if cfg.AnalysisTimeout().Seconds() != 30 {
		t.Errorf("AnalysisTimeout = %v, want 30s", cfg.AnalysisTimeout())
	}
	if cfg.MaxLogEntries != 200 {
		t.Errorf("MaxLogEntries = %d, want 200", cfg.MaxLogEntries)
	}
	if cfg.ReportDir != "/data/reports" {
		t.Errorf("ReportDir = %q, want /data/reports", cfg.ReportDir)
	}
}

func TestLoadRejectsEmptyTargets(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "loginsights.yaml")
	if err := os.WriteFile(configPath, []byte("containers: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for empty container list")
	}
}
