package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestUnifiedAppliesEnvironmentOverrides(t *testing.T) {
	cfg := &Config{
		ServerPort:            "9090",
		SimulatedLatencyMS:    "0",
		LookupTimeoutMS:       "500",
		HistoryLimit:          "5",
		SessionIdleTTLMinutes: "2",
		MaxSessions:           "3",
		ExportDir:             "/tmp/out",
	}

	unified, err := cfg.Unified()
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}

	if unified.Service.Port != "9090" {
		t.Errorf("port = %q, want 9090", unified.Service.Port)
	}
	if unified.Lookup.SimulatedLatency != 0 {
		t.Errorf("latency = %v, want 0", unified.Lookup.SimulatedLatency)
	}
	if unified.Lookup.Timeout != 500*time.Millisecond {
		t.Errorf("timeout = %v, want 500ms", unified.Lookup.Timeout)
	}
	if unified.Session.HistoryLimit != 5 {
		t.Errorf("history limit = %d, want 5", unified.Session.HistoryLimit)
	}
	if unified.Session.IdleTTL != 2*time.Minute {
		t.Errorf("idle ttl = %v, want 2m", unified.Session.IdleTTL)
	}
	if unified.Session.MaxSessions != 3 {
		t.Errorf("max sessions = %d, want 3", unified.Session.MaxSessions)
	}
	if unified.Export.Directory != "/tmp/out" {
		t.Errorf("export dir = %q", unified.Export.Directory)
	}
}

func TestUnifiedIgnoresInvalidNumbers(t *testing.T) {
	cfg := &Config{HistoryLimit: "ten", SimulatedLatencyMS: "-5"}

	unified, err := cfg.Unified()
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if unified.Session.HistoryLimit != 10 {
		t.Errorf("history limit = %d, want default 10", unified.Session.HistoryLimit)
	}
	if unified.Lookup.SimulatedLatency != 2*time.Second {
		t.Errorf("latency = %v, want default 2s", unified.Lookup.SimulatedLatency)
	}
}

func TestUnifiedReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("lookup:\n  simulated_latency: 250ms\nsession:\n  history_limit: 4\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	unified, err := (&Config{ConfigFile: path}).Unified()
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if unified.Lookup.SimulatedLatency != 250*time.Millisecond {
		t.Errorf("latency = %v, want 250ms", unified.Lookup.SimulatedLatency)
	}
	if unified.Session.HistoryLimit != 4 {
		t.Errorf("history limit = %d, want 4", unified.Session.HistoryLimit)
	}
	if unified.Session.MaxSessions != 1000 {
		t.Errorf("max sessions = %d, want default 1000", unified.Session.MaxSessions)
	}
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("SHADOWTRACE_TEST_KEY", "value")
	if got := getEnv("SHADOWTRACE_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("getEnv = %q, want value", got)
	}
	if got := getEnv("SHADOWTRACE_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want fallback", got)
	}
}
