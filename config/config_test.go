package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskrt.toml")
	body := `
min_stack_size = 131072
task_heap_start = 32768
gc_budget = 1048576
log_level = "debug"
debug_origins = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MinStackSize != 131072 {
		t.Fatalf("MinStackSize = %d", cfg.MinStackSize)
	}
	if cfg.TaskHeapStart != 32768 {
		t.Fatalf("TaskHeapStart = %d", cfg.TaskHeapStart)
	}
	if cfg.GCBudget != 1048576 {
		t.Fatalf("GCBudget = %d", cfg.GCBudget)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.DebugOrigins {
		t.Fatal("DebugOrigins not set")
	}
	// Untouched fields keep defaults.
	if cfg.ExchangeHeapStart != Default().ExchangeHeapStart {
		t.Fatal("default not preserved")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TASKRT_MIN_STACK", "262144")
	t.Setenv("TASKRT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MinStackSize != 262144 {
		t.Fatalf("MinStackSize = %d", cfg.MinStackSize)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny stack", func(c *Config) { c.MinStackSize = 16 }},
		{"heap cap below start", func(c *Config) { c.TaskHeapCap = 1; c.TaskHeapStart = 2 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	os.WriteFile(path, []byte("min_stack_size = ["), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}
