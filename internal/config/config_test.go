package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"payloadvault/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantPayloads := filepath.Join(tempHome, ".local", "share", "payloadvault", "payloads")
	if cfg.Paths.PayloadsDir != wantPayloads {
		t.Fatalf("unexpected payloads dir: got %q want %q", cfg.Paths.PayloadsDir, wantPayloads)
	}
	if cfg.DraftsDir() != filepath.Join(wantPayloads, "drafts") {
		t.Fatalf("unexpected drafts dir: %q", cfg.DraftsDir())
	}
	if cfg.Paths.APIBind != "127.0.0.1:7861" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Capture.IncludeBase64Images {
		t.Fatal("expected base64 images disabled by default")
	}
	if cfg.Capture.DedupWindowSeconds != 2 {
		t.Fatalf("unexpected dedup window: %d", cfg.Capture.DedupWindowSeconds)
	}
	if !cfg.Capture.WriteLatest || !cfg.Capture.WriteSkeletons {
		t.Fatal("expected snapshot files enabled by default")
	}
	if cfg.Organize.DedupeOnStartup {
		t.Fatal("expected startup dedupe disabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
payloads_dir = "` + filepath.Join(dir, "payloads") + `"

[capture]
include_base64_images = true
dedup_window_seconds = 5

[organize]
dedupe_on_startup = true

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be found, got %q exists=%v", path, resolved, exists)
	}
	if !cfg.Capture.IncludeBase64Images {
		t.Fatal("expected base64 images enabled")
	}
	if cfg.Capture.DedupWindowSeconds != 5 {
		t.Fatalf("unexpected dedup window: %d", cfg.Capture.DedupWindowSeconds)
	}
	if !cfg.Organize.DedupeOnStartup {
		t.Fatal("expected startup dedupe enabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging values, got %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadRejectsBadLoggingFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported log format")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.PayloadsDir = filepath.Join(dir, "payloads")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.History.Path = filepath.Join(dir, "state", "history.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, want := range []string{
		cfg.Paths.PayloadsDir,
		filepath.Join(cfg.Paths.PayloadsDir, "drafts"),
		cfg.Paths.LogDir,
		filepath.Join(dir, "state"),
	} {
		info, err := os.Stat(want)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", want, err)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to parse, exists=%v err=%v", exists, err)
	}
}
