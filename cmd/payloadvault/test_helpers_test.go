package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	payloadsDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	payloadsDir := filepath.Join(base, "payloads")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\npayloads_dir = %q\nlog_dir = %q\napi_bind = \"\"\n\n[history]\nenabled = false\n",
		payloadsDir,
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:     base,
		configPath:  configPath,
		payloadsDir: payloadsDir,
	}
}

func (env *cliTestEnv) writePayload(t *testing.T, name string, data map[string]any) {
	t.Helper()
	if err := os.MkdirAll(env.payloadsDir, 0o755); err != nil {
		t.Fatalf("mkdir payloads: %v", err)
	}
	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.payloadsDir, name), encoded, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
