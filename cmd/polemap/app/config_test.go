package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/polemap/pkg/constants"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.MemoSize != constants.DefaultMemoSize {
		t.Errorf("MemoSize = %d, want %d", config.MemoSize, constants.DefaultMemoSize)
	}
	if config.BatchWorkers != constants.DefaultBatchWorkers {
		t.Errorf("BatchWorkers = %d, want %d", config.BatchWorkers, constants.DefaultBatchWorkers)
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("POLEMAP_VERBOSE", "true")
	t.Setenv("POLEMAP_FORMAT", "json")
	t.Setenv("POLEMAP_MEMO_SIZE", "128")
	t.Setenv("POLEMAP_BATCH_WORKERS", "9")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.Verbose {
		t.Error("POLEMAP_VERBOSE environment variable not loaded")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.MemoSize != 128 {
		t.Errorf("MemoSize = %d, want 128", config.MemoSize)
	}
	if config.BatchWorkers != 9 {
		t.Errorf("BatchWorkers = %d, want 9", config.BatchWorkers)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
}

// TestConfig_File verifies values from an explicit config file.
func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polemap.yaml")
	data := []byte("tables_file: /etc/polemap/tables.yaml\nbatch_workers: 7\nmemo_size: 0\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POLEMAP_CONFIG", path)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if config.TablesFile != "/etc/polemap/tables.yaml" {
		t.Errorf("TablesFile = %s", config.TablesFile)
	}
	if config.BatchWorkers != 7 {
		t.Errorf("BatchWorkers = %d, want 7", config.BatchWorkers)
	}
	if config.MemoSize != constants.DefaultMemoSize {
		t.Errorf("MemoSize = %d, non-positive values fall back to the default", config.MemoSize)
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Error("empty flags must not clear configured values")
	}
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}

	config.UpdateFromFlags(false, false, false, "json", "error")
	if config.Format != "json" || config.LogLevel != "error" {
		t.Errorf("flags not applied: format=%s level=%s", config.Format, config.LogLevel)
	}
}
