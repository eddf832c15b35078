package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if cfg.YouTube.FetchLimit != 100 {
		t.Errorf("expected default fetch limit 100, got %d", cfg.YouTube.FetchLimit)
	}
	if len(cfg.Library.Folders) != 0 {
		t.Errorf("expected no default folders, got %v", cfg.Library.Folders)
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Path == "" {
		t.Error("expected default database path")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}

	// Loading again should read the file we just wrote.
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig second time: %v", err)
	}
	if again.Logging.Level != cfg.Logging.Level {
		t.Errorf("reloaded level %q != %q", again.Logging.Level, cfg.Logging.Level)
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.AddFolder("/music/a")
	cfg.AddFolder("/music/b")
	cfg.Logging.Format = "json"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(loaded.Library.Folders) != 2 || loaded.Library.Folders[0] != "/music/a" {
		t.Errorf("folders did not survive round trip: %v", loaded.Library.Folders)
	}
	if loaded.Logging.Format != "json" {
		t.Errorf("expected json format, got %q", loaded.Logging.Format)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"zero fetch limit", func(c *Config) { c.YouTube.FetchLimit = 0 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestAddRemoveFolder(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.AddFolder("/music") {
		t.Error("first add should succeed")
	}
	if cfg.AddFolder("/music") {
		t.Error("duplicate add should report false")
	}
	if len(cfg.Library.Folders) != 1 {
		t.Fatalf("expected 1 folder, got %d", len(cfg.Library.Folders))
	}

	if !cfg.RemoveFolder("/music") {
		t.Error("remove of existing folder should succeed")
	}
	if cfg.RemoveFolder("/music") {
		t.Error("remove of missing folder should report false")
	}
}
