package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	YouTube  YouTubeConfig  `toml:"youtube"`
}

// LibraryConfig contains music library configuration
type LibraryConfig struct {
	Folders []string `toml:"folders"`
}

// DatabaseConfig contains database-related configuration
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// YouTubeConfig contains YouTube channel-fetch configuration. The API key
// can also come from the YOUTUBE_API_KEY environment variable, which takes
// precedence over this file.
type YouTubeConfig struct {
	FetchLimit int    `toml:"fetch_limit"`
	APIKey     string `toml:"api_key"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			Folders: []string{},
		},
		Database: DatabaseConfig{
			Path: "./fonograf.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		YouTube: YouTubeConfig{
			FetchLimit: 100,
			APIKey:     "",
		},
	}
}

// LoadConfig loads configuration from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create it with defaults
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		fmt.Printf("Created default configuration file at: %s\n", configPath)
		return cfg, nil
	}

	// Load from file
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create or open file
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Write header comment
	header := `# Fonograf Media Library Configuration
# This file contains all configuration options for the fonograf library manager.
# Edit the values below to customize your library settings.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	// Encode configuration to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate database config
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	// Validate logging config
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	// Validate youtube config
	if c.YouTube.FetchLimit < 1 {
		return fmt.Errorf("youtube fetch limit must be at least 1")
	}

	return nil
}

// AddFolder appends a library folder unless it is already configured.
// Returns true if the folder was added.
func (c *Config) AddFolder(folder string) bool {
	for _, f := range c.Library.Folders {
		if f == folder {
			return false
		}
	}
	c.Library.Folders = append(c.Library.Folders, folder)
	return true
}

// RemoveFolder removes a library folder. Returns true if it was present.
func (c *Config) RemoveFolder(folder string) bool {
	for i, f := range c.Library.Folders {
		if f == folder {
			c.Library.Folders = append(c.Library.Folders[:i], c.Library.Folders[i+1:]...)
			return true
		}
	}
	return false
}

// APIKey returns the YouTube API key, preferring the environment over the
// config file.
func (c *Config) APIKey() string {
	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" {
		return key
	}
	return c.YouTube.APIKey
}
