// Package config provides YAML-based configuration for the transmittal server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// AppConfig represents the root YAML configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Session  SessionConfig  `yaml:"session"`
	Advanced AdvancedConfig `yaml:"advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            int     `yaml:"port"`
	BindAddress     string  `yaml:"bind_address"`
	EnableCORS      bool    `yaml:"enable_cors"`
	AllowOrigins    string  `yaml:"allow_origins"`
	ReadTimeout     int     `yaml:"read_timeout_seconds"`
	WriteTimeout    int     `yaml:"write_timeout_seconds"`
	IdleTimeout     int     `yaml:"idle_timeout_seconds"`
	BodyLimit       string  `yaml:"body_limit"`
	UploadRateLimit float64 `yaml:"upload_rate_limit"` // uploads per second per client, 0 disables
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	DataDirectory     string `yaml:"data_directory"`
	UploadsDirectory  string `yaml:"uploads_directory"`
	AllowedExtensions string `yaml:"allowed_extensions"` // empty allows any
}

// SessionConfig contains workspace lifetime settings
type SessionConfig struct {
	MaxSessions            int `yaml:"max_sessions"`
	TimeoutMinutes         int `yaml:"timeout_minutes"`
	CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `yaml:"log_level"`
	EnableRequestLogging bool   `yaml:"enable_request_logging"`
	ActionLogThreads     int    `yaml:"action_log_threads"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            8089,
			BindAddress:     "127.0.0.1",
			EnableCORS:      true,
			AllowOrigins:    "*",
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     120,
			BodyLimit:       "50M",
			UploadRateLimit: 5,
		},
		Storage: StorageConfig{
			DataDirectory:     "./data",
			UploadsDirectory:  "./data/uploads",
			AllowedExtensions: "",
		},
		Session: SessionConfig{
			MaxSessions:            50,
			TimeoutMinutes:         30,
			CleanupIntervalMinutes: 5,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
			ActionLogThreads:     1,
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults
// there first if it does not exist. A .env file next to the config, if any,
// is loaded into the environment before overrides are applied.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	configDir := filepath.Dir(configPath)
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(configDir)

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# NACHA Transmittal Generator configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.UploadsDirectory) {
		c.Storage.UploadsDirectory = filepath.Join(configDir, c.Storage.UploadsDirectory)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetBodyLimitBytes returns server.body_limit in bytes, using the same
// size notation as echo's BodyLimit middleware ("50M", "2MB", "512K").
func (c *AppConfig) GetBodyLimitBytes() (int64, error) {
	n, err := bytes.Parse(c.Server.BodyLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid body_limit %q: %w", c.Server.BodyLimit, err)
	}
	return n, nil
}

// GetAllowedExtensions returns the lower-cased upload extensions, or nil for any.
func (c *AppConfig) GetAllowedExtensions() []string {
	var exts []string
	for _, ext := range strings.Split(c.Storage.AllowedExtensions, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	for _, dir := range []string{c.Storage.DataDirectory, c.Storage.UploadsDirectory} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
