// Package config provides XML-based configuration management for the play
// drawer server.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendDuckDB = "duckdb"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"PlayDrawer"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Field grid
	Field FieldConfig `xml:"Field"`

	// Route drawing
	Rendering RenderingConfig `xml:"Rendering"`

	// Editor sessions
	Sessions SessionsConfig `xml:"Sessions"`

	// Security configuration
	Security SecurityConfig `xml:"Security"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains play storage settings
type StorageConfig struct {
	DataDirectory     string `xml:"DataDirectory"`
	PlaysDirectory    string `xml:"PlaysDirectory"`
	Backend           string `xml:"Backend"`
	DuckDBPath        string `xml:"DuckDBPath"`
	DuckDBThreads     int    `xml:"DuckDBThreads"`
	DuckDBMemoryLimit string `xml:"DuckDBMemoryLimit"`
}

// FieldConfig sizes the spot grid of new sessions
type FieldConfig struct {
	SpotsPerRow int     `xml:"SpotsPerRow"`
	FieldWidth  float64 `xml:"FieldWidthPixels"`
	FieldHeight float64 `xml:"FieldHeightPixels"`
	YardsWide   float64 `xml:"YardsWide"`
}

// RenderingConfig controls how routes are stroked
type RenderingConfig struct {
	StrokeWidth float64 `xml:"StrokeWidth"`
	StrokeColor string  `xml:"StrokeColor"`
	PresetsFile string  `xml:"PresetsFile"`
}

// SessionsConfig controls editor session lifetime
type SessionsConfig struct {
	SessionTimeoutMinutes  int `xml:"SessionTimeoutMinutes"`
	CleanupIntervalMinutes int `xml:"CleanupIntervalMinutes"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	AllowPlayDeletion bool `xml:"AllowPlayDeletion"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel                string `xml:"LogLevel"`
	EnableRequestLogging    bool   `xml:"EnableRequestLogging"`
	WebSocketMaxMessageSize int    `xml:"WebSocketMaxMessageSizeKB"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "2M",
		},
		Storage: StorageConfig{
			DataDirectory:     "./data",
			PlaysDirectory:    "./data/plays",
			Backend:           BackendJSON,
			DuckDBPath:        "./data/plays.duckdb",
			DuckDBThreads:     2,
			DuckDBMemoryLimit: "256MB",
		},
		Field: FieldConfig{
			SpotsPerRow: 11,
			FieldWidth:  1100,
			FieldHeight: 700,
			YardsWide:   160.0 / 3.0,
		},
		Rendering: RenderingConfig{
			StrokeWidth: 6,
			StrokeColor: "#0074e8",
			PresetsFile: "",
		},
		Sessions: SessionsConfig{
			SessionTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
		},
		Security: SecurityConfig{
			AllowPlayDeletion: true,
		},
		Advanced: AdvancedConfig{
			LogLevel:                "info",
			EnableRequestLogging:    true,
			WebSocketMaxMessageSize: 64,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return config.finish(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Sections missing from the file keep their defaults.
	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config.finish(configPath)
}

func (c *AppConfig) finish(configPath string) (*AppConfig, error) {
	// Apply environment variable overrides
	c.applyEnvironmentOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Resolve relative paths
	c.resolvePaths(filepath.Dir(configPath))

	return c, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Play Drawer Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the server cannot start with.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendDuckDB:
	default:
		return fmt.Errorf("invalid storage backend %q (want %q or %q)", c.Storage.Backend, BackendJSON, BackendDuckDB)
	}
	if c.Field.SpotsPerRow <= 0 {
		return fmt.Errorf("invalid SpotsPerRow %d", c.Field.SpotsPerRow)
	}
	if c.Field.FieldWidth <= 0 || c.Field.FieldHeight <= 0 {
		return fmt.Errorf("invalid field size %gx%g", c.Field.FieldWidth, c.Field.FieldHeight)
	}
	if c.Rendering.StrokeWidth < 0 {
		return fmt.Errorf("invalid StrokeWidth %g", c.Rendering.StrokeWidth)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	// DATA_DIR override moves every storage path that lives under it
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.PlaysDirectory = filepath.Join(dataDir, "plays")
		c.Storage.DuckDBPath = filepath.Join(dataDir, "plays.duckdb")
	}

	// PLAY_STORE selects the backend
	if backend := os.Getenv("PLAY_STORE"); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	for _, p := range []*string{
		&c.Storage.DataDirectory,
		&c.Storage.PlaysDirectory,
		&c.Storage.DuckDBPath,
		&c.Rendering.PresetsFile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// SessionTimeout is how long an idle editor session survives.
func (c *AppConfig) SessionTimeout() time.Duration {
	return time.Duration(c.Sessions.SessionTimeoutMinutes) * time.Minute
}

// CleanupInterval is how often idle sessions are swept.
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Sessions.CleanupIntervalMinutes) * time.Minute
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.PlaysDirectory,
	}
	if c.Storage.Backend == BackendDuckDB {
		dirs = append(dirs, filepath.Dir(c.Storage.DuckDBPath))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
