package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration of the installation desk.
type Config struct {
	Name string `yaml:"name"`

	// Dossier store
	Store StoreConfig `yaml:"store"`

	// Generated artifacts
	Output OutputConfig `yaml:"output"`

	// Spreadsheet intake
	Intake IntakeConfig `yaml:"intake"`

	// SQLite mirror
	Mirror MirrorConfig `yaml:"mirror"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig locates the consolidated store document.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig configures the artifact renderer.
type OutputConfig struct {
	Root        string `yaml:"root"`          // Directory every relative output path is resolved against
	SiteBaseURL string `yaml:"site_base_url"` // Public URL the QR codes point to
	Theme       string `yaml:"theme"`         // Card palette name
	FontPath    string `yaml:"font_path"`     // Optional TTF for cards
	LogoPath    string `yaml:"logo_path"`     // Optional PNG stamped on PDF pages
	Workers     int    `yaml:"workers"`       // Parallel per-assignment renders
}

// IntakeConfig configures how spreadsheets become batches.
type IntakeConfig struct {
	DefaultTeam string `yaml:"default_team"`
	DateLayout  string `yaml:"date_layout"` // Go layout of date keys
}

// MirrorConfig configures the SQLite mirror.
type MirrorConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "ftthdesk",
		Store: StoreConfig{
			Path: "mg_telecom_db.json",
		},
		Output: OutputConfig{
			Root:        ".",
			SiteBaseURL: "https://Nylockdev.github.io/mg-ftth",
			Theme:       "NOIR & OR",
			LogoPath:    "logo.png",
			Workers:     4,
		},
		Intake: IntakeConfig{
			DefaultTeam: "WINAT",
			DateLayout:  "02-01-2006",
		},
		Mirror: MirrorConfig{
			Path: "mg_telecom_mirror.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the config file location inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".ftth", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FTTH_STORE"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("FTTH_SITE_URL"); v != "" {
		c.Output.SiteBaseURL = v
	}
	if v := os.Getenv("FTTH_THEME"); v != "" {
		c.Output.Theme = v
	}
	if v := os.Getenv("FTTH_DEFAULT_TEAM"); v != "" {
		c.Intake.DefaultTeam = v
	}
	if v := os.Getenv("FTTH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Output.Workers = n
		}
	}
}

// Resolve makes a configured path absolute against the workspace.
func Resolve(workspace, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be >= 1, got %d", c.Output.Workers)
	}
	if err := validateDateLayout(c.Intake.DateLayout); err != nil {
		return err
	}
	return nil
}

// validateDateLayout rejects layouts that lose the day, month or year: the
// date key must name a single calendar day.
func validateDateLayout(layout string) error {
	if layout == "" {
		return fmt.Errorf("intake.date_layout must not be empty")
	}
	probe := time.Date(2031, 11, 23, 0, 0, 0, 0, time.UTC)
	back, err := time.Parse(layout, probe.Format(layout))
	if err != nil || !back.Equal(probe) {
		return fmt.Errorf("intake.date_layout %q does not round-trip a calendar day", layout)
	}
	return nil
}
