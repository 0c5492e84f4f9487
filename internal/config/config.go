package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceDrive = "drive"
	SourceLocal = "local"
)

// Config represents the top-level loandash.yaml configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
}

// SourceConfig says where loan files come from.
type SourceConfig struct {
	Kind            string `yaml:"kind"`
	FolderID        string `yaml:"folder_id,omitempty"`
	Directory       string `yaml:"directory,omitempty"`
	Auth            string `yaml:"auth,omitempty"` // "service_account" or "oauth"
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	TokenFile       string `yaml:"token_file,omitempty"`
}

// DashboardConfig holds presentation defaults.
type DashboardConfig struct {
	Title         string `yaml:"title"`
	DefaultBranch string `yaml:"default_branch"`
	DefaultStatus string `yaml:"default_status"`
	FetchWorkers  int    `yaml:"fetch_workers"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Load reads a loandash.yaml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config that reads ./data with no filters applied.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:            SourceLocal,
			Directory:       "data",
			Auth:            "service_account",
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
		Dashboard: DashboardConfig{
			Title:         "Branchwise Loan Dashboard",
			DefaultBranch: "All",
			DefaultStatus: "All",
			FetchWorkers:  4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks that the source section is usable.
func (c *Config) Validate() error {
	var errs []error
	switch c.Source.Kind {
	case SourceLocal:
		if c.Source.Directory == "" {
			errs = append(errs, errors.New("source.directory is required for a local source"))
		}
	case SourceDrive:
		if c.Source.FolderID == "" {
			errs = append(errs, errors.New("source.folder_id is required for a drive source"))
		}
		if c.Source.CredentialsFile == "" {
			errs = append(errs, errors.New("source.credentials_file is required for a drive source"))
		}
		if c.Source.Auth != "service_account" && c.Source.Auth != "oauth" {
			errs = append(errs, fmt.Errorf("source.auth must be service_account or oauth, got %q", c.Source.Auth))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind must be %s or %s, got %q", SourceLocal, SourceDrive, c.Source.Kind))
	}
	if c.Dashboard.FetchWorkers < 1 {
		errs = append(errs, fmt.Errorf("dashboard.fetch_workers must be at least 1, got %d", c.Dashboard.FetchWorkers))
	}
	return errors.Join(errs...)
}
