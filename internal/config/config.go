// Package config holds the clauditor configuration, loaded via viper from
// a config file, CLAUDITOR_-prefixed environment variables, and the
// pipeline's own GITHUB_* environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Iron-Ham/clauditor/internal/audit"
	"github.com/Iron-Ham/clauditor/internal/report"
	"github.com/spf13/viper"
)

// Config represents the complete clauditor configuration
type Config struct {
	Records  RecordsConfig  `mapstructure:"records"`
	Artifact ArtifactConfig `mapstructure:"artifact"`
	Issues   IssuesConfig   `mapstructure:"issues"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RecordsConfig controls where partial-result records are read from
type RecordsConfig struct {
	// Dir is the base directory holding the single-agent record slots
	Dir string `mapstructure:"dir"`
	// BundlesDir is the directory scanned for per-agent result bundles
	BundlesDir string `mapstructure:"bundles_dir"`
}

// ArtifactConfig controls where produced artifacts are written
type ArtifactConfig struct {
	// Dir is the directory for the report and result artifacts
	Dir string `mapstructure:"dir"`
}

// IssuesConfig controls the failure-issue notification defaults
type IssuesConfig struct {
	// DefaultLabel is the dedup label used when an agent configures none
	DefaultLabel string `mapstructure:"default_label"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is the minimum log level (DEBUG, INFO, WARN, ERROR)
	Level string `mapstructure:"level"`
	// Dir is an optional directory for the log file; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Records: RecordsConfig{
			Dir:        filepath.Join(os.TempDir(), "clauditor"),
			BundlesDir: "",
		},
		Artifact: ArtifactConfig{
			Dir: ".",
		},
		Issues: IssuesConfig{
			DefaultLabel: "agent-audit",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// SetDefaults registers the built-in defaults with viper so they apply
// even without a config file
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("records.dir", defaults.Records.Dir)
	viper.SetDefault("records.bundles_dir", defaults.Records.BundlesDir)

	viper.SetDefault("artifact.dir", defaults.Artifact.Dir)

	viper.SetDefault("issues.default_label", defaults.Issues.DefaultLabel)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load unmarshals the current viper state into a Config
func Load() (*Config, error) {
	cfg := new(Config)
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the current configuration, falling back to defaults if
// unmarshaling fails
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "clauditor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clauditor"
	}
	return filepath.Join(home, ".config", "clauditor")
}

// RunContext materializes the pipeline run attributes from the GITHUB_*
// environment into an explicit value. Tests construct report.RunContext
// directly instead of faking the environment.
func RunContext() report.RunContext {
	runNumber, _ := strconv.Atoi(os.Getenv("GITHUB_RUN_NUMBER"))
	return report.RunContext{
		Repository: os.Getenv("GITHUB_REPOSITORY"),
		ServerURL:  os.Getenv("GITHUB_SERVER_URL"),
		RunID:      os.Getenv("GITHUB_RUN_ID"),
		RunNumber:  runNumber,
		Actor:      os.Getenv("GITHUB_ACTOR"),
		EventName:  os.Getenv("GITHUB_EVENT_NAME"),
		Timestamp:  time.Now().UTC(),
	}
}

// JobStatuses assembles the per-job status strings from flag values,
// falling back to the corresponding environment variables set by the
// pipeline dispatcher.
func JobStatuses(agent, outputs, collect string, rateLimited bool) audit.JobStatuses {
	return audit.JobStatuses{
		Agent:          fallbackEnv(agent, "CLAUDITOR_AGENT_RESULT"),
		ExecuteOutputs: fallbackEnv(outputs, "CLAUDITOR_OUTPUTS_RESULT"),
		CollectContext: fallbackEnv(collect, "CLAUDITOR_CONTEXT_RESULT"),
		RateLimited:    rateLimited || os.Getenv("CLAUDITOR_RATE_LIMITED") == "true",
	}
}

func fallbackEnv(value, env string) string {
	if value != "" {
		return value
	}
	return os.Getenv(env)
}
