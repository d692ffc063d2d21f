// Package config loads application configuration from the user's YAML
// config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"gopkg.in/yaml.v3"
)

// CreatedPRFilter selects which of the user's own PRs are shown, based on
// their derived review status.
type CreatedPRFilter string

const (
	FilterAll            CreatedPRFilter = "all"
	FilterWaiting        CreatedPRFilter = "waiting"
	FilterNeedsAttention CreatedPRFilter = "needs_attention"
	// FilterAny keeps waiting, approved, and changes-requested PRs and drops
	// commented ones. The original config format called this "either"; both
	// spellings are accepted.
	FilterAny CreatedPRFilter = "any"
)

// Config is the application configuration. It is loaded once at startup and
// read-only afterwards.
type Config struct {
	GitHubToken          string          `yaml:"github_token" json:"github_token"`
	GitHubUsername       string          `yaml:"github_username" json:"github_username"`
	ExcludedRepos        []string        `yaml:"excluded_repos" json:"excluded_repos"`
	ExcludedReviewTeams  []string        `yaml:"excluded_review_teams" json:"excluded_review_teams"`
	CreatedPRFilter      CreatedPRFilter `yaml:"created_pr_filter" json:"created_pr_filter"`
	ActivityLookbackDays int             `yaml:"activity_lookback_days" json:"activity_lookback_days"`
	RefreshInterval      int             `yaml:"refresh_interval" json:"refresh_interval"` // seconds
}

// RefreshPeriod returns the poll cadence as a duration.
func (c *Config) RefreshPeriod() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// Lookback returns the repo-activity recency window as a duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.ActivityLookbackDays) * 24 * time.Hour
}

// DefaultPath returns the fixed config file location under the user's
// config directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "reviewinator", "config.yaml"), nil
}

// Load reads, defaults, and validates the config file at path. Malformed
// values fail with an error naming the offending key; missing optional keys
// silently default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.CreatedPRFilter == "" || c.CreatedPRFilter == "either" {
		c.CreatedPRFilter = FilterAny
	}
	if c.ActivityLookbackDays == 0 {
		c.ActivityLookbackDays = 14
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = 300
	}
	if c.ExcludedRepos == nil {
		c.ExcludedRepos = []string{}
	}
	if c.ExcludedReviewTeams == nil {
		c.ExcludedReviewTeams = []string{}
	}
}

func (c *Config) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.GitHubToken,
			validation.Required.Error("is required")),
		validation.Field(&c.GitHubUsername,
			validation.Required.Error("is required")),
		validation.Field(&c.CreatedPRFilter,
			validation.In(FilterAll, FilterWaiting, FilterNeedsAttention, FilterAny).
				Error("must be one of: all, waiting, needs_attention, any")),
		validation.Field(&c.ActivityLookbackDays,
			validation.Min(1).Error("must be a positive number of days")),
		validation.Field(&c.RefreshInterval,
			validation.Min(1).Error("must be a positive number of seconds")),
	)
}
