// Package config loads the immutable service configuration. Configuration is
// environment-first: every recognized variable can come from the process
// environment or an optional .env file, with an optional YAML overlay for
// server tuning. The loaded Config is constructed once at startup and passed
// to every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/review-relay/internal/logger"
)

// Default values.
const (
	DefaultPort          = 8090
	DefaultReadTimeout   = 10 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultReviewLabel   = "content-review"
	DefaultGitHubAPIURL  = "https://api.github.com"
	DefaultTwitterAPIURL = "https://api.twitter.com"
	DefaultTwitterHandle = "ResponsibleAI"
)

// Config is the root service configuration.
type Config struct {
	Debug   bool          `env:"APP_DEBUG" yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Logging logger.Config `yaml:"logging"`
	GitHub  GitHubConfig  `yaml:"github"`
	Twitter TwitterConfig `yaml:"twitter"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"PORT" yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GitHubConfig holds the GitHub repository and credentials. The referenced
// repository's issues are the system of record for review entries.
type GitHubConfig struct {
	Token       string `env:"GITHUB_TOKEN" yaml:"-"`
	RepoOwner   string `env:"GITHUB_REPO_OWNER" yaml:"repo_owner"`
	RepoName    string `env:"GITHUB_REPO_NAME" yaml:"repo_name"`
	ReviewLabel string `env:"REVIEW_LABEL" yaml:"review_label"`
	BaseURL     string `env:"GITHUB_API_URL" yaml:"base_url"`
}

// Configured reports whether all required GitHub settings are present.
func (c *GitHubConfig) Configured() bool {
	return c.Token != "" && c.RepoOwner != "" && c.RepoName != ""
}

// Missing returns a comma-separated list of absent required variables.
func (c *GitHubConfig) Missing() string {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.RepoOwner == "" {
		missing = append(missing, "GITHUB_REPO_OWNER")
	}
	if c.RepoName == "" {
		missing = append(missing, "GITHUB_REPO_NAME")
	}
	return strings.Join(missing, ", ")
}

// TwitterConfig holds Twitter/X API credentials. Three auth modes are
// supported and tried in order: OAuth 2.0 user-context access token, app-only
// bearer token, OAuth 1.0a request signing.
type TwitterConfig struct {
	UserAccessToken string `env:"TWITTER_USER_ACCESS_TOKEN" yaml:"-"`
	BearerToken     string `env:"TWITTER_BEARER_TOKEN" yaml:"-"`
	APIKey          string `env:"TWITTER_API_KEY" yaml:"-"`
	APISecret       string `env:"TWITTER_API_SECRET" yaml:"-"`
	AccessToken     string `env:"TWITTER_ACCESS_TOKEN" yaml:"-"`
	AccessSecret    string `env:"TWITTER_ACCESS_SECRET" yaml:"-"`
	ClientID        string `env:"TWITTER_CLIENT_ID" yaml:"-"`
	Handle          string `env:"TWITTER_HANDLE" yaml:"handle"`
	BaseURL         string `env:"TWITTER_API_URL" yaml:"base_url"`
}

// HasUserToken reports whether the OAuth 2.0 user-context mode is configured.
func (c *TwitterConfig) HasUserToken() bool {
	return c.UserAccessToken != ""
}

// HasBearer reports whether the app-only bearer mode is configured.
func (c *TwitterConfig) HasBearer() bool {
	return c.BearerToken != ""
}

// HasOAuth1 reports whether the OAuth 1.0a signing mode is configured.
func (c *TwitterConfig) HasOAuth1() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// Configured reports whether at least one posting auth mode is available.
func (c *TwitterConfig) Configured() bool {
	return c.HasUserToken() || c.HasBearer() || c.HasOAuth1()
}

// Load builds the configuration. A .env file in the working directory is
// loaded if present, then the optional YAML overlay at path (skipped when
// empty or missing), then environment variables, which always win. Missing
// credentials are not an error here: endpoints degrade per-request instead of
// preventing startup.
func Load(path string) (*Config, error) {
	// Best effort: absence of a .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if yamlErr := yaml.Unmarshal(data, cfg); yamlErr != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, yamlErr)
			}
		case errors.Is(err, os.ErrNotExist):
			// Overlay is optional.
		default:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.GitHub.ReviewLabel == "" {
		c.GitHub.ReviewLabel = DefaultReviewLabel
	}
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = DefaultGitHubAPIURL
	}
	if c.Twitter.BaseURL == "" {
		c.Twitter.BaseURL = DefaultTwitterAPIURL
	}
	if c.Twitter.Handle == "" {
		c.Twitter.Handle = DefaultTwitterHandle
	}
	c.Logging.SetDefaults()
}

// Validate checks structural configuration. Credential completeness is
// deliberately not validated here.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.New("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("server.write_timeout must be positive")
	}
	return nil
}
