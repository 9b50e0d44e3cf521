package config

import (
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	GitLab      GitLabConfig      `mapstructure:"gitlab" yaml:"gitlab"`
	Git         GitConfig         `mapstructure:"git" yaml:"git"`
	Artifactory ArtifactoryConfig `mapstructure:"artifactory" yaml:"artifactory"`
	HTTP        HTTPConfig        `mapstructure:"http" yaml:"http"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// GitLabConfig contains settings for the GitLab content backend
type GitLabConfig struct {
	APIBase string `mapstructure:"api_base" yaml:"api_base"` // full base incl. /api/v4, used verbatim
	Host    string `mapstructure:"host" yaml:"host"`         // bare host or URL, /api/v4 appended
	Token   string `mapstructure:"token" yaml:"token"`
}

// GitConfig contains settings for the clone backend
type GitConfig struct {
	Binary string `mapstructure:"binary" yaml:"binary"`
	Host   string `mapstructure:"host" yaml:"host"`
	User   string `mapstructure:"user" yaml:"user"`
	Proto  string `mapstructure:"proto" yaml:"proto"` // "ssh", "https" or "http"
}

// ArtifactoryConfig contains settings for the artifact-repository backend
type ArtifactoryConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Token   string `mapstructure:"token" yaml:"token"`
}

// HTTPConfig contains transport settings shared by the HTTP backends
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// APIBase resolves the GitLab API base with the documented precedence:
// full override verbatim, bare host with https and /api/v4 appended,
// then the public default.
func (c *GitLabConfig) APIBaseURL() string {
	if c.APIBase != "" {
		return strings.TrimRight(c.APIBase, "/")
	}

	host := strings.TrimRight(strings.TrimSpace(c.Host), "/")
	if host != "" {
		if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
			return host + "/api/v4"
		}
		return "https://" + host + "/api/v4"
	}

	return DefaultGitLabAPIBase
}

// Validate validates the configuration and applies fallbacks for
// invalid values
func (c *Config) Validate() error {
	if c.HTTP.Timeout < time.Second {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.HTTP.MaxRetries < 0 {
		c.HTTP.MaxRetries = DefaultMaxRetries
	}
	if c.Git.Host == "" {
		c.Git.Host = DefaultGitHost
	}
	if c.Git.User == "" {
		c.Git.User = DefaultGitUser
	}
	switch c.Git.Proto {
	case "ssh", "https", "http":
	default:
		c.Git.Proto = DefaultGitProto
	}
	return nil
}
