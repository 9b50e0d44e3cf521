package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// GitLab defaults
	DefaultGitLabAPIBase = "https://gitlab.com/api/v4"

	// Shorthand normalization defaults
	DefaultGitHost  = "gitlab.com"
	DefaultGitUser  = "git"
	DefaultGitProto = "ssh"

	// HTTP defaults
	DefaultHTTPTimeout = 60 * time.Second
	DefaultMaxRetries  = 3

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".artifetch"
	}
	return filepath.Join(home, ".artifetch")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		GitLab: GitLabConfig{},
		Git: GitConfig{
			Host:  DefaultGitHost,
			User:  DefaultGitUser,
			Proto: DefaultGitProto,
		},
		HTTP: HTTPConfig{
			Timeout:    DefaultHTTPTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
