package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	return load(viper.GetViper())
}

// LoadWith loads configuration into a dedicated viper instance.
// Useful for tests that must not touch global state.
func LoadWith(v *viper.Viper) (*Config, error) {
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (ARTIFETCH_*)
	v.SetEnvPrefix("ARTIFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Historical unprefixed names keep working alongside the
	// ARTIFETCH_-prefixed ones
	_ = v.BindEnv("gitlab.api_base", "ARTIFETCH_GITLAB_API_BASE")
	_ = v.BindEnv("gitlab.host", "ARTIFETCH_GIT_HOST")
	_ = v.BindEnv("gitlab.token", "ARTIFETCH_GITLAB_TOKEN", "GITLAB_TOKEN")
	_ = v.BindEnv("git.binary", "ARTIFETCH_GIT_BINARY", "GIT_BINARY")
	_ = v.BindEnv("git.host", "ARTIFETCH_GIT_HOST")
	_ = v.BindEnv("git.user", "ARTIFETCH_GIT_USER")
	_ = v.BindEnv("git.proto", "ARTIFETCH_GIT_PROTO")
	_ = v.BindEnv("artifactory.base_url", "ARTIFETCH_ARTIFACTORY_BASE_URL")
	_ = v.BindEnv("artifactory.token", "ARTIFETCH_ARTIFACTORY_TOKEN", "ARTIFACTORY_TOKEN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("gitlab.api_base", "")
	v.SetDefault("gitlab.host", "")
	v.SetDefault("gitlab.token", "")

	v.SetDefault("git.binary", "")
	v.SetDefault("git.host", DefaultGitHost)
	v.SetDefault("git.user", DefaultGitUser)
	v.SetDefault("git.proto", DefaultGitProto)

	v.SetDefault("artifactory.base_url", "")
	v.SetDefault("artifactory.token", "")

	v.SetDefault("http.timeout", DefaultHTTPTimeout)
	v.SetDefault("http.max_retries", DefaultMaxRetries)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
