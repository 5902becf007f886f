// Package config loads nested-comments settings from file, environment and
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/store"
	"github.com/rytisguru/nested-comments/pkg/tree"
	"github.com/rytisguru/nested-comments/pkg/viewstate"
)

const (
	// EnvPrefix prefixes every environment override, e.g. NESTED_COMMENTS_POST.
	EnvPrefix = "NESTED_COMMENTS"
	// PathEnv names an extra directory searched for the config file.
	PathEnv = "NESTED_COMMENTS_CONFIG_PATH"
)

const fileName = ".nested-comments" // .yaml is implicit

var envReplacer = strings.NewReplacer(".", "_")

// Config is the resolved configuration.
type Config struct {
	Path           string
	Backend        string
	Post           string
	UserID         string
	UserName       string
	DeletePolicy   string
	ExclusiveForms bool
	LogLevel       string
	LogFormat      string
}

// Load reads the config file (if any) and environment into a Config.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith resolves the configuration using v. Callers may bind flags on v
// before calling.
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetDefault("path", "~/.nested-comments")
	v.SetDefault("backend", store.BackendDiskv)
	v.SetDefault("post", "default")
	v.SetDefault("user.id", "")
	v.SetDefault("user.name", "")
	v.SetDefault("delete_policy", tree.Cascade.String())
	v.SetDefault("exclusive_forms", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigName(fileName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if override := os.Getenv(PathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}
	cfg := &Config{
		Path:           path,
		Backend:        v.GetString("backend"),
		Post:           v.GetString("post"),
		UserID:         v.GetString("user.id"),
		UserName:       v.GetString("user.name"),
		DeletePolicy:   v.GetString("delete_policy"),
		ExclusiveForms: v.GetBool("exclusive_forms"),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case store.BackendDiskv, store.BackendSQLite, store.BackendMemory:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	switch c.DeletePolicy {
	case tree.Cascade.String(), tree.Reparent.String():
	default:
		return fmt.Errorf("config: unknown delete_policy %q", c.DeletePolicy)
	}
	return nil
}

// BasePath implements store.Config.
func (c *Config) BasePath() string { return c.Path }

// BackendName implements store.Config.
func (c *Config) BackendName() string { return c.Backend }

// CurrentUser implements identity.Provider. Without a configured id the
// current OS user is used.
func (c *Config) CurrentUser() comment.Author {
	id := c.UserID
	name := c.UserName
	if id == "" {
		id = os.Getenv("USER")
	}
	if name == "" {
		name = id
	}
	return comment.Author{ID: id, Name: name}
}

// TreeOptions returns the store options the config selects.
func (c *Config) TreeOptions() []tree.Option {
	return []tree.Option{tree.WithDeletePolicy(tree.ParseDeletePolicy(c.DeletePolicy))}
}

// ViewStateOptions returns the view-state options the config selects.
func (c *Config) ViewStateOptions() []viewstate.Option {
	if c.ExclusiveForms {
		return []viewstate.Option{viewstate.WithPolicy(viewstate.Exclusive)}
	}
	return nil
}
