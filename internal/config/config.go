package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	FileName        = "docprobe.config.json"
	EnvPrefix       = "DOCPROBE"
	DefaultURL      = "mongodb://localhost:27017"
	DefaultDatabase = "userdetail"
)

type Config struct {
	Version     string      `json:"version" mapstructure:"version"`
	Database    Database    `json:"database" mapstructure:"database"`
	Collections Collections `json:"collections" mapstructure:"collections"`
	Legacy      Legacy      `json:"legacy" mapstructure:"legacy"`
	DataDir     string      `json:"data_dir" mapstructure:"data_dir"`
	ExportPath  string      `json:"export_path" mapstructure:"export_path"`
	Studio      Studio      `json:"studio" mapstructure:"studio"`
}

type Database struct {
	URLEnv       string        `json:"url_env" mapstructure:"url_env"`
	URL          string        `json:"url,omitempty" mapstructure:"url"`
	Name         string        `json:"name" mapstructure:"name"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
	ProbeTimeout time.Duration `json:"probe_timeout" mapstructure:"probe_timeout"`
}

// Collections names the collection registrations are meant to land in and
// the similarly-named one they must not land in.
type Collections struct {
	Primary string `json:"primary" mapstructure:"primary"`
	Shadow  string `json:"shadow" mapstructure:"shadow"`
}

// Legacy points at the collection registrations were written to before the
// move to the primary collection.
type Legacy struct {
	Database   string `json:"database" mapstructure:"database"`
	Collection string `json:"collection" mapstructure:"collection"`
}

type Studio struct {
	Port int `json:"port" mapstructure:"port"`
}

var envKeys = []string{
	"database.url_env", "database.url", "database.name", "database.timeout", "database.probe_timeout",
	"collections.primary", "collections.shadow",
	"legacy.database", "legacy.collection",
	"data_dir", "export_path", "studio.port",
}

// BindEnv makes every config key overridable by DOCPROBE_<KEY> even when no
// config file sets it.
func BindEnv() error {
	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "MONGODB_URL"
	}
	if c.Database.Name == "" {
		c.Database.Name = DefaultDatabase
	}
	if c.Database.Timeout == 0 {
		c.Database.Timeout = 10 * time.Second
	}
	if c.Database.ProbeTimeout == 0 {
		c.Database.ProbeTimeout = 2 * time.Second
	}
	if c.Collections.Primary == "" {
		c.Collections.Primary = "userdetail"
	}
	if c.Collections.Shadow == "" {
		c.Collections.Shadow = "userdetails"
	}
	if c.Legacy.Database == "" {
		c.Legacy.Database = "crudDB"
	}
	if c.Legacy.Collection == "" {
		c.Legacy.Collection = "tasks"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.ExportPath == "" {
		c.ExportPath = "db/export"
	}
	if c.Studio.Port == 0 {
		c.Studio.Port = 5556
	}
}

// GetDatabaseURL resolves the connection string: the environment variable
// named by url_env wins, then the url key, then the local default.
func (c *Config) GetDatabaseURL() string {
	if dbURL := os.Getenv(c.Database.URLEnv); dbURL != "" {
		return dbURL
	}
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return DefaultURL
}

func (c *Config) Validate() error {
	if c.Database.Name == "" {
		return fmt.Errorf("database.name cannot be empty")
	}
	if c.Collections.Primary == "" || c.Collections.Shadow == "" {
		return fmt.Errorf("collections.primary and collections.shadow cannot be empty")
	}
	if c.Collections.Primary == c.Collections.Shadow {
		return fmt.Errorf("collections.primary and collections.shadow must differ, both are %q", c.Collections.Primary)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.Database.Timeout <= 0 {
		return fmt.Errorf("database.timeout must be positive")
	}
	if c.Database.ProbeTimeout <= 0 {
		return fmt.Errorf("database.probe_timeout must be positive")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.ExportPath} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
