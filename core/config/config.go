package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"site-sync/core/database"
	"site-sync/core/logger"
	"site-sync/core/reconcile"
	"site-sync/core/server"
	"site-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the optional settings file looked up next to the .env file.
const FileName = "site-sync"

// Config is the receiver's full configuration, one section per package.
type Config struct {
	// Server holds the HTTP listener and the shared sync key.
	Server server.Config `mapstructure:"server"`
	// Storage holds the media bucket (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds the logger level and encoding.
	Log logger.Config `mapstructure:"log"`
	// Database holds the content store connection.
	Database database.Config `mapstructure:"database"`
	// Sync holds the receiving site's reconciliation settings.
	Sync reconcile.Config `mapstructure:"sync"`
}

// LoadConfig resolves configuration in increasing precedence: struct tag
// defaults, an optional site-sync.{yaml,json,toml} file in dir, the .env file
// in dir and finally the process environment.
func LoadConfig(dir string) (*Config, error) {
	// 1. Environment file, ignored when absent
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	setDefaults(v, reflect.TypeOf(Config{}), "")

	// 2. Settings file, also optional
	v.SetConfigName(FileName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings file: %w", err)
		}
	}

	// 3. SYNC_SITE_URL overrides sync.site_url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the receiver cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be mysql or sqlite, got %q", c.Database.Driver))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.Sync.ContentThreshold < 0 || c.Sync.ContentThreshold > 100 {
		errs = append(errs, fmt.Errorf("sync.content_threshold must be within 0..100, got %d", c.Sync.ContentThreshold))
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setDefaults walks t and registers every mapstructure key with its default
// tag. Registering empty defaults too lets AutomaticEnv see every key.
func setDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := range t.NumField() {
		field := t.Field(i)
		name := field.Tag.Get("mapstructure")
		if name == "" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct {
			setDefaults(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
