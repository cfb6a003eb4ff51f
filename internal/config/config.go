// Package config loads workmgmt settings from an optional YAML file and
// WORKMGMT_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ParseEnv.
const EnvPrefix = "WORKMGMT_"

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBlob     = "blob"
)

// ErrNilConfig is returned when a nil config is used.
var ErrNilConfig = errors.New("nil config")

// StorageConfig selects where the document record lives.
type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres or blob.
	Driver string `env:"DRIVER" yaml:"driver"`

	// RecordKey names the durable record.
	RecordKey string `env:"RECORD_KEY" yaml:"record_key"`

	// Autosave persists the document after every applied mutation.
	Autosave bool `env:"AUTOSAVE" yaml:"autosave"`
}

// SQLiteConfig is the sqlite driver configuration.
type SQLiteConfig struct {
	Path string `env:"PATH" yaml:"path"`
}

// PostgresConfig is the postgres driver configuration.
type PostgresConfig struct {
	DSN string `env:"DSN" yaml:"dsn"`
}

// S3Config configures the S3 blob driver.
type S3Config struct {
	Bucket          string `env:"BUCKET" yaml:"bucket"`
	Region          string `env:"REGION" yaml:"region"`
	Endpoint        string `env:"ENDPOINT" yaml:"endpoint"`
	PathStyle       bool   `env:"PATH_STYLE" yaml:"path_style"`
	AccessKeyID     string `env:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" yaml:"-"`
}

// BlobConfig is the blob driver configuration.
type BlobConfig struct {
	// Driver is one of fs, s3 or memory.
	Driver string `env:"DRIVER" yaml:"driver"`

	// FSRoot is the directory used by the fs driver.
	FSRoot string `env:"FS_ROOT" yaml:"fs_root"`

	S3 S3Config `envPrefix:"S3_" yaml:"s3"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `env:"LEVEL" yaml:"level"`

	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// Config is the workmgmt configuration.
type Config struct {
	Storage  StorageConfig  `envPrefix:"STORAGE_" yaml:"storage"`
	SQLite   SQLiteConfig   `envPrefix:"SQLITE_" yaml:"sqlite"`
	Postgres PostgresConfig `envPrefix:"POSTGRES_" yaml:"postgres"`
	Blob     BlobConfig     `envPrefix:"BLOB_" yaml:"blob"`
	Log      LogConfig      `envPrefix:"LOG_" yaml:"log"`

	// StrictNames turns the empty-name warning into a blocking rule.
	StrictNames bool `env:"STRICT_NAMES" yaml:"strict_names"`
}

// DefaultConfig returns the default Config.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:    DriverSQLite,
			RecordKey: "work-management-storage",
			Autosave:  true,
		},
		SQLite: SQLiteConfig{
			Path: "workmgmt.db",
		},
		Postgres: PostgresConfig{
			DSN: "postgres://localhost/workmgmt?sslmode=disable",
		},
		Blob: BlobConfig{
			Driver: "fs",
			FSRoot: "blobdata",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			TimeFormat: time.DateTime,
		},
	}
}

// ParseFile overlays the YAML file at path onto the config.
// This also calls Validate() on the config.
func (c *Config) ParseFile(path string) error {
	if c == nil {
		return ErrNilConfig
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() // nolint: errcheck

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return c.Validate()
}

// ParseEnv overlays WORKMGMT_ environment variables onto the config.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	if c == nil {
		return ErrNilConfig
	}
	if err := env.ParseWithOptions(c, env.Options{
		Prefix: EnvPrefix,
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}
	return c.Validate()
}

// Parse reads the file at path when it exists, then the environment.
func (c *Config) Parse(path string) error {
	if path != "" && exist(path) {
		if err := c.ParseFile(path); err != nil {
			return err
		}
	}
	return c.ParseEnv()
}

// WriteFile writes the config as YAML to path.
func (c *Config) WriteFile(path string) error {
	if c == nil {
		return ErrNilConfig
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate normalizes the config and reports invalid values.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = DriverSQLite
	case DriverMemory, DriverSQLite, DriverPostgres, DriverBlob:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.RecordKey) == "" {
		return errors.New("storage record key must not be empty")
	}

	c.Blob.Driver = strings.ToLower(strings.TrimSpace(c.Blob.Driver))
	switch c.Blob.Driver {
	case "":
		c.Blob.Driver = "fs"
	case "fs", "memory":
	case "s3":
		if c.Storage.Driver == DriverBlob && c.Blob.S3.Bucket == "" {
			return errors.New("blob s3 bucket required for s3 driver")
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	if c == nil {
		return nil
	}
	return []string{
		EnvPrefix + "STORAGE_DRIVER=" + c.Storage.Driver,
		EnvPrefix + "STORAGE_RECORD_KEY=" + c.Storage.RecordKey,
		EnvPrefix + "STORAGE_AUTOSAVE=" + strconv.FormatBool(c.Storage.Autosave),
		EnvPrefix + "SQLITE_PATH=" + c.SQLite.Path,
		EnvPrefix + "POSTGRES_DSN=" + c.Postgres.DSN,
		EnvPrefix + "BLOB_DRIVER=" + c.Blob.Driver,
		EnvPrefix + "BLOB_FS_ROOT=" + c.Blob.FSRoot,
		EnvPrefix + "BLOB_S3_BUCKET=" + c.Blob.S3.Bucket,
		EnvPrefix + "BLOB_S3_REGION=" + c.Blob.S3.Region,
		EnvPrefix + "BLOB_S3_ENDPOINT=" + c.Blob.S3.Endpoint,
		EnvPrefix + "BLOB_S3_PATH_STYLE=" + strconv.FormatBool(c.Blob.S3.PathStyle),
		EnvPrefix + "LOG_LEVEL=" + c.Log.Level,
		EnvPrefix + "LOG_FORMAT=" + c.Log.Format,
		EnvPrefix + "LOG_TIME_FORMAT=" + c.Log.TimeFormat,
		EnvPrefix + "LOG_PATH=" + c.Log.Path,
		EnvPrefix + "STRICT_NAMES=" + strconv.FormatBool(c.StrictNames),
	}
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
