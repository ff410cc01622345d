// Package config loads the program configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/config"
)

// DefaultPath is used when neither -config nor CONFIG_PATH is given.
const DefaultPath = "./config/fasting.yaml"

// Storage drivers. DriverMemory keeps nothing once the process exits.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config is the full program configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Notify  NotifyConfig  `yaml:"notify"`
	Watch   WatchConfig   `yaml:"watch"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	// FilePath is the store of the file driver. Empty means DefaultFilePath.
	FilePath      string `yaml:"file_path"`
	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	KeyPrefix     string `yaml:"key_prefix"`
}

// LoggingConfig sets the zap level and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NotifyConfig selects where reminders are delivered.
type NotifyConfig struct {
	Log  bool       `yaml:"log"`
	SMTP SMTPConfig `yaml:"smtp"`
}

// SMTPConfig configures reminder mail.
type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	UseTLS   bool   `yaml:"use_tls"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	// Tick is how often the status notification is refreshed.
	Tick time.Duration `yaml:"tick"`
	// Refresh is how often storage is re-read for changes made elsewhere.
	Refresh time.Duration `yaml:"refresh"`
}

const defaults = `
storage:
  driver: file
  redis_addr: localhost:6379
  redis_db: 0
  key_prefix: "fasting:"
logging:
  level: info
  format: console
notify:
  log: true
  smtp:
    enabled: false
    port: 587
    use_tls: true
watch:
  tick: 1s
  refresh: 30s
`

// Load reads the file at path over the defaults, then applies environment
// overrides. An empty path means CONFIG_PATH or DefaultPath. A missing file
// is not an error; the defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnv("CONFIG_PATH", DefaultPath)
	}

	opts := []config.YAMLOption{config.Source(strings.NewReader(defaults))}
	if _, err := os.Stat(path); err == nil {
		opts = append(opts, config.File(path))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	opts = append(opts, config.Expand(os.LookupEnv))

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == DriverFile && cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = DefaultFilePath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected features are fully configured.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.FilePath == "" {
			return errors.New("storage.file_path is required for the file driver")
		}
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("storage.database_url is required for the postgres driver")
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Notify.SMTP.Enabled {
		s := c.Notify.SMTP
		if s.Host == "" || s.From == "" || s.To == "" {
			return errors.New("notify.smtp requires host, from and to when enabled")
		}
	}
	if c.Watch.Tick <= 0 || c.Watch.Refresh <= 0 {
		return errors.New("watch.tick and watch.refresh must be positive")
	}
	return nil
}

// overrideFromEnv overrides config values with environment variables if present
func (c *Config) overrideFromEnv() error {
	if val := os.Getenv("STORAGE_DRIVER"); val != "" {
		c.Storage.Driver = val
	}
	if val := os.Getenv("STORAGE_FILE"); val != "" {
		c.Storage.FilePath = val
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.Storage.DatabaseURL = val
	}
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Storage.RedisAddr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Storage.RedisPassword = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Storage.RedisDB = n
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Logging.Format = val
	}
	if val := os.Getenv("SMTP_ENABLED"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("SMTP_ENABLED: %w", err)
		}
		c.Notify.SMTP.Enabled = b
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Notify.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.Notify.SMTP.Port = n
	}
	if val := os.Getenv("SMTP_USERNAME"); val != "" {
		c.Notify.SMTP.Username = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Notify.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.Notify.SMTP.From = val
	}
	if val := os.Getenv("SMTP_TO"); val != "" {
		c.Notify.SMTP.To = val
	}
	return nil
}

// DefaultFilePath is the file driver store under the user config directory,
// or under the working directory when there is none.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".fasting", "store.json")
	}
	return filepath.Join(dir, "fasting", "store.json")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
