// Package config resolves settings for the netcheck binaries.
//
// Precedence, lowest first: built-in defaults, an optional YAML file, a .env
// file in the working directory, then the process environment. Command-line
// flags are applied by the binaries on top of the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds device and controller settings.
type Config struct {
	AuthURL       string        `yaml:"auth_url"`
	ControllerURL string        `yaml:"controller_url"`
	DataDir       string        `yaml:"data_dir"`
	DBPath        string        `yaml:"db_path"`
	DeviceID      string        `yaml:"device_id"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	CAFile        string        `yaml:"ca_file"`
	Insecure      bool          `yaml:"insecure"`
	LogLevel      string        `yaml:"log_level"`
	JWTSecret     string        `yaml:"-"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	dir := defaultDataDir()
	host, _ := os.Hostname()
	return Config{
		AuthURL:     "http://127.0.0.1:8080/api/v1/auth/login",
		DataDir:     dir,
		DBPath:      filepath.Join(dir, "form_data.db"),
		DeviceID:    host,
		HTTPTimeout: 30 * time.Second,
		LogLevel:    "info",
	}
}

func defaultDataDir() string {
	if d, err := os.UserConfigDir(); err == nil && d != "" {
		return filepath.Join(d, "netcheck")
	}
	return "data"
}

// Load resolves the configuration. yamlPath may be empty.
func Load(yamlPath string) (Config, error) {
	cfg := Defaults()
	if yamlPath != "" {
		if err := cfg.mergeYAML(yamlPath); err != nil {
			return cfg, err
		}
	}
	if err := loadDotEnv(".env"); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "form_data.db")
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dataDir, dbPath := c.DataDir, c.DBPath
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	// A data_dir without db_path moves the database with it.
	if c.DataDir != dataDir && c.DBPath == dbPath {
		c.DBPath = filepath.Join(c.DataDir, "form_data.db")
	}
	return nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("NETCHECK_AUTH_URL"); v != "" {
		c.AuthURL = v
	}
	if v := os.Getenv("NETCHECK_CONTROLLER_URL"); v != "" {
		c.ControllerURL = v
	}
	if v := os.Getenv("NETCHECK_DATA_DIR"); v != "" {
		// An explicit db_path stays put; the default one follows the data dir.
		if c.DBPath == filepath.Join(c.DataDir, "form_data.db") {
			c.DBPath = filepath.Join(v, "form_data.db")
		}
		c.DataDir = v
	}
	if v := os.Getenv("NETCHECK_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("NETCHECK_DEVICE_ID"); v != "" {
		c.DeviceID = v
	}
	if v := os.Getenv("NETCHECK_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("NETCHECK_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("NETCHECK_CA_FILE"); v != "" {
		c.CAFile = v
	}
	if v := os.Getenv("NETCHECK_INSECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NETCHECK_INSECURE: %w", err)
		}
		c.Insecure = b
	}
	if v := os.Getenv("NETCHECK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	return nil
}

// SessionPath is where the CLI keeps the last login token.
func (c Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}
