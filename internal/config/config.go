// Package config loads the webhook's configuration from defaults, an
// optional .env file, a YAML file and VOICECHEF_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Recipe sources
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourceDatabase = "database"
)

const envPrefix = "VOICECHEF_"

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	MetricsConfig struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	Auth struct {
		Secret string `yaml:"secret"`
	} `yaml:"auth"`

	Lifetimes struct {
		ChosenRecipe int `yaml:"chosen_recipe"`
		Progress     int `yaml:"progress"`
		Marker       int `yaml:"marker"`
	} `yaml:"lifetimes"`

	Recipes struct {
		Source string `yaml:"source"`
		File   string `yaml:"file"`
	} `yaml:"recipes"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	News struct {
		URL       string        `yaml:"url"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"news"`

	Brand struct {
		Name string `yaml:"name"`
		Link string `yaml:"link"`
	} `yaml:"brand"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	c := &Config{}
	c.Server.Port = 8080
	c.MetricsConfig.Enabled = true
	c.MetricsConfig.Port = 9090
	c.MetricsConfig.Path = "/metrics"
	c.LogLevel = "INFO"
	c.LogFile = "/tmp/voicechef.log"
	c.Lifetimes.ChosenRecipe = 1000
	c.Lifetimes.Progress = 1000
	c.Lifetimes.Marker = 5
	c.Recipes.Source = SourceBuiltin
	c.Database.Driver = "sqlite3"
	c.Database.DSN = "voicechef.db"
	c.News.URL = "http://ewn.co.za/"
	c.News.Timeout = 10 * time.Second
	c.News.UserAgent = "voicechef/1.0"
	c.Brand.Name = "UCook"
	c.Brand.Link = "https://ucook.co.za/"
	return c
}

// Load builds the configuration. A missing .env or YAML file is not an
// error; environment variables win over the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v, ok := lookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	setString := func(key string, dst *string) {
		if v, ok := lookupEnv(key); ok {
			*dst = v
		}
	}

	setInt("PORT", &c.Server.Port)
	if v, ok := lookupEnv("METRICS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMETRICS_ENABLED: %w", envPrefix, err))
		}
		c.MetricsConfig.Enabled = b
	}
	setInt("METRICS_PORT", &c.MetricsConfig.Port)
	setString("METRICS_PATH", &c.MetricsConfig.Path)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FILE", &c.LogFile)
	setString("AUTH_SECRET", &c.Auth.Secret)
	setInt("CHOSEN_RECIPE_LIFESPAN", &c.Lifetimes.ChosenRecipe)
	setInt("PROGRESS_LIFESPAN", &c.Lifetimes.Progress)
	setInt("MARKER_LIFESPAN", &c.Lifetimes.Marker)
	setString("RECIPES_SOURCE", &c.Recipes.Source)
	setString("RECIPES_FILE", &c.Recipes.File)
	setString("DB_DRIVER", &c.Database.Driver)
	setString("DB_DSN", &c.Database.DSN)
	setString("NEWS_URL", &c.News.URL)
	if v, ok := lookupEnv("NEWS_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sNEWS_TIMEOUT: %w", envPrefix, err))
		}
		c.News.Timeout = d
	}
	setString("NEWS_USER_AGENT", &c.News.UserAgent)
	setString("BRAND_NAME", &c.Brand.Name)
	setString("BRAND_LINK", &c.Brand.Link)

	return errors.Join(errs...)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Validate rejects settings the service can't run with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server port must be positive, got %d", c.Server.Port))
	}
	if c.MetricsConfig.Enabled && c.MetricsConfig.Port <= 0 {
		errs = append(errs, fmt.Errorf("metrics port must be positive, got %d", c.MetricsConfig.Port))
	}
	if c.Lifetimes.ChosenRecipe <= 0 || c.Lifetimes.Progress <= 0 || c.Lifetimes.Marker <= 0 {
		errs = append(errs, errors.New("context lifetimes must be positive"))
	}
	switch c.Recipes.Source {
	case SourceBuiltin, SourceDatabase:
	case SourceFile:
		if c.Recipes.File == "" {
			errs = append(errs, errors.New("recipes file is required for the file source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown recipes source %q", c.Recipes.Source))
	}
	if c.Recipes.Source == SourceDatabase {
		switch c.Database.Driver {
		case "sqlite3", "postgres":
		default:
			errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
		}
	}
	return errors.Join(errs...)
}

// Level returns the configured slog level, INFO when unrecognised
func (c *Config) Level() slog.Level {
	return parseLogLevel(c.LogLevel)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
