package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Table    TableConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// TableConfig holds defaults for every table view.
type TableConfig struct {
	PageSize     int    `mapstructure:"page_size"`
	EmptyMessage string `mapstructure:"empty_message"`
	Locale       string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
	// Operator is recorded as the actor of audit entries.
	Operator string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix GRCONSOLE_.
// An explicit path takes precedence over GRCONSOLE_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()
	home := os.Getenv("HOME")

	// default values
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "grconsole", "grconsole.db"))
	v.SetDefault("table.page_size", 10)
	v.SetDefault("table.empty_message", "Нет данных")
	v.SetDefault("table.locale", "ru")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.operator", "admin@gr.local")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "grconsole", "grconsole.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("GRCONSOLE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "grconsole"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("GRCONSOLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate checks the values that components treat as preconditions.
func (c Config) Validate() error {
	if c.Table.PageSize <= 0 {
		return fmt.Errorf("%w: table.page_size must be positive, got %d", ErrInvalid, c.Table.PageSize)
	}
	if _, err := language.Parse(c.Table.Locale); err != nil {
		return fmt.Errorf("%w: table.locale %q: %v", ErrInvalid, c.Table.Locale, err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q: %v", ErrInvalid, c.Log.Level, err)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalid)
	}
	return nil
}

// Locale returns the parsed collation locale, falling back to Russian.
func (c Config) Locale() language.Tag {
	tag, err := language.Parse(c.Table.Locale)
	if err != nil {
		return language.Russian
	}
	return tag
}

// DefaultPath is where Save writes when neither path nor GRCONSOLE_CONFIG is set.
func DefaultPath() string {
	if p := os.Getenv("GRCONSOLE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "grconsole", "config.toml")
}

// Save writes the provided config to path, creating the directory if needed.
// An empty path means DefaultPath.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("table.page_size", cfg.Table.PageSize)
	v.Set("table.empty_message", cfg.Table.EmptyMessage)
	v.Set("table.locale", cfg.Table.Locale)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.operator", cfg.UI.Operator)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
