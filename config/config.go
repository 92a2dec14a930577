// Package config loads client settings from defaults, an optional YAML file,
// DOCCHAT_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables, e.g. DOCCHAT_BASE_URL.
const EnvPrefix = "DOCCHAT"

// Config holds resolved settings.
type Config struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	IdentityFile string        `mapstructure:"identity_file"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	Width        int           `mapstructure:"width"`
	Style        string        `mapstructure:"style"`
}

// Level returns LogLevel as a slog level.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("base_url: %q is not an http(s) URL", c.BaseURL)
	}
	if c.Timeout < 0 {
		return errors.New("timeout: must not be negative")
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Width <= 0 {
		return fmt.Errorf("width: %d must be positive", c.Width)
	}
	if c.IdentityFile == "" {
		return errors.New("identity_file: must be set")
	}
	return nil
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"base-url":      "base_url",
	"timeout":       "timeout",
	"identity-file": "identity_file",
	"log-level":     "log_level",
	"log-file":      "log_file",
	"width":         "width",
	"style":         "style",
}

// Loader resolves a Config. Each Loader owns its own viper instance.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader whose defaults live under dir (normally
// ~/.docchat).
func NewLoader(dir string) *Loader {
	v := viper.New()
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("timeout", "2m")
	v.SetDefault("identity_file", filepath.Join(dir, "identity.json"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(dir, "docchat.log"))
	v.SetDefault("width", 80)
	v.SetDefault("style", "monokai")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return &Loader{v: v}
}

// RegisterFlags adds the configuration flags to fs and binds them, so a flag
// set on the command line overrides every other source.
func (l *Loader) RegisterFlags(fs *pflag.FlagSet) error {
	fs.String("base-url", "", "backend base URL")
	fs.Duration("timeout", 0, "HTTP timeout, including the whole streamed answer")
	fs.String("identity-file", "", "file holding the anonymous user id")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "log file used while the TUI is running")
	fs.Int("width", 0, "render width for non-interactive output")
	fs.String("style", "", "syntax highlighting style for code blocks")
	for name, key := range flagKeys {
		if err := l.v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional config file and returns the validated Config.
// An explicit file must exist; the default file may be absent.
func (l *Loader) Load(file string) (Config, error) {
	if file != "" {
		l.v.SetConfigFile(file)
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	c.IdentityFile = expand(c.IdentityFile)
	c.LogFile = expand(c.LogFile)
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// ConfigFile returns the file settings were read from, if any.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// expand resolves a leading "~/" against the user's home directory.
func expand(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
