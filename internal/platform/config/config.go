package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultHistoryPath is the session log used when nothing else is configured.
	DefaultHistoryPath = ".oryx"
	EnvPrefix          = "ORYX"

	localConfigFile = ".oryx.yaml"
)

// Config holds everything an invocation needs to locate its state and decide
// how loud to be.
type Config struct {
	HistoryPath string       `mapstructure:"history_path"`
	DBPath      string       `mapstructure:"db_path"`
	Log         LogConfig    `mapstructure:"log"`
	Notify      NotifyConfig `mapstructure:"notify"`
	Pager       PagerConfig  `mapstructure:"pager"`
}

type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level"`
	// File receives JSON log lines; empty means text on stderr.
	File string `mapstructure:"file"`
}

type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type PagerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// New builds a Config with defaults for the given history path.
func New(historyPath string) (Config, error) {
	cfg := Default()
	cfg.HistoryPath = historyPath
	return cfg.normalize()
}

func Default() Config {
	return Config{
		HistoryPath: DefaultHistoryPath,
		Log:         LogConfig{Level: "WARN"},
		Notify:      NotifyConfig{Enabled: true},
		Pager:       PagerConfig{Enabled: true},
	}
}

// SetDefaults registers default values with v. Every key must be registered
// here so that environment overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("history_path", defaults.HistoryPath)
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("notify.enabled", defaults.Notify.Enabled)
	v.SetDefault("pager.enabled", defaults.Pager.Enabled)
}

// Load resolves configuration from defaults, an optional YAML file, ORYX_*
// environment variables and any flags already bound to v.
// An explicit configFile must exist; otherwise ./.oryx.yaml and
// $HOME/.config/oryx/config.yaml are tried in that order.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := configFile
	if path == "" {
		path = discover()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg.normalize()
}

// Dir returns the per-user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "oryx")
}

func discover() string {
	candidates := []string{localConfigFile}
	if dir := Dir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "config.yaml"))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func (c Config) normalize() (Config, error) {
	c.HistoryPath = strings.TrimSpace(c.HistoryPath)
	if c.HistoryPath == "" {
		return Config{}, fmt.Errorf("history path is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = c.HistoryPath + ".db"
	}
	c.Log.Level = strings.ToUpper(strings.TrimSpace(c.Log.Level))
	return c, nil
}
