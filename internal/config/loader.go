package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "WEEKPLOT"

// configKeys lists every key that supports environment variable overrides.
var configKeys = []string{
	"input",
	"output_dir",
	"name",
	"formats",
	"policy",
	"palette",
	"standalone",
	"raster.backend",
	"raster.scale",
	"raster.browser_bin",
	"raster.control_url",
	"layout.reverse_timeline_days",
	"watch.debounce",
	"logging.level",
	"logging.format",
}

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
	searchDirs []string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// AddSearchDir adds a directory searched for weekplot.yaml ahead of the
// defaults.
func (l *Loader) AddSearchDir(dir string) {
	l.searchDirs = append(l.searchDirs, dir)
}

// BindFlags binds command flags to config keys. A flag overrides every
// other source only when it was set on the command line.
func (l *Loader) BindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", flag, err)
		}
	}
	return nil
}

// Load loads configuration with precedence
// defaults < config file < env vars < CLI flags.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Input = expandTilde(cfg.Input)
	cfg.OutputDir = expandTilde(cfg.OutputDir)
	cfg.Palette = expandTilde(cfg.Palette)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ConfigFileUsed returns the config file that was loaded, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("weekplot")
	v.SetConfigType("yaml")

	for _, dir := range l.searchDirs {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "weekplot"))
	} else if home, _ := os.UserHomeDir(); home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "weekplot"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("input", cfg.Input)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("name", cfg.Name)
	v.SetDefault("formats", cfg.Formats)
	v.SetDefault("policy", cfg.Policy)
	v.SetDefault("palette", cfg.Palette)
	v.SetDefault("standalone", cfg.Standalone)
	v.SetDefault("raster.backend", cfg.Raster.Backend)
	v.SetDefault("raster.scale", cfg.Raster.Scale)
	v.SetDefault("raster.browser_bin", cfg.Raster.BrowserBin)
	v.SetDefault("raster.control_url", cfg.Raster.ControlURL)
	v.SetDefault("layout.reverse_timeline_days", cfg.Layout.ReverseTimelineDays)
	v.SetDefault("days.aliases", cfg.Days.Aliases)
	v.SetDefault("watch.debounce", cfg.Watch.Debounce)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	bindEnvVars(v)
}

// bindEnvVars binds WEEKPLOT_* variables explicitly; Unmarshal does not see
// AutomaticEnv values for keys nested in structs.
func bindEnvVars(v *viper.Viper) {
	for _, key := range configKeys {
		env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}
}

// loadConfigFile reads the config file. A missing file is only an error
// when it was named explicitly.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	err := l.v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}
