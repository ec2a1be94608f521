// Package config handles weekplot configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/schedule"
)

// Config is the root configuration structure.
type Config struct {
	// Input is the schedule CSV path.
	Input string `yaml:"input" mapstructure:"input"`

	// OutputDir receives the exported files.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// Name is the base file name of exported files.
	Name string `yaml:"name" mapstructure:"name"`

	// Formats lists the export formats (svg, html, png).
	Formats []string `yaml:"formats" mapstructure:"formats"`

	// Policy is the rejected-row policy (abort, skip).
	Policy string `yaml:"policy" mapstructure:"policy"`

	// Palette is an optional YAML color override file.
	Palette string `yaml:"palette" mapstructure:"palette"`

	// Standalone additionally exports every panel on its own canvas.
	Standalone bool `yaml:"standalone" mapstructure:"standalone"`

	Raster  RasterConfig  `yaml:"raster" mapstructure:"raster"`
	Layout  LayoutConfig  `yaml:"layout" mapstructure:"layout"`
	Days    DaysConfig    `yaml:"days" mapstructure:"days"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// RasterConfig selects the PNG backend.
type RasterConfig struct {
	// Backend is native or browser.
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Scale multiplies the canvas size of the PNG.
	Scale float64 `yaml:"scale" mapstructure:"scale"`

	// BrowserBin is an explicit Chrome binary for the browser backend.
	BrowserBin string `yaml:"browser_bin" mapstructure:"browser_bin"`

	// ControlURL connects to an already running browser instead of launching one.
	ControlURL string `yaml:"control_url" mapstructure:"control_url"`
}

// LayoutConfig holds composite layout switches.
type LayoutConfig struct {
	// ReverseTimelineDays draws Monday on the top row of the timeline.
	ReverseTimelineDays bool `yaml:"reverse_timeline_days" mapstructure:"reverse_timeline_days"`
}

// DaysConfig holds day-name parsing settings.
type DaysConfig struct {
	// Aliases maps extra day spellings to English day names.
	Aliases map[string]string `yaml:"aliases" mapstructure:"aliases"`
}

// WatchConfig holds file watcher settings.
type WatchConfig struct {
	// Debounce is the minimum interval between two rebuilds.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (auto, json, console).
	Format string `yaml:"format" mapstructure:"format"`
}

// PolishDayAliases map Polish day names to their English equivalents.
var PolishDayAliases = map[string]string{
	"Poniedziałek": "Monday",
	"Wtorek":       "Tuesday",
	"Środa":        "Wednesday",
	"Czwartek":     "Thursday",
	"Piątek":       "Friday",
	"Sobota":       "Saturday",
	"Niedziela":    "Sunday",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	aliases := make(map[string]string, len(PolishDayAliases))
	for k, v := range PolishDayAliases {
		aliases[k] = v
	}
	return &Config{
		Input:     "schedule.csv",
		OutputDir: "report",
		Name:      "weekplot",
		Formats:   []string{"svg", "html", "png"},
		Policy:    string(schedule.PolicyAbort),
		Raster: RasterConfig{
			Backend: "native",
			Scale:   1,
		},
		Layout: LayoutConfig{ReverseTimelineDays: true},
		Days:   DaysConfig{Aliases: aliases},
		Watch:  WatchConfig{Debounce: time.Second},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, fmt.Errorf("input is required"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("output_dir is required"))
	}
	if strings.TrimSpace(c.Name) == "" || strings.ContainsAny(c.Name, `/\`) {
		errs = append(errs, fmt.Errorf("name must be a plain file name, got %q", c.Name))
	}
	if _, err := domain.ParseFormats(c.Formats); err != nil {
		errs = append(errs, fmt.Errorf("formats: %w", err))
	}
	if _, err := schedule.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
	}
	switch c.Raster.Backend {
	case "native", "browser":
	default:
		errs = append(errs, fmt.Errorf("raster.backend must be native or browser, got %q", c.Raster.Backend))
	}
	if c.Raster.Scale <= 0 || c.Raster.Scale > 8 {
		errs = append(errs, fmt.Errorf("raster.scale must be in (0, 8], got %g", c.Raster.Scale))
	}
	folded := make(map[string]string, len(c.Days.Aliases))
	for _, alias := range slices.Sorted(maps.Keys(c.Days.Aliases)) {
		day, err := domain.ParseDay(c.Days.Aliases[alias], nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("days.aliases[%s]: %w", alias, err))
			continue
		}
		key := strings.ToLower(alias)
		if prev, ok := folded[key]; ok {
			if other, _ := domain.ParseDay(c.Days.Aliases[prev], nil); other != day {
				errs = append(errs, fmt.Errorf("days.aliases[%s] and days.aliases[%s] differ only in case but map to different days", prev, alias))
			}
			continue
		}
		folded[key] = alias
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative"))
	}
	switch c.Logging.Format {
	case "auto", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be auto, json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// ExportFormats returns the parsed export formats.
func (c *Config) ExportFormats() ([]domain.Format, error) {
	return domain.ParseFormats(c.Formats)
}

// RejectionPolicy returns the parsed rejected-row policy.
func (c *Config) RejectionPolicy() (schedule.Policy, error) {
	return schedule.ParsePolicy(c.Policy)
}
