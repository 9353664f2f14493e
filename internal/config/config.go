// Package config resolves the chart and storage settings used by the CLI.
//
// Values are layered: defaults, then the optional YAML file, then GANTT_*
// environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/constructbms/gantt/internal/render"
	"github.com/constructbms/gantt/internal/timescale"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds everything a chart session needs besides the project ref.
type Config struct {
	DBPath string `yaml:"db"`
	// ConfigFile is where the YAML layer was read from, if anywhere.
	ConfigFile string `yaml:"-"`
	Zoom       int    `yaml:"zoom"`
	Role       string `yaml:"role"`
	// Width is the chart width in terminal columns for static output.
	Width int            `yaml:"width"`
	Log   bool           `yaml:"log"`
	View  render.Options `yaml:"view"`
}

// DefaultConfig returns the settings used when nothing is configured. The
// database lives at ~/.gantt/gantt.db.
func DefaultConfig() Config {
	return Config{
		DBPath: defaultPath("gantt.db"),
		Zoom:   timescale.ZoomWeek,
		Role:   "editor",
		Width:  80,
		View:   render.DefaultOptions(),
	}
}

// LoadConfig layers the YAML file and environment over the defaults. The
// file is GANTT_CONFIG when set, otherwise ~/.gantt/config.yaml if it
// exists. A file named by GANTT_CONFIG must exist.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path, explicit := os.Getenv("GANTT_CONFIG"), true
	if path == "" {
		path, explicit = defaultPath("config.yaml"), false
	}
	if path != "" {
		err := cfg.mergeFile(path)
		switch {
		case err == nil:
			cfg.ConfigFile = path
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return cfg, err
		}
	}

	if v := os.Getenv("GANTT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GANTT_ZOOM"); v != "" {
		if z, err := ParseZoom(v); err == nil {
			cfg.Zoom = z
		}
	}
	if v := os.Getenv("GANTT_ROLE"); v != "" {
		cfg.Role = v
	}
	if v := os.Getenv("GANTT_LOG"); v != "" {
		cfg.Log, _ = strconv.ParseBool(v)
	}
	return cfg, nil
}

// mergeFile overlays the keys present in the YAML file at path.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// BindFlags registers flags that override c in place when fs is parsed.
// The current values of c become the flag defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.Var(&zoomValue{z: &c.Zoom}, "zoom", "time scale: day, week, month or days per unit")
	fs.StringVar(&c.Role, "role", c.Role, `user role; "viewer" is read-only`)
	fs.IntVar(&c.Width, "width", c.Width, "chart width in columns")
	fs.BoolVar(&c.Log, "log", c.Log, "write use-case logs to stderr")
	fs.BoolVar(&c.View.ShowGridlines, "gridlines", c.View.ShowGridlines, "draw calendar gridlines")
	fs.BoolVar(&c.View.ShowTaskLinks, "links", c.View.ShowTaskLinks, "draw dependency links")
	fs.BoolVar(&c.View.ShowFloat, "float", c.View.ShowFloat, "draw float tails")
	fs.BoolVar(&c.View.ShowCriticalPath, "critical", c.View.ShowCriticalPath, "highlight the critical path")
	fs.BoolVar(&c.View.CriticalOnly, "critical-only", c.View.CriticalOnly, "show only critical tasks")
}

// Validate reports settings no session can use.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path is required (set GANTT_DB or --db)")
	}
	if c.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %d", c.Zoom)
	}
	if c.Width < 20 {
		return fmt.Errorf("width must be at least 20 columns, got %d", c.Width)
	}
	return nil
}

// ParseZoom accepts a named level or a positive number of days per unit.
func ParseZoom(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return timescale.ZoomDay, nil
	case "week":
		return timescale.ZoomWeek, nil
	case "month":
		return timescale.ZoomMonth, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid zoom %q (use day, week, month or a positive number)", s)
	}
	return n, nil
}

// ZoomName is the inverse of ParseZoom for the named levels.
func ZoomName(z int) string {
	switch z {
	case timescale.ZoomDay:
		return "day"
	case timescale.ZoomWeek:
		return "week"
	case timescale.ZoomMonth:
		return "month"
	}
	return strconv.Itoa(z)
}

type zoomValue struct{ z *int }

func (v *zoomValue) String() string {
	if v.z == nil {
		return ""
	}
	return ZoomName(*v.z)
}

func (v *zoomValue) Set(s string) error {
	z, err := ParseZoom(s)
	if err != nil {
		return err
	}
	*v.z = z
	return nil
}

func (v *zoomValue) Type() string { return "zoom" }

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gantt", name)
}
