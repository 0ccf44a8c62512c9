package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"

	"calgrid/internal/model"
)

// FeedConfig describes a single ICS subscription feeding events into the
// grid engine.
type FeedConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown by the renderer.
	Name string `yaml:"name" json:"name"`
	// Color is the palette tag applied to this feed's events. When empty,
	// a tag is picked deterministically from the feed's position.
	Color model.Color `yaml:"color" json:"color"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the grid API.
	Listen string `yaml:"listen" json:"listen"`

	// RowHeight is the pixel height of one hour row. Different renderer
	// densities use different values; the engine treats it as opaque.
	RowHeight float64 `yaml:"row_height" json:"row_height"`

	// RefreshCron is a cron-style schedule (e.g. "*/15 * * * *") for
	// refetching the ICS feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays bounds recurrence flattening: occurrences are produced
	// this many days around today.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// ShowAllDay toggles all-day buckets in API responses.
	ShowAllDay bool `yaml:"show_all_day" json:"show_all_day"`

	// Feeds is the list of subscribed ICS sources.
	Feeds []FeedConfig `yaml:"feeds" json:"feeds"`

	// BasicAuth, if non-nil, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// envOverrides are environment variables applied on top of the file,
// mirroring the precedence CLI flags get in main.
type envOverrides struct {
	Listen    string  `env:"CALGRID_LISTEN"`
	RowHeight float64 `env:"CALGRID_ROW_HEIGHT"`
}

// DefaultRowHeight matches the renderer's standard density.
const DefaultRowHeight = 48

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		RowHeight:   DefaultRowHeight,
		RefreshCron: "*/15 * * * *",
		HorizonDays: 90,
		ShowAllDay:  true,
		Feeds:       []FeedConfig{},
		BasicAuth:   nil,
	}
}

// Normalize fills missing/zero values with defaults so partially-filled
// configs from older versions still behave correctly, and assigns palette
// tags to feeds that did not choose one.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.RowHeight <= 0 {
		c.RowHeight = DefaultRowHeight
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 90
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
	for i := range c.Feeds {
		if !c.Feeds[i].Color.Valid() {
			c.Feeds[i].Color = model.PaletteColor(i)
		}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there with
//     0600 perms and returned.
//   - Otherwise the YAML is unmarshaled, normalized, and environment
//     overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return applyEnv(cfg)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return applyEnv(&cfg)
}

func applyEnv(cfg *Config) (*Config, error) {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, err
	}
	if ov.Listen != "" {
		cfg.Listen = ov.Listen
	}
	if ov.RowHeight > 0 {
		cfg.RowHeight = ov.RowHeight
	}
	return cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save for call-site convenience.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
