package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Mode selects the persistence backend.
type Mode string

const (
	// ModeLocal is the single-client SQLite store.
	ModeLocal Mode = "local"
	// ModeShared is the multi-client PostgreSQL store with change push.
	ModeShared Mode = "shared"
)

// Policy mirrors the engine's optional behaviors, loaded from a TOML file.
type Policy struct {
	RequireOneJoinPerDevice bool `toml:"require_one_join_per_device"`
	PerDeviceCreateQuota    int  `toml:"per_device_create_quota"`
	AllowImages             bool `toml:"allow_images"`
}

type Config struct {
	Mode        Mode
	DatabaseURL string
	DBPath      string
	Locale      string
	ImageDir    string
	Policy      Policy
}

// Load reads the configuration from environment variables (an optional .env
// is honored) and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment.
	}

	cfg := &Config{
		Mode:        Mode(os.Getenv("BOARD_MODE")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      os.Getenv("BOARD_DB_PATH"),
		Locale:      os.Getenv("BOARD_LOCALE"),
		ImageDir:    os.Getenv("BOARD_IMAGE_DIR"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.loadPolicy(os.Getenv("BOARD_POLICY_FILE")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applies defaults and rules on the loaded configuration.
func (c *Config) validate() error {
	switch c.Mode {
	case "":
		c.Mode = ModeLocal
	case ModeLocal, ModeShared:
	default:
		return fmt.Errorf("config: BOARD_MODE must be %q or %q, got %q", ModeLocal, ModeShared, c.Mode)
	}

	if c.Mode == ModeShared {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Useful local default when DATABASE_URL is not provided.
			c.DatabaseURL = "postgres://localhost:5432/mixerboard?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	}

	if c.Mode == ModeLocal && strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = "mixerboard.db"
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "ja"
	}
	if strings.TrimSpace(c.ImageDir) == "" {
		c.ImageDir = "images"
	}
	return nil
}

// loadPolicy reads the policy file, or applies per-mode defaults when no
// file is configured. Shared deployments default to the stricter join rule
// and a create quota of 5; the local board historically had neither.
func (c *Config) loadPolicy(path string) error {
	if strings.TrimSpace(path) == "" {
		switch c.Mode {
		case ModeShared:
			c.Policy = Policy{RequireOneJoinPerDevice: true, PerDeviceCreateQuota: 5, AllowImages: true}
		default:
			c.Policy = Policy{AllowImages: true}
		}
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read policy file: %w", err)
	}
	var p Policy
	if err := toml.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("config: parse policy file %q: %w", path, err)
	}
	if p.PerDeviceCreateQuota < 0 {
		return fmt.Errorf("config: per_device_create_quota must be >= 0, got %d", p.PerDeviceCreateQuota)
	}
	c.Policy = p
	return nil
}
