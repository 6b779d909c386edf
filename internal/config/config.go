package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevBaseURL is the backend root used when no API_BASE_URL is configured in
// development. It matches the local backend's mount point.
const DevBaseURL = "http://localhost:8000/api/accounts"

type Config struct {
	Env            string        `mapstructure:"ENV"`
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	StateDir       string        `mapstructure:"STATE_DIR"`
	StubPort       string        `mapstructure:"STUB_PORT"`
	StubSecret     string        `mapstructure:"STUB_SECRET"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("API_BASE_URL", "")
	// No request timeout by default: a hung request is ended by the user
	// interrupting the command, not by the client giving up.
	v.SetDefault("REQUEST_TIMEOUT", 0)
	v.SetDefault("STATE_DIR", "")
	v.SetDefault("STUB_PORT", "8000")
	v.SetDefault("STUB_SECRET", "carebook-dev-secret")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("API_BASE_URL")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("STATE_DIR")
	v.BindEnv("STUB_PORT")
	v.BindEnv("STUB_SECRET")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.APIBaseURL == "" && cfg.IsDev() {
		cfg.APIBaseURL = DevBaseURL
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is usable. Outside development an
// explicit backend URL is required; there is no production default to fall
// back to silently.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required when ENV=%q", c.Env)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must be http or https, got %q", c.APIBaseURL)
	}
	if !c.IsDev() && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use https when ENV=%q", c.Env)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

// BaseURL returns the configured backend root without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.APIBaseURL, "/")
}
