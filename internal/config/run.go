package config

import (
	"fmt"
	"time"

	"github.com/spachava753/crownprix-leaderboards/internal/appstore"
	"github.com/spachava753/crownprix-leaderboards/internal/auth"
	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

// DefaultRunConfig returns a RunConfig with default values.
func DefaultRunConfig() models.RunConfig {
	return models.RunConfig{
		BaseURL:  appstore.DefaultBaseURL,
		Locale:   "en-US",
		Delay:    300 * time.Millisecond,
		TokenTTL: auth.DefaultTTL,
	}
}

// LoadRunConfig loads credentials from envPath into cfg and fills in
// defaults for any settings left at their zero value.
func LoadRunConfig(envPath string, cfg models.RunConfig) (models.RunConfig, error) {
	creds, err := LoadCredentials(envPath)
	if err != nil {
		return cfg, err
	}
	cfg.Credentials = creds

	// Apply defaults for missing values
	defaults := DefaultRunConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Locale == "" {
		cfg.Locale = defaults.Locale
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}

	if cfg.Delay < 0 {
		return cfg, fmt.Errorf("delay must not be negative, got %s", cfg.Delay)
	}
	if cfg.TokenTTL > auth.MaxTTL {
		return cfg, fmt.Errorf("token ttl %s exceeds the %s maximum", cfg.TokenTTL, auth.MaxTTL)
	}

	return cfg, nil
}
