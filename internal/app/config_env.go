package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hyperifyio/goreader/internal/proxy"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file so env wins over it, and before flags so
// flags stay highest precedence.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("PROXY_BASE_URL"); v != "" {
		cfg.ProxyBaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("IMAGE_FILTER_TIER"); v != "" {
		cfg.FilterTier = v
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.Port = n
	}
	if v := strings.TrimSpace(os.Getenv("IMAGE_CACHE_DAYS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IMAGE_CACHE_DAYS: %w", err)
		}
		cfg.ImageCacheDays = n
	}
	if v := strings.TrimSpace(os.Getenv("MAX_IMAGE_SIZE")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_IMAGE_SIZE: %w", err)
		}
		cfg.MaxImageBytes = n
	}
	if v := os.Getenv("TIMEOUT"); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return fmt.Errorf("TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("RELAYS"); v != "" {
		relays, err := proxy.ParseRelays(v)
		if err != nil {
			return fmt.Errorf("RELAYS: %w", err)
		}
		cfg.Relays = relays
	}
	return nil
}
