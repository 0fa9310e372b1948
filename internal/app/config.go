package app

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/goreader/internal/images"
	"github.com/hyperifyio/goreader/internal/proxy"
)

const (
	DefaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultProxyBaseURL = "https://gpts-article-analyzer.vercel.app"
)

// Config holds runtime configuration for the service and the CLI.
type Config struct {
	// Server
	Host string
	Port int

	// Outbound fetches
	UserAgent     string
	Timeout       time.Duration
	MaxPageBytes  int64
	MaxImageBytes int64

	// Image proxy
	ProxyBaseURL   string
	ImageCacheDays int
	Relays         []proxy.Relay

	// Extraction
	FilterTier string

	LogLevel string
}

// DefaultConfig returns the built-in defaults, the lowest precedence layer.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           5001,
		UserAgent:      DefaultUserAgent,
		Timeout:        30 * time.Second,
		MaxPageBytes:   16 << 20,
		MaxImageBytes:  10 << 20,
		ProxyBaseURL:   DefaultProxyBaseURL,
		ImageCacheDays: 7,
		Relays:         proxy.DefaultRelays(),
		FilterTier:     "standard",
		LogLevel:       "info",
	}
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CacheMaxAge is the image cache lifetime in seconds.
func (c Config) CacheMaxAge() int { return c.ImageCacheDays * 86400 }

// ValidateConfig rejects settings the services cannot run with.
func ValidateConfig(cfg Config) error {
	if cfg.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if cfg.ImageCacheDays <= 0 {
		return errors.New("config: image cache days must be positive")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", cfg.Port)
	}
	if cfg.MaxImageBytes <= 0 || cfg.MaxPageBytes <= 0 {
		return errors.New("config: body size limits must be positive")
	}
	if _, err := images.ParseTier(cfg.FilterTier); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	u, err := url.Parse(cfg.ProxyBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: proxy base url %q must be an absolute http(s) url", cfg.ProxyBaseURL)
	}
	for _, r := range cfg.Relays {
		if !strings.Contains(r.Template, "{url}") {
			return fmt.Errorf("config: relay %q lacks {url}", r.Name)
		}
	}
	return nil
}

// ParseTimeout accepts plain seconds ("30", "2.5") or a Go duration ("45s").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return d, nil
}
