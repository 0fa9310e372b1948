package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreader/internal/article"
	"github.com/hyperifyio/goreader/internal/fetch"
	"github.com/hyperifyio/goreader/internal/images"
	"github.com/hyperifyio/goreader/internal/proxy"
)

// App holds the long-lived services built from a Config. Nothing in it
// carries per-request state.
type App struct {
	cfg       Config
	Assembler *article.Assembler
	Resolver  *proxy.Resolver
	Links     article.LinkBuilder
}

// Load builds a Config from defaults, an optional config file, dotenv files
// and the environment, in increasing precedence. Flags are applied by the
// caller afterwards.
func Load(configPath string, envFiles ...string) (Config, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", configPath, err)
		}
		if err := ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, err
		}
	}
	if err := LoadEnvFiles(envFiles...); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// New validates cfg and wires the fetch clients, the article assembler and
// the image proxy resolver. Page and image fetches share one pooled transport.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	tier, err := images.ParseTier(cfg.FilterTier)
	if err != nil {
		return nil, err
	}

	shared := &http.Client{Transport: fetch.NewTransport()}
	pages := &fetch.Client{
		HTTPClient:        shared,
		Header:            fetch.BrowserHeaders(),
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.Timeout,
		MaxBodyBytes:      cfg.MaxPageBytes,
	}
	imgs := &fetch.Client{
		HTTPClient:        shared,
		Header:            fetch.ImageHeaders(),
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.Timeout,
		MaxBodyBytes:      cfg.MaxImageBytes,
	}

	a := &App{
		cfg:       cfg,
		Assembler: article.NewAssembler(pages, tier),
		Resolver:  proxy.NewResolver(imgs, proxy.Options{CacheDays: cfg.ImageCacheDays, Relays: cfg.Relays}),
		Links:     article.LinkBuilder{BaseURL: cfg.ProxyBaseURL},
	}
	log.Debug().
		Str("tier", tier.String()).
		Dur("timeout", cfg.Timeout).
		Int("cache_days", cfg.ImageCacheDays).
		Int("relays", len(cfg.Relays)).
		Msg("services ready")
	return a, nil
}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }
