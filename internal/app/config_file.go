package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goreader/internal/proxy"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Server struct {
		Host string `yaml:"host" json:"host"`
		Port int    `yaml:"port" json:"port"`
	} `yaml:"server" json:"server"`

	Fetch struct {
		UserAgent string `yaml:"userAgent" json:"userAgent"`
		// Timeout accepts seconds or a Go duration string.
		Timeout      string `yaml:"timeout" json:"timeout"`
		MaxPageBytes int64  `yaml:"maxPageBytes" json:"maxPageBytes"`
	} `yaml:"fetch" json:"fetch"`

	Images struct {
		ProxyBaseURL string `yaml:"proxyBaseURL" json:"proxyBaseURL"`
		CacheDays    int    `yaml:"cacheDays" json:"cacheDays"`
		MaxBytes     int64  `yaml:"maxBytes" json:"maxBytes"`
		FilterTier   string `yaml:"filterTier" json:"filterTier"`
		Relays       []struct {
			Name     string `yaml:"name" json:"name"`
			Template string `yaml:"template" json:"template"`
		} `yaml:"relays" json:"relays"`
	} `yaml:"images" json:"images"`

	LogLevel string `yaml:"logLevel" json:"logLevel"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays the values present in fc onto cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if fc.Server.Host != "" {
		cfg.Host = fc.Server.Host
	}
	if fc.Server.Port != 0 {
		cfg.Port = fc.Server.Port
	}
	if fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if fc.Fetch.Timeout != "" {
		d, err := ParseTimeout(fc.Fetch.Timeout)
		if err != nil {
			return fmt.Errorf("fetch.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fc.Fetch.MaxPageBytes > 0 {
		cfg.MaxPageBytes = fc.Fetch.MaxPageBytes
	}
	if fc.Images.ProxyBaseURL != "" {
		cfg.ProxyBaseURL = fc.Images.ProxyBaseURL
	}
	if fc.Images.CacheDays != 0 {
		cfg.ImageCacheDays = fc.Images.CacheDays
	}
	if fc.Images.MaxBytes > 0 {
		cfg.MaxImageBytes = fc.Images.MaxBytes
	}
	if fc.Images.FilterTier != "" {
		cfg.FilterTier = fc.Images.FilterTier
	}
	if len(fc.Images.Relays) > 0 {
		relays := make([]proxy.Relay, 0, len(fc.Images.Relays))
		for i, r := range fc.Images.Relays {
			name := r.Name
			if name == "" {
				name = fmt.Sprintf("relay%d", i+1)
			}
			relays = append(relays, proxy.Relay{Name: name, Template: r.Template})
		}
		cfg.Relays = relays
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}
