// Package config loads the service configuration from a YAML file and
// provides defaults matching the deployed service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved runtime configuration.
type Config struct {
	Listen    string
	DBPath    string
	AmapKey   string
	Upstreams UpstreamConfig
	Timeouts  TimeoutConfig
	Delays    DelayConfig
}

// UpstreamConfig holds the base URLs of the proxied sites. Overridable so
// tests can point the service at stub servers.
type UpstreamConfig struct {
	Baidu  string
	Douguo string
	Amap   string
	IPAPI  string
}

// TimeoutConfig holds the per-outbound-call timeouts. Each call's budget is
// independent: a slow warm-up does not shorten the primary fetch.
type TimeoutConfig struct {
	Warmup  time.Duration // front-page cookie warm-up
	Search  time.Duration // search-result fetches
	Primary time.Duration // detail-page and recipe fetches
	Retry   time.Duration // anti-bot retry fetch
	Geo     time.Duration // geocoding API calls
}

// DelayConfig holds the fixed sleeps between outbound calls that keep the
// request pattern below rate-based anti-bot thresholds.
type DelayConfig struct {
	PreWarm        time.Duration // before the front-page warm-up
	PostWarm       time.Duration // between warm-up and the real fetch
	Redirect       time.Duration // before re-fetching a client-side redirect target
	ChallengeRetry time.Duration // before the single anti-bot retry
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Listen:  ":5000",
		DBPath:  "data.db",
		AmapKey: "a9e44f7c387c1b48ac79da8e40fc716f",
		Upstreams: UpstreamConfig{
			Baidu:  "https://www.baidu.com",
			Douguo: "https://www.douguo.com",
			Amap:   "https://restapi.amap.com",
			IPAPI:  "http://ip-api.com",
		},
		Timeouts: TimeoutConfig{
			Warmup:  10 * time.Second,
			Search:  10 * time.Second,
			Primary: 15 * time.Second,
			Retry:   15 * time.Second,
			Geo:     10 * time.Second,
		},
		Delays: DelayConfig{
			PreWarm:        500 * time.Millisecond,
			PostWarm:       time.Second,
			Redirect:       time.Second,
			ChallengeRetry: 2 * time.Second,
		},
	}
}

// FileConfig represents the structure of the YAML config file. Duration
// fields are strings parsed with time.ParseDuration (e.g. "10s", "500ms").
type FileConfig struct {
	Listen   string `yaml:"listen"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Amap struct {
		Key string `yaml:"key"`
	} `yaml:"amap"`
	Upstreams struct {
		Baidu  string `yaml:"baidu"`
		Douguo string `yaml:"douguo"`
		Amap   string `yaml:"amap"`
		IPAPI  string `yaml:"ip_api"`
	} `yaml:"upstreams"`
	Timeouts struct {
		Warmup  string `yaml:"warmup"`
		Search  string `yaml:"search"`
		Primary string `yaml:"primary"`
		Retry   string `yaml:"retry"`
		Geo     string `yaml:"geo"`
	} `yaml:"timeouts"`
	Delays struct {
		PreWarm        string `yaml:"pre_warm"`
		PostWarm       string `yaml:"post_warm"`
		Redirect       string `yaml:"redirect"`
		ChallengeRetry string `yaml:"challenge_retry"`
	} `yaml:"delays"`
}

// Load reads configuration from the given path, overlaying the file's values
// on the defaults. A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fc.Listen != "" {
		cfg.Listen = fc.Listen
	}
	if fc.Database.Path != "" {
		cfg.DBPath = fc.Database.Path
	}
	if fc.Amap.Key != "" {
		cfg.AmapKey = fc.Amap.Key
	}
	if fc.Upstreams.Baidu != "" {
		cfg.Upstreams.Baidu = fc.Upstreams.Baidu
	}
	if fc.Upstreams.Douguo != "" {
		cfg.Upstreams.Douguo = fc.Upstreams.Douguo
	}
	if fc.Upstreams.Amap != "" {
		cfg.Upstreams.Amap = fc.Upstreams.Amap
	}
	if fc.Upstreams.IPAPI != "" {
		cfg.Upstreams.IPAPI = fc.Upstreams.IPAPI
	}

	durations := []struct {
		raw  string
		dst  *time.Duration
		name string
	}{
		{fc.Timeouts.Warmup, &cfg.Timeouts.Warmup, "timeouts.warmup"},
		{fc.Timeouts.Search, &cfg.Timeouts.Search, "timeouts.search"},
		{fc.Timeouts.Primary, &cfg.Timeouts.Primary, "timeouts.primary"},
		{fc.Timeouts.Retry, &cfg.Timeouts.Retry, "timeouts.retry"},
		{fc.Timeouts.Geo, &cfg.Timeouts.Geo, "timeouts.geo"},
		{fc.Delays.PreWarm, &cfg.Delays.PreWarm, "delays.pre_warm"},
		{fc.Delays.PostWarm, &cfg.Delays.PostWarm, "delays.post_warm"},
		{fc.Delays.Redirect, &cfg.Delays.Redirect, "delays.redirect"},
		{fc.Delays.ChallengeRetry, &cfg.Delays.ChallengeRetry, "delays.challenge_retry"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: must be a valid duration (e.g. 10s, 500ms): %w", d.name, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
