// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/uavreview/config.yaml",
	"/etc/uavreview/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Tator: TatorConfig{
			Host:         "http://localhost:8080",
			Token:        "",
			BoxType:      3,
			Project:      4,
			Timeout:      3 * time.Second,
			MaxRetries:   3,
			RetryDelay:   250 * time.Millisecond,
			MissionsPath: "missions.json",
		},
		Server: ServerConfig{
			Port:            8090,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Filter: FilterConfig{
			LongitudeCorrection: "west",
		},
		Gallery: GalleryConfig{
			PageSize: 30,
		},
		Playback: PlaybackConfig{
			Step:     5 * time.Minute,
			Interval: time.Second,
		},
		Graphics: GraphicsConfig{
			CacheTTL:       10 * time.Minute,
			FetchRPS:       10,
			FetchBurst:     20,
			ThumbnailWidth: 320,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from defaults, the config file and the environment.
func Load() (*Config, error) {
	return LoadFile(FindConfigFile())
}

// LoadFile is Load with an explicit config file path; "" skips the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processMillisecondFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FindConfigFile returns CONFIG_PATH if it exists, else the first existing
// entry of DefaultConfigPaths, else "".
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// millisecondConfigPaths accept a bare integer meaning milliseconds.
var millisecondConfigPaths = []string{
	"tator.timeout",
}

func processMillisecondFields(k *koanf.Koanf) error {
	for _, path := range millisecondConfigPaths {
		var ms int64
		switch v := k.Get(path).(type) {
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				// Not an integer; leave it for duration decoding.
				continue
			}
			ms = n
		case int:
			ms = int64(v)
		case float64:
			ms = int64(v)
		default:
			continue
		}
		if err := k.Set(path, time.Duration(ms)*time.Millisecond); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"tator_host":    "tator.host",
		"tator_token":   "tator.token",
		"box_type":      "tator.box_type",
		"project_id":    "tator.project",
		"api_timeout":   "tator.timeout",
		"max_retries":   "tator.max_retries",
		"retry_delay":   "tator.retry_delay",
		"missions_path": "tator.missions_path",

		"http_port":        "server.port",
		"http_host":        "server.host",
		"http_timeout":     "server.timeout",
		"shutdown_timeout": "server.shutdown_timeout",

		"cors_origins":        "security.cors_origins",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"rate_limit_disabled": "security.rate_limit_disabled",

		"longitude_correction": "filter.longitude_correction",
		"gallery_page_size":    "gallery.page_size",
		"playback_step":        "playback.step",
		"playback_interval":    "playback.interval",

		"graphic_cache_ttl":   "graphics.cache_ttl",
		"graphic_fetch_rps":   "graphics.fetch_rps",
		"graphic_fetch_burst": "graphics.fetch_burst",
		"thumbnail_width":     "graphics.thumbnail_width",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever path changes. The caller reloads
// and swaps configuration under its own lock.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
