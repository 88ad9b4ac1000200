// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package config loads server configuration with koanf.
//
// Sources are layered, later ones winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. YAML file (CONFIG_PATH, or the first of DefaultConfigPaths that exists)
//  3. Environment variables, mapped explicitly by envTransformFunc
//
// Unknown environment variables are ignored.
package config

import (
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Tator    TatorConfig    `koanf:"tator"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Filter   FilterConfig   `koanf:"filter"`
	Gallery  GalleryConfig  `koanf:"gallery"`
	Playback PlaybackConfig `koanf:"playback"`
	Graphics GraphicsConfig `koanf:"graphics"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// TatorConfig describes the upstream annotation service.
type TatorConfig struct {
	Host    string `koanf:"host"`
	Token   string `koanf:"token"`
	BoxType int    `koanf:"box_type"`
	Project int    `koanf:"project"`

	// Timeout bounds each upstream attempt. API_TIMEOUT may be given as
	// integer milliseconds or a Go duration string.
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
	RetryDelay time.Duration `koanf:"retry_delay"`

	// MissionsPath is a local file or an http(s) URL serving the mission list.
	MissionsPath string `koanf:"missions_path"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// FilterConfig selects the longitude correction applied to media positions.
type FilterConfig struct {
	LongitudeCorrection string `koanf:"longitude_correction"`
}

// GalleryConfig holds gallery defaults.
type GalleryConfig struct {
	PageSize int `koanf:"page_size"`
}

// PlaybackConfig holds the timeline cadence: Step of simulated time per Interval of wall time.
type PlaybackConfig struct {
	Step     time.Duration `koanf:"step"`
	Interval time.Duration `koanf:"interval"`
}

// GraphicsConfig controls graphic fetching and caching.
type GraphicsConfig struct {
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	FetchRPS       float64       `koanf:"fetch_rps"`
	FetchBurst     int           `koanf:"fetch_burst"`
	ThumbnailWidth int           `koanf:"thumbnail_width"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
