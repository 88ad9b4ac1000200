// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateTator,
		c.validateServer,
		c.validateRateLimits,
		c.validateFilter,
		c.validateGallery,
		c.validatePlayback,
		c.validateGraphics,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateTator() error {
	if err := validateHTTPURL(c.Tator.Host, "TATOR_HOST"); err != nil {
		return err
	}
	if c.Tator.Project < 1 {
		return fmt.Errorf("PROJECT_ID must be positive, got %d", c.Tator.Project)
	}
	if c.Tator.BoxType < 1 {
		return fmt.Errorf("BOX_TYPE must be positive, got %d", c.Tator.BoxType)
	}
	if c.Tator.Timeout <= 0 || c.Tator.Timeout > 5*time.Minute {
		return fmt.Errorf("API_TIMEOUT must be between 1ms and 5m, got %v", c.Tator.Timeout)
	}
	if c.Tator.MaxRetries < 0 || c.Tator.MaxRetries > 10 {
		return fmt.Errorf("MAX_RETRIES must be between 0 and 10, got %d", c.Tator.MaxRetries)
	}
	if c.Tator.RetryDelay < 0 {
		return fmt.Errorf("RETRY_DELAY must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateFilter() error {
	switch strings.ToLower(c.Filter.LongitudeCorrection) {
	case "", "west", "none":
		return nil
	default:
		return fmt.Errorf("LONGITUDE_CORRECTION must be west or none, got %q", c.Filter.LongitudeCorrection)
	}
}

func (c *Config) validateGallery() error {
	if c.Gallery.PageSize < 1 || c.Gallery.PageSize > 500 {
		return fmt.Errorf("GALLERY_PAGE_SIZE must be between 1 and 500, got %d", c.Gallery.PageSize)
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.Step <= 0 {
		return fmt.Errorf("PLAYBACK_STEP must be positive")
	}
	if c.Playback.Interval < 10*time.Millisecond {
		return fmt.Errorf("PLAYBACK_INTERVAL must be at least 10ms, got %v", c.Playback.Interval)
	}
	return nil
}

func (c *Config) validateGraphics() error {
	if c.Graphics.CacheTTL <= 0 {
		return fmt.Errorf("GRAPHIC_CACHE_TTL must be positive")
	}
	if c.Graphics.FetchRPS <= 0 {
		return fmt.Errorf("GRAPHIC_FETCH_RPS must be positive")
	}
	if c.Graphics.FetchBurst < 1 {
		return fmt.Errorf("GRAPHIC_FETCH_BURST must be at least 1")
	}
	if c.Graphics.ThumbnailWidth < 16 || c.Graphics.ThumbnailWidth > 4096 {
		return fmt.Errorf("THUMBNAIL_WIDTH must be between 16 and 4096, got %d", c.Graphics.ThumbnailWidth)
	}
	return nil
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled"}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	return slices.Contains(c.Security.CORSOrigins, "*")
}

// validateHTTPURL checks for an http(s) base URL without query parameters.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
