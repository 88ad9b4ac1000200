// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/uavreview/internal/logging"
)

// LoadFunc performs one full upstream fetch.
type LoadFunc func(ctx context.Context) error

// LoaderService runs the startup fetch. A failed attempt returns its error
// so the supervisor restarts it with backoff. After a successful attempt
// onLoaded runs once and the service returns suture.ErrDoNotRestart.
type LoaderService struct {
	load     LoadFunc
	onLoaded func()
	timeout  time.Duration
}

// LoaderOption configures a LoaderService.
type LoaderOption func(*LoaderService)

// WithLoadTimeout bounds each attempt. Zero leaves attempts bounded only by
// the supervisor context.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *LoaderService) { l.timeout = d }
}

// NewLoaderService creates a loader. onLoaded may be nil.
func NewLoaderService(load LoadFunc, onLoaded func(), opts ...LoaderOption) *LoaderService {
	l := &LoaderService{load: load, onLoaded: onLoaded}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Serve implements suture.Service.
func (l *LoaderService) Serve(ctx context.Context) error {
	attemptCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := l.load(attemptCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("initial load failed: %w", err)
	}

	if l.onLoaded != nil {
		l.onLoaded()
	}
	logging.Info().Dur("duration", time.Since(start)).Msg("Initial data load complete")
	return suture.ErrDoNotRestart
}

func (l *LoaderService) String() string {
	return "initial-loader"
}
