// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package store owns the cross-view review state: the raw detection, media
// and mission sets plus the filter, map and gallery state that the map,
// gallery and timeline views share.
//
// Every mutation goes through a Store method and replaces whole fields under
// the write lock. Derived views (filtered detections, the gallery page, the
// selected detection) are recomputed on each read.
//
// Fetch-and-commit operations take a ticket from a per-entity sequence. A
// result commits only if no newer request for the same entity started in the
// meantime; otherwise it is dropped with ErrSuperseded. The last request to
// start wins.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/uavreview/internal/cache"
	"github.com/tomtom215/uavreview/internal/filter"
	"github.com/tomtom215/uavreview/internal/models"
)

var (
	// ErrSuperseded is returned when a fetch finished after a newer request
	// for the same entity had started. Its result was discarded.
	ErrSuperseded = errors.New("store: result superseded by a newer request")

	// ErrUnknownLayer is returned by ToggleLayer for an unrecognized layer name.
	ErrUnknownLayer = errors.New("store: unknown map layer")

	// ErrInvalidBounds is returned for map bounds with south > north.
	ErrInvalidBounds = errors.New("store: map bounds south exceeds north")

	// ErrNoSource is returned by fetch operations on a store built without a Source.
	ErrNoSource = errors.New("store: no data source configured")
)

// Source supplies the raw entity sets. Implementations convert upstream
// failures into fallback data, so these methods never fail.
type Source interface {
	Detections(ctx context.Context) []models.Detection
	Media(ctx context.Context) []models.Media
	Missions(ctx context.Context) []models.Mission
}

// Entity names a raw entity set.
type Entity string

const (
	EntityDetections Entity = "detections"
	EntityMedia      Entity = "media"
	EntityMissions   Entity = "missions"
)

// Store is the single source of truth for one review session.
type Store struct {
	mu sync.RWMutex

	detections []models.Detection
	media      []models.Media
	missions   []models.Mission

	filters  models.FilterSpec
	mapState models.MapState
	gallery  models.GalleryState

	// seq holds the latest ticket issued per entity.
	seq map[Entity]uint64

	engine *filter.Engine
	source Source
	grid   *cache.SpatialHashGrid

	subMu   sync.RWMutex
	subs    map[int]func(Change)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithSource sets the data source used by Load and RefreshDetectionsWithFilters.
func WithSource(src Source) Option {
	return func(s *Store) { s.source = src }
}

// WithEngine sets the filter engine, and with it the longitude corrector.
func WithEngine(e *filter.Engine) Option {
	return func(s *Store) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithPageSize sets the initial gallery page size.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.gallery.ItemsPerPage = n
		}
	}
}

// New creates a store with default UI state and empty entity sets.
func New(opts ...Option) *Store {
	s := &Store{
		detections: []models.Detection{},
		media:      []models.Media{},
		missions:   []models.Mission{},
		mapState:   models.DefaultMapState(),
		gallery:    models.DefaultGalleryState(),
		seq:        make(map[Entity]uint64),
		engine:     filter.NewEngine(nil),
		grid:       cache.NewSpatialHashGrid(nearbyCellKm),
		subs:       make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the filter engine in use.
func (s *Store) Engine() *filter.Engine {
	return s.engine
}

// ticket starts a request for entity and returns its sequence number.
// Caller must hold the write lock.
func (s *Store) ticketLocked(e Entity) uint64 {
	s.seq[e]++
	return s.seq[e]
}

func (s *Store) ticket(e Entity) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticketLocked(e)
}

// currentLocked reports whether t is still the newest ticket for e.
func (s *Store) currentLocked(e Entity, t uint64) bool {
	return s.seq[e] == t
}
