// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package cache

import (
	"math"
	"sort"
	"sync"
)

const kmPerDegree = 111.0

// SpatialHashGrid buckets points into fixed-size lat/lon cells so a radius
// query only inspects the cells around the query point.
type SpatialHashGrid struct {
	mu       sync.RWMutex
	cells    map[CellKey][]*SpatialEntry
	cellSize float64 // degrees
	entries  map[int64]*SpatialEntry
}

// CellKey is a grid cell coordinate.
type CellKey struct {
	X, Y int
}

// SpatialEntry is one indexed point.
type SpatialEntry struct {
	ID  int64
	Lat float64
	Lon float64

	// DistanceKm is filled in by QueryNearby.
	DistanceKm float64

	cellKey CellKey
}

// NewSpatialHashGrid creates a grid with cells of roughly cellSizeKm.
// Non-positive sizes default to 1 km, which suits a single survey area.
func NewSpatialHashGrid(cellSizeKm float64) *SpatialHashGrid {
	if cellSizeKm <= 0 {
		cellSizeKm = 1
	}
	return &SpatialHashGrid{
		cells:    make(map[CellKey][]*SpatialEntry),
		cellSize: cellSizeKm / kmPerDegree,
		entries:  make(map[int64]*SpatialEntry),
	}
}

func (g *SpatialHashGrid) cellKey(lat, lon float64) CellKey {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return CellKey{
		X: int(math.Floor(lon / g.cellSize)),
		Y: int(math.Floor(lat / g.cellSize)),
	}
}

// Insert adds or moves the point with the given id.
func (g *SpatialHashGrid) Insert(id int64, lat, lon float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.insertLocked(id, lat, lon)
}

func (g *SpatialHashGrid) insertLocked(id int64, lat, lon float64) {
	if existing, ok := g.entries[id]; ok {
		g.removeFromCellLocked(existing)
	}
	e := &SpatialEntry{ID: id, Lat: lat, Lon: lon, cellKey: g.cellKey(lat, lon)}
	g.cells[e.cellKey] = append(g.cells[e.cellKey], e)
	g.entries[id] = e
}

// Replace swaps the whole index for points in one step.
func (g *SpatialHashGrid) Replace(points []SpatialEntry) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cells = make(map[CellKey][]*SpatialEntry, len(points))
	g.entries = make(map[int64]*SpatialEntry, len(points))
	for _, p := range points {
		g.insertLocked(p.ID, p.Lat, p.Lon)
	}
}

// Remove deletes the point with id.
func (g *SpatialHashGrid) Remove(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[id]
	if !ok {
		return false
	}
	g.removeFromCellLocked(e)
	delete(g.entries, id)
	return true
}

func (g *SpatialHashGrid) removeFromCellLocked(e *SpatialEntry) {
	cell := g.cells[e.cellKey]
	for i, c := range cell {
		if c.ID == e.ID {
			cell[i] = cell[len(cell)-1]
			cell = cell[:len(cell)-1]
			break
		}
	}
	if len(cell) == 0 {
		delete(g.cells, e.cellKey)
		return
	}
	g.cells[e.cellKey] = cell
}

// Get returns a copy of the point with id.
func (g *SpatialHashGrid) Get(id int64) (SpatialEntry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.entries[id]
	if !ok {
		return SpatialEntry{}, false
	}
	return *e, true
}

// QueryNearby returns the points within radiusKm of (lat, lon), nearest
// first. Ties are broken by id.
func (g *SpatialHashGrid) QueryNearby(lat, lon, radiusKm float64) []SpatialEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()

	span := int(math.Ceil(radiusKm/kmPerDegree/g.cellSize)) + 1
	center := g.cellKey(lat, lon)

	var results []SpatialEntry
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for _, e := range g.cells[CellKey{X: center.X + dx, Y: center.Y + dy}] {
				if d := haversineDistance(lat, lon, e.Lat, e.Lon); d <= radiusKm {
					hit := *e
					hit.DistanceKm = d
					results = append(results, hit)
				}
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].ID < results[j].ID
	})
	return results
}

// Size returns the number of indexed points.
func (g *SpatialHashGrid) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// NumCells returns the number of non-empty cells.
func (g *SpatialHashGrid) NumCells() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// haversineDistance returns the great-circle distance in km.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
