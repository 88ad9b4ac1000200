// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package geo builds the map layers: media footprint polygons, detection
// markers and mission flight paths. Every layer applies the same longitude
// corrector as the filter engine, so a point drawn on the map is a point the
// bounds predicate would match.
//
// Layers are returned as plain structs and can be rendered as GeoJSON feature
// collections. GeoJSON positions are [longitude, latitude].
package geo

import "github.com/tomtom215/uavreview/internal/filter"

// LatLng is a position in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// position returns the GeoJSON [lon, lat] pair.
func (p LatLng) position() []float64 {
	return []float64{p.Lng, p.Lat}
}

// Geometry is a GeoJSON geometry. Coordinates nest according to Type.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string   `json:"type"`
	ID         int64    `json:"id,omitempty"`
	Geometry   Geometry `json:"geometry"`
	Properties any      `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func newCollection(n int) FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, n)}
}

func pointGeometry(p LatLng) Geometry {
	return Geometry{Type: "Point", Coordinates: p.position()}
}

func lineGeometry(points []LatLng) Geometry {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = p.position()
	}
	return Geometry{Type: "LineString", Coordinates: coords}
}

func polygonGeometry(ring []LatLng) Geometry {
	coords := make([][]float64, len(ring))
	for i, p := range ring {
		coords[i] = p.position()
	}
	return Geometry{Type: "Polygon", Coordinates: [][][]float64{coords}}
}

// Layers builds map layers with one longitude corrector.
type Layers struct {
	corrector filter.LongitudeCorrector
}

// NewLayers returns a layer builder. A nil corrector defaults to
// filter.WesternHemisphere.
func NewLayers(corrector filter.LongitudeCorrector) *Layers {
	if corrector == nil {
		corrector = filter.WesternHemisphere
	}
	return &Layers{corrector: corrector}
}
