// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package geo

import (
	"slices"
	"time"

	"github.com/tomtom215/uavreview/internal/models"
)

// PathColors is cycled across flight paths in mission order.
var PathColors = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6"}

// FlightPath is the track flown during one mission.
type FlightPath struct {
	Mission     string    `json:"mission"`
	Coordinates []LatLng  `json:"coordinates"`
	Color       string    `json:"color"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	// DurationMinutes is the mission window length, rounded.
	DurationMinutes int `json:"durationMinutes"`
}

type trackPoint struct {
	at  time.Time
	pos LatLng
}

// FlightPaths joins media capture positions to mission windows. Each mission
// with a known window and at least two positioned frames inside it yields a
// path ordered by capture time. Frames captured at the same instant keep
// their input order.
func (l *Layers) FlightPaths(missions []models.Mission, media []models.Media) []FlightPath {
	points := make([]trackPoint, 0, len(media))
	for i := range media {
		a := &media[i].MediaAttributes
		if a.Date == nil || !a.HasPosition() {
			continue
		}
		points = append(points, trackPoint{
			at:  *a.Date,
			pos: LatLng{Lat: *a.Latitude, Lng: l.corrector.Correct(*a.Longitude)},
		})
	}
	slices.SortStableFunc(points, func(a, b trackPoint) int { return a.at.Compare(b.at) })

	var out []FlightPath
	for _, m := range missions {
		if !m.HasWindow() {
			continue
		}
		window := models.DateRange{Start: *m.Start, End: *m.End}
		var coords []LatLng
		for _, p := range points {
			if window.Contains(p.at) {
				coords = append(coords, p.pos)
			}
		}
		if len(coords) < 2 {
			continue
		}
		out = append(out, FlightPath{
			Mission:         m.Mnemonic,
			Coordinates:     coords,
			Color:           PathColors[len(out)%len(PathColors)],
			StartTime:       window.Start,
			EndTime:         window.End,
			DurationMinutes: int(window.End.Sub(window.Start).Round(time.Minute) / time.Minute),
		})
	}
	return out
}

// FlightPathFeatures renders flight paths as line features.
func FlightPathFeatures(paths []FlightPath) FeatureCollection {
	fc := newCollection(len(paths))
	for _, p := range paths {
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   lineGeometry(p.Coordinates),
			Properties: p,
		})
	}
	return fc
}
