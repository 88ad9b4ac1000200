// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package geo

import "github.com/tomtom215/uavreview/internal/models"

// Display fallback for detections without a usable media position. It is
// never used by spatial filtering.
const (
	FallbackMarkerLatitude  = 36.8
	FallbackMarkerLongitude = -121.9
)

// DefaultClusterColor is used for clusters outside ClusterColors.
const DefaultClusterColor = "#6B7280"

// ClusterColors maps cluster ids to marker fill colors.
var ClusterColors = map[string]string{
	"Unknown C-1": "#3B82F6",
	"Unknown C-2": "#10B981",
	"Unknown C-3": "#F59E0B",
	"Unknown C-4": "#EF4444",
	"Unknown C-5": "#8B5CF6",
}

// ClusterColor returns the marker color for a cluster id.
func ClusterColor(cluster string) string {
	if c, ok := ClusterColors[cluster]; ok {
		return c
	}
	return DefaultClusterColor
}

// Marker sizes in pixels.
const (
	markerSize         = 16
	verifiedMarkerSize = 20
)

// Marker is one detection drawn on the map.
type Marker struct {
	DetectionID int64   `json:"detectionId"`
	Position    LatLng  `json:"position"`
	Fallback    bool    `json:"fallback"`
	Label       string  `json:"label,omitempty"`
	Cluster     string  `json:"cluster"`
	Color       string  `json:"color"`
	Score       float64 `json:"score"`
	Verified    bool    `json:"verified"`
	Size        int     `json:"size"`
	// Highlighted marks detections shown in the gallery, selected or hovered.
	Highlighted bool `json:"highlighted"`
	Selected    bool `json:"selected"`
	Hovered     bool `json:"hovered"`
}

// MarkerOptions carries the cross-view state that affects marker styling.
type MarkerOptions struct {
	// GalleryVisible holds ids of detections currently listed in the gallery.
	GalleryVisible map[int64]struct{}
	Selected       *int64
	Hovered        *int64
}

// IDSet builds a membership set from detections.
func IDSet(detections []models.Detection) map[int64]struct{} {
	set := make(map[int64]struct{}, len(detections))
	for i := range detections {
		set[detections[i].ID] = struct{}{}
	}
	return set
}

// Markers returns one marker per detection, in input order.
func (l *Layers) Markers(detections []models.Detection, opts MarkerOptions) []Marker {
	out := make([]Marker, 0, len(detections))
	for i := range detections {
		out = append(out, l.marker(&detections[i], &opts))
	}
	return out
}

func (l *Layers) marker(d *models.Detection, opts *MarkerOptions) Marker {
	cluster := d.Attributes.ClusterValue()
	if cluster == "" {
		cluster = "Unknown"
	}
	m := Marker{
		DetectionID: d.ID,
		Label:       d.Attributes.LabelValue(),
		Cluster:     cluster,
		Color:       ClusterColor(cluster),
		Verified:    d.Attributes.IsVerified(),
		Size:        markerSize,
	}
	if d.Attributes.Score != nil {
		m.Score = *d.Attributes.Score
	}
	if m.Verified {
		m.Size = verifiedMarkerSize
	}

	if d.MediaAttributes.HasPosition() {
		m.Position = LatLng{Lat: *d.MediaAttributes.Latitude, Lng: l.corrector.Correct(*d.MediaAttributes.Longitude)}
	} else {
		m.Position = LatLng{Lat: FallbackMarkerLatitude, Lng: FallbackMarkerLongitude}
		m.Fallback = true
	}

	m.Selected = opts.Selected != nil && *opts.Selected == d.ID
	m.Hovered = opts.Hovered != nil && *opts.Hovered == d.ID
	_, inGallery := opts.GalleryVisible[d.ID]
	m.Highlighted = inGallery || m.Selected || m.Hovered
	return m
}

// MarkerFeatures renders markers as point features.
func MarkerFeatures(markers []Marker) FeatureCollection {
	fc := newCollection(len(markers))
	for _, m := range markers {
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			ID:         m.DetectionID,
			Geometry:   pointGeometry(m.Position),
			Properties: m,
		})
	}
	return fc
}
