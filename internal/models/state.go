// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package models

// Map defaults centre the view on Monterey Bay.
const (
	DefaultMapLatitude  = 36.8
	DefaultMapLongitude = -121.9
	DefaultMapZoom      = 11
	MinMapZoom          = 1
	MaxMapZoom          = 20
)

// Layer names accepted by the layer toggle.
const (
	LayerBasemap          = "basemap"
	LayerNauticalOverlay  = "nauticalOverlay"
	LayerFlightPaths      = "flightPaths"
	LayerMediaFootprints  = "mediaFootprints"
	LayerDetectionMarkers = "detectionMarkers"
)

// LayerVisibility holds the on/off state of each map layer.
type LayerVisibility struct {
	Basemap          bool `json:"basemap"`
	NauticalOverlay  bool `json:"nauticalOverlay"`
	FlightPaths      bool `json:"flightPaths"`
	MediaFootprints  bool `json:"mediaFootprints"`
	DetectionMarkers bool `json:"detectionMarkers"`
}

// Toggle flips the named layer. It returns false for an unknown name.
func (l *LayerVisibility) Toggle(name string) bool {
	switch name {
	case LayerBasemap:
		l.Basemap = !l.Basemap
	case LayerNauticalOverlay:
		l.NauticalOverlay = !l.NauticalOverlay
	case LayerFlightPaths:
		l.FlightPaths = !l.FlightPaths
	case LayerMediaFootprints:
		l.MediaFootprints = !l.MediaFootprints
	case LayerDetectionMarkers:
		l.DetectionMarkers = !l.DetectionMarkers
	default:
		return false
	}
	return true
}

// MapState is the map viewport plus selection and layer visibility.
type MapState struct {
	Center            [2]float64      `json:"center"`
	Zoom              int             `json:"zoom"`
	Bounds            *MapBounds      `json:"bounds,omitempty"`
	SelectedDetection *int64          `json:"selectedDetection,omitempty"`
	HoveredDetection  *int64          `json:"hoveredDetection,omitempty"`
	Layers            LayerVisibility `json:"layerVisibility"`
}

// DefaultMapState returns the initial map state.
func DefaultMapState() MapState {
	return MapState{
		Center: [2]float64{DefaultMapLatitude, DefaultMapLongitude},
		Zoom:   DefaultMapZoom,
		Layers: LayerVisibility{
			Basemap:          true,
			NauticalOverlay:  true,
			FlightPaths:      true,
			MediaFootprints:  true,
			DetectionMarkers: true,
		},
	}
}

// MapPatch is a partial viewport update.
type MapPatch struct {
	Center *[2]float64 `json:"center,omitempty"`
	Zoom   *int        `json:"zoom,omitempty"`
	Bounds *MapBounds  `json:"bounds,omitempty"`
}

// Gallery option values.
const (
	ViewModeGrid = "grid"
	ViewModeList = "list"

	SortByDate       = "date"
	SortByConfidence = "confidence"
	SortByCluster    = "cluster"

	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultItemsPerPage = 30
)

// GalleryState is the gallery's view mode, sort and pagination. An empty
// SelectedConfidence means no confidence tab is selected.
type GalleryState struct {
	SelectedConfidence string `json:"selectedConfidenceLevel,omitempty"`
	ViewMode           string `json:"viewMode"`
	SortBy             string `json:"sortBy"`
	SortOrder          string `json:"sortOrder"`
	CurrentPage        int    `json:"currentPage"`
	ItemsPerPage       int    `json:"itemsPerPage"`
}

// DefaultGalleryState returns the initial gallery state.
func DefaultGalleryState() GalleryState {
	return GalleryState{
		ViewMode:     ViewModeGrid,
		SortBy:       SortByDate,
		SortOrder:    SortDesc,
		CurrentPage:  1,
		ItemsPerPage: DefaultItemsPerPage,
	}
}

// GalleryPatch is a partial gallery update.
type GalleryPatch struct {
	SelectedConfidence *string `json:"selectedConfidenceLevel,omitempty" validate:"omitempty,oneof=high medium low any"`
	ViewMode           *string `json:"viewMode,omitempty" validate:"omitempty,oneof=grid list"`
	SortBy             *string `json:"sortBy,omitempty" validate:"omitempty,oneof=date confidence cluster"`
	SortOrder          *string `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
	CurrentPage        *int    `json:"currentPage,omitempty" validate:"omitempty,min=1"`
	ItemsPerPage       *int    `json:"itemsPerPage,omitempty" validate:"omitempty,min=1,max=500"`
}
