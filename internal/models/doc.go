// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
Package models defines the domain types shared across the review dashboard.

Entities:
  - Detection: a bounding-box annotation on one image, with typed review attributes
  - Media: one captured frame with normalized geospatial and temporal attributes
  - Mission: a named flight time window

View state:
  - FilterSpec / FilterPatch: the active conjunction of filter predicates
  - MapState, GalleryState: viewport, layer visibility and gallery pagination

Raw upstream records (RawDetection, RawMedia, RawMission) are decoded loosely so a
single malformed record never aborts a batch. The normalize package converts them
into the canonical types defined here.
*/
package models
