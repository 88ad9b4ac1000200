// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope every JSON endpoint returns.
//
// Successful response:
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "page": 1, "totalPages": 4},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "query_time_ms": 3}
//	}
//
// Error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"},
//	  "error": {"code": "VALIDATION_ERROR", "message": "south must not exceed north"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error code with a human-readable message.
//
// Codes used by the server:
//   - VALIDATION_ERROR: malformed query parameter or request body
//   - NOT_FOUND: unknown detection, media or layer
//   - CONFLICT: a newer refresh superseded this one
//   - NO_RANGE: playback requested before a mission range is known
//   - SERVICE_UNAVAILABLE: no data source configured
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Uptime        float64           `json:"uptime_seconds"`
	Detections    int               `json:"detections"`
	Media         int               `json:"media"`
	Missions      int               `json:"missions"`
	Breakers      map[string]string `json:"circuit_breakers,omitempty"`
	WSClients     int               `json:"websocket_clients"`
	PlaybackState string            `json:"playback_state"`
}
