// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package models

import "time"

// Mission is a named operational time window. Either bound may be unknown.
type Mission struct {
	Mnemonic string     `json:"mnemonic"`
	Start    *time.Time `json:"start_datetime,omitempty"`
	End      *time.Time `json:"end_datetime,omitempty"`
}

// HasWindow reports whether both start and end are known.
func (m Mission) HasWindow() bool {
	return m.Start != nil && m.End != nil
}

// RawMission is one entry of the static missions resource. Older files use
// name/id and *_date keys instead of mneumonic and *_datetime.
type RawMission struct {
	Mneumonic     string `json:"mneumonic"`
	Name          string `json:"name"`
	ID            any    `json:"id"`
	StartDatetime string `json:"start_datetime"`
	StartDate     string `json:"start_date"`
	EndDatetime   string `json:"end_datetime"`
	EndDate       string `json:"end_date"`
}
