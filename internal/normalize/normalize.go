// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package normalize converts loosely typed annotation-service records into the
// canonical models. Every function here is pure. Fields that are missing or
// malformed are omitted from the output; they are never replaced by zero.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/uavreview/internal/models"
)

// dateLayouts are tried in order when parsing capture and record timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05",
	"2006-01-02",
}

// ParseTime parses an ISO-8601-like timestamp. Values without a zone are UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimePtr(s string) *time.Time {
	t, ok := ParseTime(s)
	if !ok {
		return nil
	}
	return &t
}

// Float coerces a decoded JSON value to a finite float64.
func Float(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatPtr(v any) *float64 {
	f, ok := Float(v)
	if !ok {
		return nil
	}
	return &f
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// MediaAttributes extracts the typed capture attributes from a raw media
// attribute map. Longitude is copied verbatim.
func MediaAttributes(raw map[string]any) models.MediaAttributes {
	var out models.MediaAttributes
	if raw == nil {
		return out
	}
	if s, ok := stringValue(raw["date"]); ok {
		out.Date = parseTimePtr(s)
	}
	if s, ok := stringValue(raw["make"]); ok {
		out.Make = s
	}
	if s, ok := stringValue(raw["model"]); ok {
		out.Model = s
	}
	if s, ok := stringValue(raw["FileType"]); ok {
		out.FileType = s
	}
	out.Altitude = floatPtr(raw["altitude"])
	out.Latitude = floatPtr(raw["latitude"])
	out.Longitude = floatPtr(raw["longitude"])
	return out
}

// DetectionAttributes splits a raw attribute map into typed review fields and
// an opaque passthrough bag. A known key whose value has the wrong type is
// dropped rather than kept as an untyped value.
func DetectionAttributes(raw map[string]any) models.DetectionAttributes {
	var out models.DetectionAttributes
	for k, v := range raw {
		switch k {
		case models.AttrLabel:
			if s, ok := stringValue(v); ok {
				out.Label = &s
			}
		case models.AttrCluster:
			if s, ok := stringValue(v); ok {
				out.Cluster = &s
			}
		case models.AttrComment:
			if s, ok := stringValue(v); ok {
				out.Comment = &s
			}
		case models.AttrScore:
			out.Score = floatPtr(v)
		case models.AttrSaliency:
			out.Saliency = floatPtr(v)
		case models.AttrVerified:
			if b, ok := v.(bool); ok {
				out.Verified = &b
			}
		case models.AttrDelete:
			if b, ok := v.(bool); ok {
				out.Delete = &b
			}
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[k] = v
		}
	}
	return out
}

// MediaFiles decodes the per-kind rendition table. Kinds that fail to decode
// are skipped.
func MediaFiles(raw json.RawMessage) models.MediaFiles {
	if len(raw) == 0 {
		return nil
	}
	var kinds map[string]json.RawMessage
	if err := json.Unmarshal(raw, &kinds); err != nil {
		return nil
	}
	out := make(models.MediaFiles, len(kinds))
	for kind, body := range kinds {
		var files []models.MediaFile
		if err := json.Unmarshal(body, &files); err != nil {
			continue
		}
		out[kind] = files
	}
	return out
}

// Media normalizes one raw media record.
func Media(raw models.RawMedia) models.Media {
	attrs := raw.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return models.Media{
		ID:               raw.ID,
		Name:             raw.Name,
		Width:            raw.Width,
		Height:           raw.Height,
		ModifiedDatetime: parseTimePtr(raw.ModifiedDatetime),
		Attributes:       attrs,
		MediaAttributes:  MediaAttributes(attrs),
		MediaFiles:       MediaFiles(raw.MediaFiles),
		SourceURL:        raw.SourceURL,
		ElementalID:      raw.ElementalID,
		ModifiedBy:       raw.ModifiedBy,
	}
}

// MediaList normalizes a batch of raw media records.
func MediaList(raw []models.RawMedia) []models.Media {
	out := make([]models.Media, 0, len(raw))
	for i := range raw {
		out = append(out, Media(raw[i]))
	}
	return out
}

// Detection normalizes one raw localization and joins the normalized
// attributes of the media it references, when that media is known.
func Detection(raw models.RawDetection, media map[int64]models.MediaAttributes) models.Detection {
	d := models.Detection{
		ID:               raw.ID,
		X:                raw.X,
		Y:                raw.Y,
		Width:            raw.Width,
		Height:           raw.Height,
		Attributes:       DetectionAttributes(raw.Attributes),
		CreatedDatetime:  parseTimePtr(raw.CreatedDatetime),
		ModifiedDatetime: parseTimePtr(raw.ModifiedDatetime),
		MediaID:          raw.Media,
		ElementalID:      raw.ElementalID,
		ModifiedBy:       raw.ModifiedBy,
		Version:          raw.Version,
	}
	if raw.Media != nil {
		if attrs, ok := media[*raw.Media]; ok {
			d.MediaAttributes = &attrs
		}
	}
	return d
}

// Detections normalizes a batch of localizations against a media set.
func Detections(raw []models.RawDetection, media []models.Media) []models.Detection {
	index := MediaIndex(media)
	out := make([]models.Detection, 0, len(raw))
	for i := range raw {
		out = append(out, Detection(raw[i], index))
	}
	return out
}

// MediaIndex maps media id to normalized attributes.
func MediaIndex(media []models.Media) map[int64]models.MediaAttributes {
	index := make(map[int64]models.MediaAttributes, len(media))
	for i := range media {
		index[media[i].ID] = media[i].MediaAttributes
	}
	return index
}

// Mission normalizes one mission entry. It returns false when no identifier
// can be derived.
func Mission(raw models.RawMission) (models.Mission, bool) {
	name := raw.Mneumonic
	if name == "" {
		name = raw.Name
	}
	if name == "" && raw.ID != nil {
		switch id := raw.ID.(type) {
		case string:
			name = id
		case float64:
			name = strconv.FormatFloat(id, 'f', -1, 64)
		default:
			if f, ok := Float(id); ok {
				name = strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
	}
	if name == "" {
		return models.Mission{}, false
	}
	start := raw.StartDatetime
	if start == "" {
		start = raw.StartDate
	}
	end := raw.EndDatetime
	if end == "" {
		end = raw.EndDate
	}
	return models.Mission{
		Mnemonic: name,
		Start:    parseTimePtr(start),
		End:      parseTimePtr(end),
	}, true
}

// Missions normalizes a batch of mission entries, skipping unnamed ones.
func Missions(raw []models.RawMission) []models.Mission {
	out := make([]models.Mission, 0, len(raw))
	for i := range raw {
		if m, ok := Mission(raw[i]); ok {
			out = append(out, m)
		}
	}
	return out
}
