// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package tator

import (
	"fmt"

	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/normalize"
)

// Fallback data served when the upstream cannot be reached. It matches the
// demo dataset the dashboard has always shipped with.

const mockHost = "https://mbari-uav-data.svx.axds.co"

func ptr[T any](v T) *T { return &v }

func mockRawDetections() []models.RawDetection {
	type spec struct {
		id                  int64
		label               string
		score               float64
		cluster, comment    string
		saliency            float64
		verified            bool
		created             string
		x, y, width, height float64
		modifiedBy          int64
	}
	specs := []spec{
		{1, "Bird", 0.7553, "Unknown C-1", "", -1, false, "2024-01-15T10:30:00Z", 100, 150, 200, 300, 1},
		{2, "Kelp", 0.9234, "Unknown C-2", "Large kelp bed", 0.8, true, "2024-01-15T11:45:00Z", 300, 200, 400, 250, 1},
		{3, "Whale", 1.0, "Unknown C-1", "Humpback whale", 0.9, true, "2024-01-15T12:15:00Z", 150, 100, 300, 400, 2},
	}

	out := make([]models.RawDetection, 0, len(specs))
	for _, s := range specs {
		out = append(out, models.RawDetection{
			ID: s.id,
			Attributes: map[string]any{
				models.AttrLabel:    s.label,
				models.AttrScore:    s.score,
				models.AttrDelete:   false,
				models.AttrCluster:  s.cluster,
				models.AttrComment:  s.comment,
				models.AttrSaliency: s.saliency,
				models.AttrVerified: s.verified,
			},
			CreatedDatetime:  s.created,
			ModifiedDatetime: s.created,
			X:                ptr(s.x),
			Y:                ptr(s.y),
			Width:            ptr(s.width),
			Height:           ptr(s.height),
			ElementalID:      fmt.Sprintf("uuid-%d", s.id),
			Media:            ptr(s.id),
			ModifiedBy:       ptr(s.modifiedBy),
			Version:          ptr(int64(1)),
		})
	}
	return out
}

// MockDetections returns the fallback detections joined with the fallback media.
func MockDetections() []models.Detection {
	return normalize.Detections(mockRawDetections(), MockMedia())
}

// MockMedia returns the fallback media list.
func MockMedia() []models.Media {
	const source = mockHost + "/trinity-2_20250404T173830_Seymour/SONY_DSC-RX1RM2/trinity-2_20250404T173830_Seymour_DSC02050.JPG"
	attrs := map[string]any{
		"date":      "2025-06-11T00:46:38+00:00",
		"make":      "SONY",
		"model":     "DSC-RX1RM2",
		"FileType":  "JPEG",
		"altitude":  58.6133999167707,
		"latitude":  36.96728886599935,
		"longitude": 121.90745440500415,
	}
	modified, _ := normalize.ParseTime("2024-01-15T10:30:00Z")
	return []models.Media{{
		ID:               1,
		Name:             "trinity-2_20250404T173830_Seymour_DSC02050.JPG",
		Width:            ptr(5304),
		Height:           ptr(7952),
		ModifiedDatetime: &modified,
		Attributes:       attrs,
		MediaAttributes:  normalize.MediaAttributes(attrs),
		MediaFiles: models.MediaFiles{
			"image":     {{Mime: "image/mpo", Path: source, Size: 9575443, Resolution: [2]int{5304, 7952}}},
			"thumbnail": {{Mime: "image/None", Path: "7/4/444447/thumb.jpg", Size: 2450, Resolution: [2]int{171, 256}}},
		},
		SourceURL:   source,
		ElementalID: "media-uuid-1",
		ModifiedBy:  ptr(int64(1)),
	}}
}

// MockMediaByID returns the fallback record for a single media lookup.
func MockMediaByID(id int64) models.Media {
	attrs := map[string]any{
		"date":                "2025-06-18T16:54:42+00:00",
		"make":                "SONY",
		"model":               "DSC-RX1RM2",
		"FileType":            "JPEG",
		"altitude":            67.5924,
		"latitude":            36.9467414919991,
		"longitude":           122.0672223969985,
		"tator_user_sections": "e7e1ef20-9bf2-11f0-911f-45b3095cc69a",
	}
	modified, _ := normalize.ParseTime("2025-09-27T22:41:01.136Z")
	return models.Media{
		ID:               id,
		Name:             "trinity-2_20250618T165438_Seymour_DSC02478.JPG",
		Width:            ptr(7952),
		Height:           ptr(5304),
		ModifiedDatetime: &modified,
		Attributes:       attrs,
		MediaAttributes:  normalize.MediaAttributes(attrs),
		MediaFiles: models.MediaFiles{
			"image":     {{Mime: "image/png", Path: fmt.Sprintf("1/4/%d/image.png", id), Size: 43089680, Resolution: [2]int{5304, 7952}}},
			"thumbnail": {{Mime: "image/None", Path: fmt.Sprintf("1/4/%d/thumb.jpg", id), Size: 5392, Resolution: [2]int{171, 256}}},
		},
		SourceURL:   fmt.Sprintf("%s/media/%d", mockHost, id),
		ElementalID: "53f351b4-79b4-4b8e-a04a-1ef524bc521f",
		ModifiedBy:  ptr(int64(1)),
	}
}

// MockPermalink returns the fallback permalink for a media item.
func MockPermalink(id int64) string {
	return fmt.Sprintf("%s/media/%d/permalink", mockHost, id)
}

// MockMissions returns the fallback mission list.
func MockMissions() []models.Mission {
	return normalize.Missions([]models.RawMission{
		{Mneumonic: "TRINITY-2-20250404", StartDatetime: "2024-01-15T08:00:00Z", EndDatetime: "2024-01-15T16:00:00Z"},
		{Mneumonic: "TRINITY-2-20250405", StartDatetime: "2024-01-16T08:00:00Z", EndDatetime: "2024-01-16T16:00:00Z"},
	})
}
