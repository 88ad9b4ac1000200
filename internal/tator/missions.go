// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package tator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/normalize"
)

// LoadMissions reads the static mission list from a local file or an
// http(s) URL. Entries without any identifier are skipped.
func LoadMissions(ctx context.Context, path string, hc *http.Client) ([]models.Mission, error) {
	if path == "" {
		return nil, fmt.Errorf("missions path is empty")
	}

	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		body, err = fetchMissions(ctx, path, hc)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load missions from %s: %w", path, err)
	}

	var raw []models.RawMission
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode missions from %s: %w", path, err)
	}
	return normalize.Missions(raw), nil
}

func fetchMissions(ctx context.Context, url string, hc *http.Client) ([]byte, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: "missions", Code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
