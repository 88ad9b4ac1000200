// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
Command server runs the UAV detection review backend.

It loads detections, media and missions from a Tator annotation service,
holds the shared review state in memory and serves it over a REST API, a
WebSocket change stream and Prometheus metrics.

# Supervisor Tree

	RootSupervisor ("uavreview")
	├── DataSupervisor ("data-layer")
	│   ├── initial-loader
	│   └── graphics-cache-cleanup
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   └── timeline
	└── APISupervisor ("api-layer")
	    └── http-server

The HTTP server starts immediately; until the loader finishes, the API
serves an empty store.

# Configuration

Settings come from defaults, then a YAML file (CONFIG_PATH or config.yaml),
then environment variables. The most common ones:

	TATOR_HOST            Tator base URL (default http://localhost:8080)
	TATOR_TOKEN           API token
	PROJECT_ID            Tator project (default 4)
	BOX_TYPE              Localization box type (default 3)
	API_TIMEOUT           Per-request timeout, ms or duration (default 3000)
	MISSIONS_PATH         Mission list file or URL (default missions.json)
	HTTP_PORT             Listen port (default 8090)
	CORS_ORIGINS          Comma-separated allowed origins
	LONGITUDE_CORRECTION  west or none (default west)
	PLAYBACK_STEP         Simulated time per tick (default 5m)
	PLAYBACK_INTERVAL     Wall time per tick (default 1s)
	LOG_LEVEL             trace, debug, info, warn, error

When a config file is in use its log level is reloaded on change.
*/
package main
