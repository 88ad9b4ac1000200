// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
Package supervisor runs the server's long-lived components under a suture v4
supervisor tree.

# Overview

Services are grouped into three layers so a crash in one does not restart
the others:

	RootSupervisor ("uavreview")
	├── DataSupervisor ("data-layer")
	│   ├── LoaderService (initial Tator fetch, then seeds the timeline)
	│   └── RoutineService "graphics-cache-cleanup"
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket.Hub
	│   └── timeline.Controller
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The hub and the timeline controller implement suture.Service themselves.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewLoaderService(load, seed))
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

# Failure Handling

Failures decay over FailureDecay seconds. Once the count exceeds
FailureThreshold the supervisor waits FailureBackoff before the next
restart. A service returning suture.ErrDoNotRestart is removed from its
supervisor; the loader does this after its first successful fetch.

Supervisor events are logged through sutureslog, which writes to the
global zerolog logger via logging.NewSlogLogger.
*/
package supervisor
