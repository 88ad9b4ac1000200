// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
Package websocket pushes cross-view state changes to connected dashboard views.

Every view (map, gallery, filter panel, timeline) that holds a connection is
notified when the shared review state changes, so a selection made on the map
is reflected in the gallery without polling.

Key Components:

  - Hub: registers clients and fans messages out to them
  - Client: one connection with a read and a write goroutine
  - Handler: upgrades HTTP requests and attaches clients to the hub

Architecture:

	store.Subscribe ─┐
	                 ├─► Hub ─► Client1, Client2, ...
	timeline.OnChange┘

Each client has two goroutines:
  - readPump: reads client messages (ping, resync) and extends the read deadline
  - writePump: writes queued messages and keepalive pings

Message Types:

  - welcome: sent on connect, carries the current snapshot
  - state: one committed store change (kind, data, at)
  - timeline: playback status after every tick, seek, play or pause
  - pong: reply to a client ping

A client may send {"type":"resync"} to receive a fresh welcome snapshot.

Delivery:

Broadcasting never blocks the caller. A full hub queue drops the message with
a warning; a client whose send buffer is full is disconnected and is expected
to reconnect and resync.
*/
package websocket
