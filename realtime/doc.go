// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime fans poll events out over WebSockets.

# Hub

A single Hub goroutine owns every connection, the connection->client-id
mapping, and room membership (one room per poll). Connections register at
upgrade time with whatever identity cookie they carry and may join a poll's
room by sending:

	{"action": "join_poll", "poll_id": "..."}

Joining a room leaves the previous one.

# Events

Server->client messages use the envelope {"event": name, "data": payload}:

  - refreshPolls: global, on poll creation
  - vote_event: poll room, on every successful vote
  - lock_poll_event: poll room, on an owner lock toggle
  - toggle_results_event: global, on an owner visibility toggle

# Delivery

Delivery is best-effort and at-most-once. A consumer whose send buffer is
full is disconnected rather than allowed to block the hub, and there is no
replay; clients that missed events reconcile by re-joining the poll over
HTTP. Connection state is process-local and never persisted.
*/
package realtime
