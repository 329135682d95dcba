// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polling-app API server.

Polling-app is a real-time polling service: clients create polls with
questions and options, others join with a short code, cast and switch
votes, and watch tallies update live over a WebSocket.

# Starting the Server

The server runs with no external services by default (in-memory store):

	go run main.go

With MongoDB:

	POLL_STORE=mongo POLL_MONGO_URI=mongodb://localhost:27017 go run main.go

# Configuration

All settings come from POLL_* environment variables (a .env file is loaded
when present):

  - POLL_PORT: server port (default: 3001)
  - POLL_STORE: "memory" or "mongo" (default: memory)
  - POLL_MONGO_URI: MongoDB connection string (required for mongo)
  - POLL_MONGO_DB: database name (default: polling_app)
  - POLL_ALLOWED_ORIGIN: CORS / WebSocket origin (default: *)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (clients, polls, voting, ws)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error mapping
  - models: domain documents and request/response types
  - auth: client ids, identity cookie, join codes
  - store: identity/poll store interfaces, memory and Mongo backends
  - vote: the vote coordinator (switch-vote state machine)
  - realtime: WebSocket hub, rooms, event fan-out
  - config: environment configuration

See package documentation for each component.
*/
package main
