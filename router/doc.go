// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires handlers to routes using Go 1.22+ ServeMux patterns.
All API routes live under /api; the WebSocket endpoint is /ws.
*/
package router
