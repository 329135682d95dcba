// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers: request
logging, JSON response/parse helpers, CORS, and the mapping from the store
error taxonomy onto HTTP status codes (DomainError). Unexpected errors are
logged and surfaced as a generic 500; internals never reach the client.
*/
package middleware
