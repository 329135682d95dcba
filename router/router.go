// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/sebas-ib/polling-app/config"
	"github.com/sebas-ib/polling-app/handlers"
	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/realtime"
	"github.com/sebas-ib/polling-app/store"
	"github.com/sebas-ib/polling-app/vote"
)

func NewRouter(cfg config.Config, identity store.IdentityStore, polls store.PollStore, coordinator *vote.Coordinator, hub *realtime.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(identity)
	pollHandler := handlers.NewPollHandler(polls, identity, hub)
	votingHandler := handlers.NewVotingHandler(coordinator, identity, hub)
	wsHandler := handlers.NewWSHandler(hub, cfg.AllowedOrigin)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Client identity
	mux.HandleFunc("POST /api/clients/resolve", middleware.WithLogging(clientHandler.Resolve))
	mux.HandleFunc("POST /api/clients/name", middleware.WithLogging(clientHandler.SetName))
	mux.HandleFunc("GET /api/clients/name", middleware.WithLogging(clientHandler.GetName))

	// Polls
	mux.HandleFunc("GET /api/polls", middleware.WithLogging(pollHandler.List))
	mux.HandleFunc("POST /api/polls", middleware.WithLogging(pollHandler.Create))
	mux.HandleFunc("POST /api/polls/join", middleware.WithLogging(pollHandler.Join))
	mux.HandleFunc("POST /api/polls/{id}/toggle-lock", middleware.WithLogging(pollHandler.ToggleLock))
	mux.HandleFunc("POST /api/polls/{id}/toggle-results", middleware.WithLogging(pollHandler.ToggleResults))

	// Voting
	mux.HandleFunc("POST /api/polls/{id}/vote", middleware.WithLogging(votingHandler.CastVote))

	// Realtime channel (no logging wrapper; the connection is long-lived)
	mux.HandleFunc("GET /ws", wsHandler.Connect)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("polling-app API v1"))
	})

	return mux
}
