// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/realtime"
	"github.com/sebas-ib/polling-app/store"
)

type PollHandler struct {
	polls    store.PollStore
	identity store.IdentityStore
	hub      *realtime.Hub
}

func NewPollHandler(polls store.PollStore, identity store.IdentityStore, hub *realtime.Hub) *PollHandler {
	return &PollHandler{polls: polls, identity: identity, hub: hub}
}

// List handles GET /api/polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.polls.List(r.Context())
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{Polls: summaries})
}

// Create handles POST /api/polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientID(r)
	if clientID == "" {
		middleware.DomainError(w, store.ErrMissingIdentity)
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Questions) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one question is required")
		return
	}

	poll, err := h.polls.Create(r.Context(), req.Title, clientID, req.Questions)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "code", poll.JoinCode, "owner", clientID)

	// The event goes out only after the poll is persisted.
	h.hub.Broadcast(models.EventRefreshPolls, models.RefreshPollsEvent{
		ID:    poll.ID,
		Title: poll.Title,
	})

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		ID:    poll.ID,
		Title: poll.Title,
		Code:  poll.JoinCode,
	})
}

// Join handles POST /api/polls/join
// Adds the client to the poll's participants and returns the poll along
// with the client's active votes for it, so a reconnecting client can
// reconcile missed events.
func (h *PollHandler) Join(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientID(r)
	if clientID == "" {
		middleware.DomainError(w, store.ErrMissingIdentity)
		return
	}

	var req models.JoinPollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}

	poll, err := h.polls.GetByCode(r.Context(), req.Code)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	poll, err = h.polls.Join(r.Context(), poll.ID, clientID)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	saved := map[string]string{}
	if client, err := h.identity.GetClient(r.Context(), clientID); err == nil {
		for _, q := range poll.Questions {
			if optionID, ok := client.SavedVotes[q.ID]; ok {
				saved[q.ID] = optionID
			}
		}
	}

	slog.Info("client joined poll", "poll_id", poll.ID, "client_id", clientID)

	middleware.JSONResponse(w, http.StatusOK, models.JoinPollResponse{
		Poll:       poll,
		SavedVotes: saved,
	})
}

// ToggleLock handles POST /api/polls/{id}/toggle-lock
func (h *PollHandler) ToggleLock(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	clientID := auth.ClientID(r)
	if clientID == "" {
		middleware.DomainError(w, store.ErrMissingIdentity)
		return
	}

	poll, err := h.polls.Get(r.Context(), pollID)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	locked, err := h.polls.SetLock(r.Context(), pollID, clientID, !poll.VotingLocked)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	slog.Info("poll lock toggled", "poll_id", pollID, "voting_locked", locked)

	h.hub.BroadcastRoom(pollID, models.EventLockPoll, models.LockPollEvent{
		PollID:       pollID,
		VotingLocked: locked,
	})

	middleware.JSONResponse(w, http.StatusOK, models.ToggleLockResponse{VotingLocked: locked})
}

// ToggleResults handles POST /api/polls/{id}/toggle-results
func (h *PollHandler) ToggleResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	clientID := auth.ClientID(r)
	if clientID == "" {
		middleware.DomainError(w, store.ErrMissingIdentity)
		return
	}

	poll, err := h.polls.Get(r.Context(), pollID)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	visible, err := h.polls.SetVisibility(r.Context(), pollID, clientID, !poll.ShowResults)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	slog.Info("poll results toggled", "poll_id", pollID, "show_results", visible)

	h.hub.Broadcast(models.EventToggleResults, models.ToggleResultsEvent{
		PollID:      pollID,
		ShowResults: visible,
	})

	middleware.JSONResponse(w, http.StatusOK, models.ToggleResultsResponse{ShowResults: visible})
}
