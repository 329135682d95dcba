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
	"github.com/sebas-ib/polling-app/vote"
)

type VotingHandler struct {
	coordinator *vote.Coordinator
	identity    store.IdentityStore
	hub         *realtime.Hub
}

func NewVotingHandler(coordinator *vote.Coordinator, identity store.IdentityStore, hub *realtime.Hub) *VotingHandler {
	return &VotingHandler{coordinator: coordinator, identity: identity, hub: hub}
}

// CastVote handles POST /api/polls/{id}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	clientID := auth.ClientID(r)
	if clientID == "" {
		middleware.DomainError(w, store.ErrMissingIdentity)
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.QuestionID == "" || req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id and option_id are required")
		return
	}

	result, err := h.coordinator.CastVote(r.Context(), clientID, pollID, req.QuestionID, req.OptionID)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	// An idempotent re-vote changes no counts and emits no event.
	if !result.NoOp {
		slog.Info("vote cast",
			"poll_id", pollID,
			"question_id", req.QuestionID,
			"option_id", req.OptionID,
			"client_id", clientID,
			"switched", result.Switched,
		)

		name, err := h.identity.GetName(r.Context(), clientID)
		if err != nil || name == "" {
			name = models.AnonymousName
		}

		event := models.VoteEvent{
			PollID:     pollID,
			QuestionID: req.QuestionID,
			ClientID:   clientID,
			VoteSentBy: name,
			NewVote: models.VoteTally{
				OptionID:  req.OptionID,
				VoteCount: result.NewCount,
			},
		}
		if result.Switched {
			event.OldVote = &models.VoteTally{
				OptionID:  result.OldOption,
				VoteCount: result.OldCount,
			}
		}
		h.hub.BroadcastRoom(pollID, models.EventVote, event)
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Result:    models.ResultSuccess,
		VotedFor:  result.VotedFor,
		VoteCount: result.NewCount,
	})
}
