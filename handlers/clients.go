// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/store"
)

type ClientHandler struct {
	identity store.IdentityStore
}

func NewClientHandler(identity store.IdentityStore) *ClientHandler {
	return &ClientHandler{identity: identity}
}

// Resolve handles POST /api/clients/resolve
// Returns the client for the identity cookie, or issues a fresh identity
// (and the cookie for it) when the request carries none or an unknown one.
func (h *ClientHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := auth.ClientID(r)

	client, isNew, err := h.identity.ResolveOrCreate(r.Context(), token)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	result := models.ResultSuccess
	if isNew {
		auth.SetClientCookie(w, client.ID)
		result = models.ResultNew
		slog.Info("client created", "client_id", client.ID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResolveClientResponse{
		ClientID:   client.ID,
		ClientName: client.Name,
		Result:     result,
	})
}

// SetName handles POST /api/clients/name
func (h *ClientHandler) SetName(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientID(r)
	if clientID == "" {
		middleware.DomainError(w, store.ErrMissingIdentity)
		return
	}

	var req models.SetNameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name, err := h.identity.SetName(r.Context(), clientID, req.ClientName)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	slog.Info("client renamed", "client_id", clientID, "name", name)

	middleware.JSONResponse(w, http.StatusOK, models.SetNameResponse{
		ClientName: name,
		Result:     models.ResultSuccess,
	})
}

// GetName handles GET /api/clients/name
func (h *ClientHandler) GetName(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientID(r)
	if clientID == "" {
		middleware.DomainError(w, store.ErrNotFound)
		return
	}

	name, err := h.identity.GetName(r.Context(), clientID)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GetNameResponse{ClientName: name})
}
