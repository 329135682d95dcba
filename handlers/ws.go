// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/realtime"
)

type WSHandler struct {
	hub           *realtime.Hub
	allowedOrigin string
}

func NewWSHandler(hub *realtime.Hub, allowedOrigin string) *WSHandler {
	return &WSHandler{hub: hub, allowedOrigin: allowedOrigin}
}

// Connect handles GET /ws
// The connection is registered under whatever identity the cookie carries;
// a cookieless connection still receives broadcasts.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, auth.ClientID(r), h.allowedOrigin)
}
