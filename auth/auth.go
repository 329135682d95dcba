// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ClientCookie is the identity cookie name. The value is the opaque client
// id; there is no session beyond it.
const ClientCookie = "client_id"

// JoinCodeLength is the number of characters in a poll join code.
const JoinCodeLength = 6

// NewClientID returns a fresh globally-unique client identifier.
// Random UUIDs carry 122 bits of entropy, so two clients never collide.
func NewClientID() string {
	return uuid.NewString()
}

// GenerateJoinCode creates a short human-typable poll code: uppercase hex,
// e.g. "A1B2C3". Codes are stored uppercase and compared case-insensitively.
func GenerateJoinCode() (string, error) {
	b := make([]byte, JoinCodeLength/2)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// NormalizeJoinCode maps user input onto the stored code form.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ClientID extracts the client id from the identity cookie. Returns "" when
// the request carries no identity.
func ClientID(r *http.Request) string {
	c, err := r.Cookie(ClientCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetClientCookie issues the identity cookie for a newly created client.
func SetClientCookie(w http.ResponseWriter, clientID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    clientID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
