// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/config"
	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/realtime"
	"github.com/sebas-ib/polling-app/store"
)

// NewTestHub returns a running hub that stops when the test ends
func NewTestHub(t *testing.T) *realtime.Hub {
	t.Helper()

	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() config.Config {
	return config.Config{
		Port:          3001,
		Store:         config.StoreMemory,
		AllowedOrigin: "*",
	}
}

// CreateTestClient registers a client with the given name and returns its id
func CreateTestClient(t *testing.T, s store.IdentityStore, name string) string {
	t.Helper()

	client, _, err := s.ResolveOrCreate(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	if name != "" {
		if _, err := s.SetName(context.Background(), client.ID, name); err != nil {
			t.Fatalf("Failed to name test client: %v", err)
		}
	}
	return client.ID
}

// CreateTestPoll creates a poll owned by ownerID and returns it.
// Each questions entry is a question title followed by its option texts.
func CreateTestPoll(t *testing.T, s store.PollStore, ownerID, title string, questions ...[]string) *models.Poll {
	t.Helper()

	inputs := make([]models.QuestionInput, 0, len(questions))
	for _, q := range questions {
		if len(q) == 0 {
			t.Fatal("question needs a title")
		}
		inputs = append(inputs, models.QuestionInput{Title: q[0], Options: q[1:]})
	}

	poll, err := s.Create(context.Background(), title, ownerID, inputs)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// MakeRequest creates an HTTP test request carrying the client's identity
// cookie when clientID is non-empty
func MakeRequest(method, path, clientID string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if clientID != "" {
		req.AddCookie(&http.Cookie{Name: auth.ClientCookie, Value: clientID})
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
