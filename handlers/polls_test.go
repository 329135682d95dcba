// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/store"
	"github.com/sebas-ib/polling-app/testutil"
)

func newPollHandler(t *testing.T) (*PollHandler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return NewPollHandler(mem, mem, testutil.NewTestHub(t)), mem
}

func TestCreatePollHandler(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")

	body := models.CreatePollRequest{
		Title: "Lunch",
		Questions: []models.QuestionInput{
			{Title: "Where?", Options: []string{"Pizza", "Tacos"}},
		},
	}
	req := testutil.MakeRequest("POST", "/api/polls", ownerID, body)
	w := httptest.NewRecorder()
	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatePollResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.ID == "" {
		t.Error("Expected a poll id")
	}
	if resp.Title != "Lunch" {
		t.Errorf("Expected title Lunch, got %q", resp.Title)
	}
	if len(resp.Code) != 6 {
		t.Errorf("Expected a 6-character join code, got %q", resp.Code)
	}

	// persisted before the response went out
	poll, err := mem.Get(req.Context(), resp.ID)
	if err != nil {
		t.Fatalf("Poll not persisted: %v", err)
	}
	if poll.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, poll.OwnerID)
	}
}

func TestCreatePollRequiresIdentity(t *testing.T) {
	handler, _ := newPollHandler(t)

	body := models.CreatePollRequest{
		Title:     "Lunch",
		Questions: []models.QuestionInput{{Title: "Where?", Options: []string{"Pizza"}}},
	}
	req := testutil.MakeRequest("POST", "/api/polls", "", body)
	w := httptest.NewRecorder()
	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestCreatePollValidation(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")

	cases := []struct {
		name string
		body models.CreatePollRequest
	}{
		{"missing title", models.CreatePollRequest{
			Questions: []models.QuestionInput{{Title: "Where?", Options: []string{"Pizza"}}},
		}},
		{"no questions", models.CreatePollRequest{Title: "Lunch"}},
		{"no usable options", models.CreatePollRequest{
			Title:     "Lunch",
			Questions: []models.QuestionInput{{Title: "Where?", Options: []string{" "}}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/polls", ownerID, tc.body)
			w := httptest.NewRecorder()
			handler.Create(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestListPollsHandler(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")
	poll := testutil.CreateTestPoll(t, mem, ownerID, "Lunch", []string{"Where?", "Pizza", "Tacos"})

	req := testutil.MakeRequest("GET", "/api/polls", "", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ListPollsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Polls) != 1 {
		t.Fatalf("Expected 1 poll, got %d", len(resp.Polls))
	}
	if resp.Polls[0].ID != poll.ID || resp.Polls[0].Code != poll.JoinCode {
		t.Errorf("Unexpected summary %+v", resp.Polls[0])
	}
}

func TestJoinPollHandler(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")
	clientID := testutil.CreateTestClient(t, mem, "Bob")
	poll := testutil.CreateTestPoll(t, mem, ownerID, "Lunch", []string{"Where?", "Pizza", "Tacos"})

	// codes are matched case-insensitively
	body := models.JoinPollRequest{Code: strings.ToLower(poll.JoinCode)}
	req := testutil.MakeRequest("POST", "/api/polls/join", clientID, body)
	w := httptest.NewRecorder()
	handler.Join(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.JoinPollResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Poll == nil || resp.Poll.ID != poll.ID {
		t.Fatalf("Expected poll %s in response", poll.ID)
	}
	if !resp.Poll.HasParticipant(clientID) {
		t.Error("Expected client in participants")
	}
	if len(resp.SavedVotes) != 0 {
		t.Errorf("Expected no saved votes, got %v", resp.SavedVotes)
	}
}

func TestJoinPollReturnsSavedVotes(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")
	clientID := testutil.CreateTestClient(t, mem, "Bob")
	poll := testutil.CreateTestPoll(t, mem, ownerID, "Lunch", []string{"Where?", "Pizza", "Tacos"})

	q := poll.Questions[0]
	if err := mem.SetSavedVote(context.Background(), clientID, q.ID, q.Options[0].ID); err != nil {
		t.Fatalf("Failed to seed saved vote: %v", err)
	}
	// a vote on some other poll's question is not echoed back
	if err := mem.SetSavedVote(context.Background(), clientID, "other-question", "other-option"); err != nil {
		t.Fatalf("Failed to seed saved vote: %v", err)
	}

	req := testutil.MakeRequest("POST", "/api/polls/join", clientID, models.JoinPollRequest{Code: poll.JoinCode})
	w := httptest.NewRecorder()
	handler.Join(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.JoinPollResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.SavedVotes) != 1 || resp.SavedVotes[q.ID] != q.Options[0].ID {
		t.Errorf("Expected saved vote for %s only, got %v", q.ID, resp.SavedVotes)
	}
}

func TestJoinPollUnknownCode(t *testing.T) {
	handler, mem := newPollHandler(t)
	clientID := testutil.CreateTestClient(t, mem, "Bob")

	req := testutil.MakeRequest("POST", "/api/polls/join", clientID, models.JoinPollRequest{Code: "ZZZZZZ"})
	w := httptest.NewRecorder()
	handler.Join(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestToggleLockHandler(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")
	poll := testutil.CreateTestPoll(t, mem, ownerID, "Lunch", []string{"Where?", "Pizza", "Tacos"})

	req := testutil.MakeRequest("POST", "/api/polls/"+poll.ID+"/toggle-lock", ownerID, nil)
	req.SetPathValue("id", poll.ID)
	w := httptest.NewRecorder()
	handler.ToggleLock(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ToggleLockResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.VotingLocked {
		t.Error("Expected voting_locked true after first toggle")
	}

	// toggling again flips it back
	req = testutil.MakeRequest("POST", "/api/polls/"+poll.ID+"/toggle-lock", ownerID, nil)
	req.SetPathValue("id", poll.ID)
	w = httptest.NewRecorder()
	handler.ToggleLock(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	if resp.VotingLocked {
		t.Error("Expected voting_locked false after second toggle")
	}
}

func TestToggleLockNonOwner(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")
	intruderID := testutil.CreateTestClient(t, mem, "Mallory")
	poll := testutil.CreateTestPoll(t, mem, ownerID, "Lunch", []string{"Where?", "Pizza", "Tacos"})

	req := testutil.MakeRequest("POST", "/api/polls/"+poll.ID+"/toggle-lock", intruderID, nil)
	req.SetPathValue("id", poll.ID)
	w := httptest.NewRecorder()
	handler.ToggleLock(w, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)

	got, err := mem.Get(req.Context(), poll.ID)
	if err != nil {
		t.Fatalf("Failed to reload poll: %v", err)
	}
	if got.VotingLocked {
		t.Error("Expected lock state unchanged")
	}
}

func TestToggleResultsHandler(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")
	poll := testutil.CreateTestPoll(t, mem, ownerID, "Lunch", []string{"Where?", "Pizza", "Tacos"})

	req := testutil.MakeRequest("POST", "/api/polls/"+poll.ID+"/toggle-results", ownerID, nil)
	req.SetPathValue("id", poll.ID)
	w := httptest.NewRecorder()
	handler.ToggleResults(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ToggleResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.ShowResults {
		t.Error("Expected show_results true after toggle")
	}
}

func TestToggleResultsUnknownPoll(t *testing.T) {
	handler, mem := newPollHandler(t)
	ownerID := testutil.CreateTestClient(t, mem, "Alice")

	req := testutil.MakeRequest("POST", "/api/polls/missing/toggle-results", ownerID, nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.ToggleResults(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
