// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/store"
	"github.com/sebas-ib/polling-app/testutil"
	"github.com/sebas-ib/polling-app/vote"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	mem := store.NewMemory()
	return NewRouter(testutil.GetTestConfig(), mem, mem, vote.New(mem, mem), testutil.NewTestHub(t))
}

func do(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := do(mux, testutil.MakeRequest("GET", "/health", "", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected body OK, got %q", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := do(mux, testutil.MakeRequest("GET", "/", "", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	w := do(mux, testutil.MakeRequest("DELETE", "/api/polls", "", nil))
	testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
}

// resolveClient walks the identity flow and returns the issued client id.
func resolveClient(t *testing.T, mux *http.ServeMux, name string) string {
	t.Helper()

	w := do(mux, testutil.MakeRequest("POST", "/api/clients/resolve", "", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resolved models.ResolveClientResponse
	testutil.AssertJSON(t, w, &resolved)
	if resolved.Result != models.ResultNew {
		t.Fatalf("Expected a new identity, got %q", resolved.Result)
	}

	w = do(mux, testutil.MakeRequest("POST", "/api/clients/name", resolved.ClientID, models.SetNameRequest{ClientName: name}))
	testutil.AssertStatus(t, w, http.StatusOK)

	return resolved.ClientID
}

// TestLunchPollFlow exercises the whole API surface end to end: two
// clients resolve identities, one creates a poll, the other joins by code,
// both vote, one switches, and the owner locks voting.
func TestLunchPollFlow(t *testing.T) {
	mux := newTestRouter(t)

	alice := resolveClient(t, mux, "Alice")
	bob := resolveClient(t, mux, "Bob")

	// Alice creates the poll.
	w := do(mux, testutil.MakeRequest("POST", "/api/polls", alice, models.CreatePollRequest{
		Title: "Lunch",
		Questions: []models.QuestionInput{
			{Title: "Where should we eat?", Options: []string{"Pizza", "Tacos"}},
		},
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.CreatePollResponse
	testutil.AssertJSON(t, w, &created)

	// Bob joins with a lowercase code.
	w = do(mux, testutil.MakeRequest("POST", "/api/polls/join", bob, models.JoinPollRequest{
		Code: strings.ToLower(created.Code),
	}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var joined models.JoinPollResponse
	testutil.AssertJSON(t, w, &joined)
	if !joined.Poll.HasParticipant(bob) {
		t.Error("Expected Bob in participants")
	}

	q := joined.Poll.Questions[0]
	pizza, tacos := q.Options[0], q.Options[1]

	// Both vote Pizza.
	votePath := "/api/polls/" + created.ID + "/vote"
	w = do(mux, testutil.MakeRequest("POST", votePath, alice, models.CastVoteRequest{QuestionID: q.ID, OptionID: pizza.ID}))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do(mux, testutil.MakeRequest("POST", votePath, bob, models.CastVoteRequest{QuestionID: q.ID, OptionID: pizza.ID}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var voted models.CastVoteResponse
	testutil.AssertJSON(t, w, &voted)
	if voted.VoteCount != 2 || voted.VotedFor != "Pizza" {
		t.Errorf("Expected Pizza at 2, got %+v", voted)
	}

	// Bob switches to Tacos; Pizza gives one back.
	w = do(mux, testutil.MakeRequest("POST", votePath, bob, models.CastVoteRequest{QuestionID: q.ID, OptionID: tacos.ID}))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &voted)
	if voted.VoteCount != 1 || voted.VotedFor != "Tacos" {
		t.Errorf("Expected Tacos at 1, got %+v", voted)
	}

	// Re-joining reflects the switch in both counts and saved votes.
	w = do(mux, testutil.MakeRequest("POST", "/api/polls/join", bob, models.JoinPollRequest{Code: created.Code}))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &joined)

	gotQ := joined.Poll.Questions[0]
	if gotQ.Options[0].VoteCount != 1 || gotQ.Options[1].VoteCount != 1 {
		t.Errorf("Expected 1/1 counts, got %d/%d", gotQ.Options[0].VoteCount, gotQ.Options[1].VoteCount)
	}
	if joined.SavedVotes[q.ID] != tacos.ID {
		t.Errorf("Expected Bob's saved vote on Tacos, got %v", joined.SavedVotes)
	}

	// Only the owner can lock; a locked poll rejects votes.
	lockPath := "/api/polls/" + created.ID + "/toggle-lock"
	w = do(mux, testutil.MakeRequest("POST", lockPath, bob, nil))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = do(mux, testutil.MakeRequest("POST", lockPath, alice, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do(mux, testutil.MakeRequest("POST", votePath, bob, models.CastVoteRequest{QuestionID: q.ID, OptionID: pizza.ID}))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Unlocking lets the vote through again.
	w = do(mux, testutil.MakeRequest("POST", lockPath, alice, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do(mux, testutil.MakeRequest("POST", votePath, bob, models.CastVoteRequest{QuestionID: q.ID, OptionID: pizza.ID}))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Results visibility is an owner toggle too.
	resultsPath := "/api/polls/" + created.ID + "/toggle-results"
	w = do(mux, testutil.MakeRequest("POST", resultsPath, alice, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.ToggleResultsResponse
	testutil.AssertJSON(t, w, &results)
	if !results.ShowResults {
		t.Error("Expected show_results true")
	}

	// The poll list includes the poll with its code.
	w = do(mux, testutil.MakeRequest("GET", "/api/polls", "", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list models.ListPollsResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Polls) != 1 || list.Polls[0].Code != created.Code {
		t.Errorf("Unexpected poll list %+v", list.Polls)
	}
}
