// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"errors"
	"sync"

	"github.com/sebas-ib/polling-app/store"
)

// Result is the outcome of a cast vote.
type Result struct {
	// NewCount is the chosen option's count after the vote.
	NewCount int
	// VotedFor is the chosen option's display text.
	VotedFor string
	// OldOption/OldCount describe the replaced choice when Switched.
	OldOption string
	OldCount  int
	Switched  bool
	// NoOp reports an idempotent re-vote for the already-active option.
	NoOp bool
}

// Coordinator enforces one active vote per question per client and turns a
// switch into a compensating decrement/increment pair.
//
// State machine per (client, question): unvoted -> voted(A) <-> voted(B).
// There is no retract; the latest choice always stands.
type Coordinator struct {
	identity store.IdentityStore
	polls    store.PollStore

	// locks serializes votes per (client, question) so a double-click
	// cannot read-modify-write a stale saved_votes entry. Votes from
	// different clients or on different questions run in parallel; the
	// store's atomic increments keep their counts consistent.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(identity store.IdentityStore, polls store.PollStore) *Coordinator {
	return &Coordinator{
		identity: identity,
		polls:    polls,
		locks:    make(map[string]*sync.Mutex),
	}
}

// CastVote validates the target, applies switch/replace semantics, and
// persists the client's new active choice. The returned counts are
// authoritative post-mutation values.
func (c *Coordinator) CastVote(ctx context.Context, clientID, pollID, questionID, optionID string) (Result, error) {
	if clientID == "" {
		return Result{}, store.ErrMissingIdentity
	}

	poll, err := c.polls.Get(ctx, pollID)
	if err != nil {
		return Result{}, err
	}
	if poll.VotingLocked {
		return Result{}, store.ErrVotingLocked
	}

	question := poll.Question(questionID)
	if question == nil {
		return Result{}, store.ErrInvalidTarget
	}
	option := question.Option(optionID)
	if option == nil {
		return Result{}, store.ErrInvalidTarget
	}

	lock := c.lockFor(clientID, questionID)
	lock.Lock()
	defer lock.Unlock()

	client, err := c.identity.GetClient(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{}, store.ErrMissingIdentity
	}
	if err != nil {
		return Result{}, err
	}

	prev := client.SavedVotes[questionID]
	if prev == optionID {
		// Re-voting the active option changes nothing and emits nothing.
		return Result{
			NewCount: option.VoteCount,
			VotedFor: option.Text,
			NoOp:     true,
		}, nil
	}

	newCount, oldCount, err := c.polls.ApplyVote(ctx, pollID, questionID, optionID, prev)
	if err != nil {
		return Result{}, err
	}

	if err := c.identity.SetSavedVote(ctx, clientID, questionID, optionID); err != nil {
		return Result{}, err
	}

	return Result{
		NewCount:  newCount,
		VotedFor:  option.Text,
		OldOption: prev,
		OldCount:  oldCount,
		Switched:  prev != "",
	}, nil
}

func (c *Coordinator) lockFor(clientID, questionID string) *sync.Mutex {
	key := clientID + "/" + questionID
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}
