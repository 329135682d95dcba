// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sebas-ib/polling-app/models"
)

// codeAttempts bounds join-code regeneration on collision.
const codeAttempts = 5

// IdentityStore issues and resolves opaque client identifiers and persists
// display names and active votes.
type IdentityStore interface {
	// ResolveOrCreate returns the client for token, or allocates a fresh
	// client (default name, empty votes) when the token is absent or
	// unknown. The second result reports whether a new identity was issued.
	ResolveOrCreate(ctx context.Context, token string) (models.Client, bool, error)

	// GetClient returns the client record, ErrNotFound when absent.
	GetClient(ctx context.Context, clientID string) (models.Client, error)

	// SetName upserts the display name. Blank names become "Anonymous";
	// an empty clientID fails with ErrMissingIdentity.
	SetName(ctx context.Context, clientID, name string) (string, error)

	// GetName returns the display name, ErrNotFound when absent.
	GetName(ctx context.Context, clientID string) (string, error)

	// SetSavedVote records optionID as the client's single active vote for
	// questionID, replacing any previous choice.
	SetSavedVote(ctx context.Context, clientID, questionID, optionID string) error
}

// PollStore owns poll documents and the atomic vote-count mutations.
type PollStore interface {
	// Create validates and persists a new poll, allocating ids and a unique
	// join code. The owner is auto-added to participants.
	Create(ctx context.Context, title, ownerID string, questions []models.QuestionInput) (*models.Poll, error)

	// List enumerates all polls.
	List(ctx context.Context) ([]models.PollSummary, error)

	// Get returns the poll by id, ErrNotFound when absent.
	Get(ctx context.Context, pollID string) (*models.Poll, error)

	// GetByCode returns the poll by join code, matched case-insensitively.
	GetByCode(ctx context.Context, code string) (*models.Poll, error)

	// Join idempotently adds the client to participants and returns the
	// poll.
	Join(ctx context.Context, pollID, clientID string) (*models.Poll, error)

	// SetLock sets voting_locked. Only the owner may call it; returns the
	// new value.
	SetLock(ctx context.Context, pollID, ownerID string, locked bool) (bool, error)

	// SetVisibility sets show_results. Only the owner may call it; returns
	// the new value.
	SetVisibility(ctx context.Context, pollID, ownerID string, visible bool) (bool, error)

	// ApplyVote lands the increment for optionID and, when prevOptionID is
	// non-empty, the compensating decrement (floored at zero) as
	// field-scoped atomic updates. It returns the post-mutation counts of
	// the new and previous options. Question/option membership is validated
	// against the poll; violations fail with ErrInvalidTarget.
	ApplyVote(ctx context.Context, pollID, questionID, optionID, prevOptionID string) (newCount, oldCount int, err error)
}

// buildPoll validates creation input and assembles the poll document.
// Blank options are dropped; a question left with no options, an empty
// title, or an empty question list fails with ErrInvalidInput. The join
// code is left for the store to allocate.
func buildPoll(title, ownerID string, questions []models.QuestionInput) (*models.Poll, error) {
	title = strings.TrimSpace(title)
	if title == "" || ownerID == "" || len(questions) == 0 {
		return nil, ErrInvalidInput
	}

	poll := &models.Poll{
		ID:           uuid.NewString(),
		Title:        title,
		OwnerID:      ownerID,
		Participants: []string{ownerID},
		CreatedAt:    time.Now().UTC(),
	}

	for _, q := range questions {
		qTitle := strings.TrimSpace(q.Title)
		if qTitle == "" {
			return nil, ErrInvalidInput
		}

		question := models.PollQuestion{
			ID:            uuid.NewString(),
			QuestionTitle: qTitle,
		}
		for _, text := range q.Options {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			question.Options = append(question.Options, models.PollOption{
				ID:   uuid.NewString(),
				Text: text,
			})
		}
		if len(question.Options) == 0 {
			return nil, ErrInvalidInput
		}

		poll.Questions = append(poll.Questions, question)
	}

	return poll, nil
}

// validateTarget checks that questionID and optionID (and prevOptionID when
// set) belong to the poll. Questions and options are immutable after
// creation, so a successful check cannot be invalidated by a concurrent
// writer.
func validateTarget(poll *models.Poll, questionID, optionID, prevOptionID string) error {
	question := poll.Question(questionID)
	if question == nil {
		return ErrInvalidTarget
	}
	if question.Option(optionID) == nil {
		return ErrInvalidTarget
	}
	if prevOptionID != "" && question.Option(prevOptionID) == nil {
		return ErrInvalidTarget
	}
	return nil
}
