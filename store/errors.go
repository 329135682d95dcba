// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "errors"

// Domain error taxonomy. Handlers map these onto HTTP status codes; the
// stores and the vote coordinator only ever return errors wrapping one of
// these sentinels (or an opaque storage error, which surfaces as a 500).
var (
	// ErrInvalidInput marks malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized marks a non-owner attempting an owner-only action.
	ErrUnauthorized = errors.New("not the poll owner")

	// ErrMissingIdentity marks a request with no resolvable client identity.
	ErrMissingIdentity = errors.New("missing client identity")

	// ErrNotFound marks an absent client or poll.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTarget marks a question or option that does not belong to
	// the addressed poll.
	ErrInvalidTarget = errors.New("question or option not in poll")

	// ErrVotingLocked marks a vote against a poll whose owner locked voting.
	ErrVotingLocked = errors.New("voting is locked")

	// ErrCodeExhausted marks repeated join-code collisions. Callers retry
	// internally; this escapes only after the attempt budget is spent.
	ErrCodeExhausted = errors.New("could not allocate a unique join code")
)
