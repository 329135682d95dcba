// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists clients and polls.

# Interfaces

IdentityStore owns client records (opaque id, display name, active votes).
PollStore owns poll documents and the atomic vote-count mutations. Both are
implemented by two backends:

  - Memory: in-process maps with a per-poll mutex; used by tests and the
    zero-dependency dev mode. Nothing survives a restart.
  - Mongo: a MongoDB database with polls and clients collections. Polls are
    denormalized documents embedding questions and options.

# Vote-count discipline

Vote counts are never updated by reading a document, mutating it in memory,
and writing it back. The Mongo backend uses field-scoped $inc updates with
array filters; the decrement's filter requires vote_count > 0, so the
floor-at-zero rule holds under any interleaving. The memory backend holds
the poll's mutex across the increment/decrement pair. Either way, ApplyVote
lands as atomic counter updates and returns authoritative post-mutation
counts.

# Join codes

Create allocates a 6-character uppercase hex join code. Collisions are
detected by the registry map (memory) or a unique index (Mongo) and retried
a bounded number of times before ErrCodeExhausted.

# Errors

All expected failures wrap the sentinel errors in errors.go; handlers map
those onto HTTP status codes and anything else onto a 500.
*/
package store
