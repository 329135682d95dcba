// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote coordinates vote casting.

Each (client, question) pair is a tiny state machine: unvoted, then voted
for exactly one option, switchable to any other option. The coordinator
turns a switch into a compensating decrement/increment pair applied by the
store as atomic counter updates, and records the client's new choice in
saved_votes. Storing only the current choice (not a log) is what makes a
switch O(1) without recomputing tallies; the tradeoff is that no voting
history is retained.

Concurrent votes by the same client on the same question serialize on a
keyed mutex; everything else runs in parallel.
*/
package vote
