// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the polling-app API.

# Handler Types

Each handler is a struct with store/hub dependencies, created via
constructor functions:

  - ClientHandler: identity resolution and display names
  - PollHandler: poll creation, listing, joining, owner toggles
  - VotingHandler: vote casting
  - WSHandler: WebSocket upgrade

# Identity

Every identified operation reads the client_id cookie; there is no other
authentication. Resolve issues the cookie:

	POST /api/clients/resolve → {client_id, client_name, result}

# Poll Flow

	POST /api/polls                          → Create (201, broadcasts refreshPolls)
	POST /api/polls/join {code}              → Join (returns poll + saved votes)
	POST /api/polls/{id}/vote                → CastVote (broadcasts vote_event)
	POST /api/polls/{id}/toggle-lock         → owner only
	POST /api/polls/{id}/toggle-results      → owner only

Events are broadcast only after the corresponding write succeeds, so a
failed persist never produces a phantom event.
*/
package handlers
