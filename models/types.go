package models

import "time"

// Result strings returned by the client resolve endpoint
const (
	ResultSuccess = "Success"
	ResultNew     = "New"
)

// Default display names
const (
	DefaultClientName = "New Client"
	AnonymousName     = "Anonymous"
)

// Domain types
//
// Polls are stored as denormalized documents: a poll embeds its questions,
// and each question embeds its options. Questions and options are immutable
// after creation; only vote counts and the poll-level flags change.

type Client struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
	// SavedVotes maps question id -> the client's single active option id.
	// It holds the current choice, not a vote log, so switching a vote is
	// a constant-time replace.
	SavedVotes map[string]string `bson:"saved_votes" json:"saved_votes"`
}

type PollOption struct {
	ID        string `bson:"id" json:"id"`
	Text      string `bson:"text" json:"text"`
	VoteCount int    `bson:"vote_count" json:"vote_count"`
}

type PollQuestion struct {
	ID            string       `bson:"id" json:"id"`
	QuestionTitle string       `bson:"question_title" json:"question_title"`
	Options       []PollOption `bson:"options" json:"options"`
}

type Poll struct {
	ID           string         `bson:"_id" json:"id"`
	Title        string         `bson:"title" json:"title"`
	JoinCode     string         `bson:"join_code" json:"join_code"`
	OwnerID      string         `bson:"owner_id" json:"owner_id"`
	Questions    []PollQuestion `bson:"questions" json:"questions"`
	Participants []string       `bson:"participants" json:"participants"`
	VotingLocked bool           `bson:"voting_locked" json:"voting_locked"`
	ShowResults  bool           `bson:"show_results" json:"show_results"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
}

// Question looks up an embedded question by id.
func (p *Poll) Question(questionID string) *PollQuestion {
	for i := range p.Questions {
		if p.Questions[i].ID == questionID {
			return &p.Questions[i]
		}
	}
	return nil
}

// Option looks up an embedded option by id.
func (q *PollQuestion) Option(optionID string) *PollOption {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

// HasParticipant reports whether the client already joined the poll.
func (p *Poll) HasParticipant(clientID string) bool {
	for _, id := range p.Participants {
		if id == clientID {
			return true
		}
	}
	return false
}

type PollSummary struct {
	ID    string `bson:"_id" json:"id"`
	Title string `bson:"title" json:"title"`
	Code  string `bson:"join_code" json:"code"`
}

// QuestionInput is the shape a question takes at poll-creation time.
type QuestionInput struct {
	Title   string   `json:"title"`
	Options []string `json:"options"`
}

// Request types

type SetNameRequest struct {
	ClientName string `json:"client_name"`
}

type CreatePollRequest struct {
	Title     string          `json:"title"`
	Questions []QuestionInput `json:"questions"`
}

type JoinPollRequest struct {
	Code string `json:"code"`
}

type CastVoteRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// Response types

type ResolveClientResponse struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Result     string `json:"result"`
}

type SetNameResponse struct {
	ClientName string `json:"client_name"`
	Result     string `json:"result"`
}

type GetNameResponse struct {
	ClientName string `json:"client_name"`
}

type ListPollsResponse struct {
	Polls []PollSummary `json:"polls"`
}

type CreatePollResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

type JoinPollResponse struct {
	Poll *Poll `json:"poll"`
	// SavedVotes holds the joining client's active votes for this poll's
	// questions so the UI can restore selections.
	SavedVotes map[string]string `json:"saved_votes"`
}

type CastVoteResponse struct {
	Result    string `json:"result"`
	VotedFor  string `json:"voted_for"`
	VoteCount int    `json:"vote_count"`
}

type ToggleLockResponse struct {
	VotingLocked bool `json:"voting_locked"`
}

type ToggleResultsResponse struct {
	ShowResults bool `json:"show_results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
