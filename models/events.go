package models

// Realtime event names. These travel to the browser verbatim, so the names
// match what the frontend subscribes to.
const (
	EventRefreshPolls  = "refreshPolls"
	EventVote          = "vote_event"
	EventLockPoll      = "lock_poll_event"
	EventToggleResults = "toggle_results_event"
)

// VoteTally is an option id paired with its post-mutation count.
type VoteTally struct {
	OptionID  string `json:"option_id"`
	VoteCount int    `json:"vote_count"`
}

// RefreshPollsEvent is broadcast globally when a poll is created.
type RefreshPollsEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VoteEvent is broadcast to the poll's room on every successful vote.
// OldVote is nil unless the vote replaced a previous choice.
type VoteEvent struct {
	PollID     string     `json:"poll_id"`
	QuestionID string     `json:"question_id"`
	ClientID   string     `json:"client_id"`
	VoteSentBy string     `json:"vote_sent_by"`
	NewVote    VoteTally  `json:"new_vote"`
	OldVote    *VoteTally `json:"old_vote"`
}

// LockPollEvent is broadcast to the poll's room when the owner toggles
// voting.
type LockPollEvent struct {
	PollID       string `json:"poll_id"`
	VotingLocked bool   `json:"voting_locked"`
}

// ToggleResultsEvent is broadcast globally when the owner toggles result
// visibility.
type ToggleResultsEvent struct {
	PollID      string `json:"poll_id"`
	ShowResults bool   `json:"show_results"`
}
