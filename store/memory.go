// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/models"
)

// Memory is an in-process implementation of IdentityStore and PollStore.
// It backs the test suite and the zero-dependency dev mode; nothing in it
// survives a restart.
//
// Locking: clients and the poll registry are guarded by mu. Each poll
// carries its own mutex, so vote mutations on different polls never
// contend and there is no global lock on the vote path.
type Memory struct {
	mu      sync.RWMutex
	clients map[string]*models.Client
	polls   map[string]*memPoll
	codes   map[string]string // join code -> poll id
}

type memPoll struct {
	mu   sync.Mutex
	poll *models.Poll
}

func NewMemory() *Memory {
	return &Memory{
		clients: make(map[string]*models.Client),
		polls:   make(map[string]*memPoll),
		codes:   make(map[string]string),
	}
}

// IdentityStore

func (m *Memory) ResolveOrCreate(ctx context.Context, token string) (models.Client, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" {
		if c, ok := m.clients[token]; ok {
			return cloneClient(c), false, nil
		}
	}

	c := &models.Client{
		ID:         auth.NewClientID(),
		Name:       models.DefaultClientName,
		SavedVotes: make(map[string]string),
	}
	m.clients[c.ID] = c
	return cloneClient(c), true, nil
}

func (m *Memory) GetClient(ctx context.Context, clientID string) (models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[clientID]
	if !ok {
		return models.Client{}, ErrNotFound
	}
	return cloneClient(c), nil
}

func (m *Memory) SetName(ctx context.Context, clientID, name string) (string, error) {
	if clientID == "" {
		return "", ErrMissingIdentity
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.AnonymousName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[clientID]
	if !ok {
		c = &models.Client{ID: clientID, SavedVotes: make(map[string]string)}
		m.clients[clientID] = c
	}
	c.Name = name
	return name, nil
}

func (m *Memory) GetName(ctx context.Context, clientID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[clientID]
	if !ok {
		return "", ErrNotFound
	}
	return c.Name, nil
}

func (m *Memory) SetSavedVote(ctx context.Context, clientID, questionID, optionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[clientID]
	if !ok {
		return ErrNotFound
	}
	if c.SavedVotes == nil {
		c.SavedVotes = make(map[string]string)
	}
	c.SavedVotes[questionID] = optionID
	return nil
}

// PollStore

func (m *Memory) Create(ctx context.Context, title, ownerID string, questions []models.QuestionInput) (*models.Poll, error) {
	poll, err := buildPoll(title, ownerID, questions)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Code allocation happens under the registry lock, so two concurrent
	// creates can never take the same code.
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := auth.GenerateJoinCode()
		if err != nil {
			return nil, err
		}
		if _, taken := m.codes[code]; taken {
			continue
		}
		poll.JoinCode = code
		break
	}
	if poll.JoinCode == "" {
		return nil, ErrCodeExhausted
	}

	m.polls[poll.ID] = &memPoll{poll: poll}
	m.codes[poll.JoinCode] = poll.ID
	return clonePoll(poll), nil
}

func (m *Memory) List(ctx context.Context) ([]models.PollSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]models.PollSummary, 0, len(m.polls))
	for _, entry := range m.polls {
		summaries = append(summaries, models.PollSummary{
			ID:    entry.poll.ID,
			Title: entry.poll.Title,
			Code:  entry.poll.JoinCode,
		})
	}
	// Map iteration is random; sort for stable enumeration.
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

func (m *Memory) Get(ctx context.Context, pollID string) (*models.Poll, error) {
	entry, err := m.entry(pollID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return clonePoll(entry.poll), nil
}

func (m *Memory) GetByCode(ctx context.Context, code string) (*models.Poll, error) {
	m.mu.RLock()
	pollID, ok := m.codes[auth.NormalizeJoinCode(code)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.Get(ctx, pollID)
}

func (m *Memory) Join(ctx context.Context, pollID, clientID string) (*models.Poll, error) {
	entry, err := m.entry(pollID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.poll.HasParticipant(clientID) {
		entry.poll.Participants = append(entry.poll.Participants, clientID)
	}
	return clonePoll(entry.poll), nil
}

func (m *Memory) SetLock(ctx context.Context, pollID, ownerID string, locked bool) (bool, error) {
	entry, err := m.entry(pollID)
	if err != nil {
		return false, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.poll.OwnerID != ownerID {
		return false, ErrUnauthorized
	}
	entry.poll.VotingLocked = locked
	return locked, nil
}

func (m *Memory) SetVisibility(ctx context.Context, pollID, ownerID string, visible bool) (bool, error) {
	entry, err := m.entry(pollID)
	if err != nil {
		return false, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.poll.OwnerID != ownerID {
		return false, ErrUnauthorized
	}
	entry.poll.ShowResults = visible
	return visible, nil
}

func (m *Memory) ApplyVote(ctx context.Context, pollID, questionID, optionID, prevOptionID string) (int, int, error) {
	entry, err := m.entry(pollID)
	if err != nil {
		return 0, 0, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := validateTarget(entry.poll, questionID, optionID, prevOptionID); err != nil {
		return 0, 0, err
	}

	question := entry.poll.Question(questionID)
	oldCount := 0
	if prevOptionID != "" {
		prev := question.Option(prevOptionID)
		if prev.VoteCount > 0 {
			prev.VoteCount--
		}
		oldCount = prev.VoteCount
	}

	opt := question.Option(optionID)
	opt.VoteCount++
	return opt.VoteCount, oldCount, nil
}

func (m *Memory) entry(pollID string) (*memPoll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.polls[pollID]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

// Clones keep callers from mutating store-owned state.

func cloneClient(c *models.Client) models.Client {
	out := *c
	out.SavedVotes = make(map[string]string, len(c.SavedVotes))
	for k, v := range c.SavedVotes {
		out.SavedVotes[k] = v
	}
	return out
}

func clonePoll(p *models.Poll) *models.Poll {
	out := *p
	out.Participants = append([]string(nil), p.Participants...)
	out.Questions = make([]models.PollQuestion, len(p.Questions))
	for i, q := range p.Questions {
		cq := q
		cq.Options = append([]models.PollOption(nil), q.Options...)
		out.Questions[i] = cq
	}
	return &out
}
