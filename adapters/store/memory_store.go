package store

import (
	"context"
	"sync"
	"time"

	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/ports"
)

// MemoryStore is an in-memory implementation of the Store interface. It is
// primarily intended for tests and local runs; the mutex stands in for the
// row-level atomicity Redis provides.
type MemoryStore struct {
	mu             sync.Mutex
	challenges     map[string]core.AuthChallenge
	authorizations map[string]core.ActionAuthorization
	nonceIndex     map[string]string
	users          map[string]core.User
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() ports.Store {
	return &MemoryStore{
		challenges:     make(map[string]core.AuthChallenge),
		authorizations: make(map[string]core.ActionAuthorization),
		nonceIndex:     make(map[string]string),
		users:          make(map[string]core.User),
	}
}

// GetChallenge returns the live challenge for a wallet, or nil.
func (s *MemoryStore) GetChallenge(ctx context.Context, wallet string) (*core.AuthChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[core.NormalizeAddress(wallet)]
	if !ok || !c.Live(time.Now()) {
		return nil, nil
	}
	out := c
	return &out, nil
}

// PutChallenge upserts the wallet's challenge.
func (s *MemoryStore) PutChallenge(ctx context.Context, challenge *core.AuthChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[core.NormalizeAddress(challenge.WalletAddress)] = *challenge
	return nil
}

// DeleteChallenge removes the wallet's challenge and reports whether one
// existed. Under the lock this is the delete-if-present race winner check.
func (s *MemoryStore) DeleteChallenge(ctx context.Context, wallet string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.NormalizeAddress(wallet)
	_, ok := s.challenges[key]
	delete(s.challenges, key)
	return ok, nil
}

// PutAuthorization stores a new authorization record.
func (s *MemoryStore) PutAuthorization(ctx context.Context, auth *core.ActionAuthorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authorizations[auth.ID] = *auth
	s.nonceIndex[auth.Nonce] = auth.ID
	return nil
}

// GetAuthorization returns the record by id, or nil.
func (s *MemoryStore) GetAuthorization(ctx context.Context, id string) (*core.ActionAuthorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.authorizations[id]
	if !ok {
		return nil, nil
	}
	out := a
	return &out, nil
}

// FindAuthorization returns the live record matching every field of the
// intent, or nil. Used records still match: a replayed redemption must be
// reported as already redeemed, not as absent, and that distinction belongs
// to the mark-used compare-and-set.
func (s *MemoryStore) FindAuthorization(ctx context.Context, wallet string, intent core.ActionIntent) (*core.ActionAuthorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.nonceIndex[intent.Nonce]
	if !ok {
		return nil, nil
	}
	a, ok := s.authorizations[id]
	if !ok || !a.Live(time.Now()) || !a.Matches(wallet, intent) {
		return nil, nil
	}
	out := a
	return &out, nil
}

// MarkAuthorizationUsed flips used from false to true exactly once.
func (s *MemoryStore) MarkAuthorizationUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.authorizations[id]
	if !ok {
		return core.ErrNoMatchingAuthorization
	}
	if a.Used {
		return core.ErrAlreadyRedeemed
	}
	a.Used = true
	s.authorizations[id] = a
	return nil
}

// UpsertUser creates the user on first login and touches it afterwards.
func (s *MemoryStore) UpsertUser(ctx context.Context, wallet string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.NormalizeAddress(wallet)
	now := time.Now()
	u, ok := s.users[key]
	if !ok {
		u = core.User{WalletAddress: key, CreatedAt: now}
	}
	u.LastLoginAt = now
	s.users[key] = u
	out := u
	return &out, nil
}
