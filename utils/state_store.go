package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const oauthStatePrefix = "linkpost:oauth:state:"

type stateEntry struct {
	userID    string
	expiresAt time.Time
}

// StateStore remembers OAuth state tokens and the user who started the flow.
// Redis is used when available so any instance can finish the callback.
type StateStore struct {
	rc  *redis.Client
	mu  sync.Mutex
	mem map[string]stateEntry
	now func() time.Time
}

// NewStateStore returns a store backed by rc, or by memory when rc is nil.
func NewStateStore(rc *redis.Client) *StateStore {
	return &StateStore{rc: rc, mem: map[string]stateEntry{}, now: time.Now}
}

// Save records state for userID for ttl (10 minutes when ttl <= 0).
func (s *StateStore) Save(ctx context.Context, state, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return s.rc.Set(ctx, oauthStatePrefix+state, userID, ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.mem {
		if now.After(e.expiresAt) {
			delete(s.mem, k)
		}
	}
	s.mem[state] = stateEntry{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

// Consume validates and removes state; it can succeed only once.
func (s *StateStore) Consume(ctx context.Context, state string) (string, bool) {
	if state == "" {
		return "", false
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		userID, err := s.rc.GetDel(ctx, oauthStatePrefix+state).Result()
		if err != nil {
			return "", false
		}
		return userID, userID != ""
	}
	s.mu.Lock()
	entry, ok := s.mem[state]
	delete(s.mem, state)
	s.mu.Unlock()
	if !ok || s.now().After(entry.expiresAt) {
		return "", false
	}
	return entry.userID, true
}
