package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/mridulja/flightbookingagent/models"
)

// ErrSessionNotFound is returned when no state exists for a session id.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists ConversationState keyed by session id. Implementations
// only need get/put-by-key semantics; returned state is always a private copy.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.ConversationState, error)
	Put(ctx context.Context, state *models.ConversationState) error
	Delete(ctx context.Context, sessionID string) error
}

// MemorySessionStore keeps sessions in process memory with a sliding TTL.
type MemorySessionStore struct {
	cache *gocache.Cache
}

// NewMemorySessionStore creates a store whose sessions expire after ttl of
// inactivity.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	state, ok := v.(*models.ConversationState)
	if !ok {
		return nil, fmt.Errorf("unexpected session cache entry for %s", sessionID)
	}
	return state.Clone(), nil
}

func (s *MemorySessionStore) Put(ctx context.Context, state *models.ConversationState) error {
	s.cache.SetDefault(state.SessionID, state.Clone())
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

// RedisSessionStore keeps JSON-marshalled sessions in Redis with a sliding
// TTL, so multiple instances can share conversation state.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", sessionID, err)
	}
	return &state, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, state *models.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", state.SessionID, err)
	}
	if err := s.client.Set(ctx, sessionKey(state.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", state.SessionID, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

// sessionLocks serializes units of work per session id while letting
// different sessions proceed concurrently. Entries are refcounted and
// evicted once uncontended, so the map only holds sessions with work in
// flight.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
