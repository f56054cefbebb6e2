package planner

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists planning sessions between steps.
type SessionStore interface {
	Load(id string) (*Session, error)
	Save(session *Session) error
	Delete(id string) error
}

// RedisSessionStore keeps sessions in Redis with a sliding TTL; every
// save renews the expiry.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(id string) string {
	return "planner_session:" + id
}

func (s *RedisSessionStore) Load(id string) (*Session, error) {
	val, err := s.Client.Get(context.Background(), sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Client.Set(context.Background(), sessionKey(session.ID), data, s.TTL).Err()
}

func (s *RedisSessionStore) Delete(id string) error {
	return s.Client.Del(context.Background(), sessionKey(id)).Err()
}

// MemorySessionStore is the in-process store used by tests and the demo
// command.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Load(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	// Hand out a copy so callers mutate only what they save back
	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	var copied Session
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (s *MemorySessionStore) Save(session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	var copied Session
	if err := json.Unmarshal(data, &copied); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &copied
	return nil
}

func (s *MemorySessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
