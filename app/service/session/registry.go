package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Factory creates the state for a new session.
type Factory[S any] func(ctx context.Context, id string) (S, error)

// Registry owns the live sessions of one assistant. Each conversation gets its own
// state; nothing is shared between sessions.
type Registry[S any] struct {
	create Factory[S]

	mu       sync.RWMutex
	sessions map[string]S
}

func NewRegistry[S any](create Factory[S]) *Registry[S] {
	return &Registry[S]{
		create:   create,
		sessions: make(map[string]S),
	}
}

func NewID() string {
	return uuid.NewString()
}

// Open returns the session with the given id, creating it on first use.
func (r *Registry[S]) Open(ctx context.Context, id string) (S, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok = r.sessions[id]; ok {
		return s, nil
	}

	s, err := r.create(ctx, id)
	if err != nil {
		var zero S
		return zero, fmt.Errorf("failed to create session %s: %w", id, err)
	}

	r.sessions[id] = s
	slog.Debug("Session opened", "session_id", id, "sessions", len(r.sessions))

	return s, nil
}

// Close discards the session. The record it held is dropped whether it was saved or not.
func (r *Registry[S]) Close(id string) (S, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		slog.Debug("Session closed", "session_id", id, "sessions", len(r.sessions))
	}

	return s, ok
}

func (r *Registry[S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
