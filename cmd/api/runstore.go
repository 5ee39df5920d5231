package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/darkxdd/FigmaCursor-sub000/internal/pipeline"
)

// runStore tracks in-flight batch runs and their event channels. Each run
// carries its own cancellation scope so an abandoned watch does not leave
// retries consuming quota.
type runStore struct {
	mu      sync.RWMutex
	runs    map[string]chan pipeline.Event
	cancels map[string]context.CancelFunc
}

func newRunStore() *runStore {
	return &runStore{
		runs:    make(map[string]chan pipeline.Event),
		cancels: make(map[string]context.CancelFunc),
	}
}

func (s *runStore) create() (string, chan pipeline.Event) {
	id := newRunID()
	ch := make(chan pipeline.Event, 64)
	s.mu.Lock()
	s.runs[id] = ch
	s.mu.Unlock()
	return id, ch
}

func (s *runStore) scope(runID string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[runID] = cancel
	s.mu.Unlock()
	return ctx, cancel
}

func (s *runStore) get(runID string) (chan pipeline.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.runs[runID]
	return ch, ok
}

func (s *runStore) close(runID string) {
	s.mu.Lock()
	ch, ok := s.runs[runID]
	delete(s.runs, runID)
	if cancel, exists := s.cancels[runID]; exists {
		cancel()
		delete(s.cancels, runID)
	}
	s.mu.Unlock()
	if ok {
		close(ch)
	}
}

func newRunID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
