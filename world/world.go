package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/globe-navigator/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventBodyUpdated EventType = iota
)

// Event is emitted to subscribers when a body changes.
type Event struct {
	Type EventType
	Body model.BodyDefinition
}

// Store is an in-memory, thread-safe store of the celestial bodies a
// viewer session knows about. The frame loop reads stable snapshots from
// it; motion models write updated positions through it.
type Store struct {
	mu sync.RWMutex

	bodies map[string]*model.BodyDefinition
	subs   []func(Event)
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{bodies: make(map[string]*model.BodyDefinition)}
}

// AddBody adds a new body. It returns an error if the ID already exists.
func (s *Store) AddBody(b *model.BodyDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bodies[b.ID]; exists {
		return fmt.Errorf("body with ID %q already exists", b.ID)
	}
	s.bodies[b.ID] = b
	return nil
}

// RemoveBody deletes a body; removing an absent ID is a no-op.
func (s *Store) RemoveBody(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bodies, id)
}

// GetBody returns a copy of the body with the given ID.
func (s *Store) GetBody(id string) (model.BodyDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies[id]
	if !ok {
		return model.BodyDefinition{}, false
	}
	return *b, true
}

// ListBodies returns a snapshot of all bodies sorted by ID, so consumers
// iterating the snapshot resolve ties the same way every frame.
func (s *Store) ListBodies() []model.BodyDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]model.BodyDefinition, 0, len(s.bodies))
	for _, b := range s.bodies {
		res = append(res, *b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// UpdateBodyPosition updates a body's position and notifies subscribers.
func (s *Store) UpdateBodyPosition(id string, pos model.Position) error {
	s.mu.Lock()
	b, ok := s.bodies[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("body with ID %q not found", id)
	}
	b.Position = pos
	event := Event{Type: EventBodyUpdated, Body: *b}
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Subscribe registers a callback for store events. It returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}
