package core

import (
	"context"
	"sync"

	"github.com/signalsfoundry/globe-navigator/model"
)

// Controller is the capability set every navigation strategy implements:
// it owns a camera pose, exposes the set of bodies in interaction range,
// and can be registered as the active viewpoint.
type Controller interface {
	// Pose returns the current camera pose.
	Pose() model.Pose

	// InRange returns the controller's in-range body set. Body trackers
	// are the only writers; everyone else reads.
	InRange() *BodySet

	// Update consumes one frame of input and advances the controller by
	// dt seconds.
	Update(in Input, dt float64)
}

// BodySet holds the IDs of bodies currently within interaction range of a
// controller. Membership is rewritten every frame by the body trackers on
// the frame thread; it is not synchronized and must not be touched from
// other goroutines.
type BodySet struct {
	members map[string]struct{}
}

// NewBodySet returns an empty set.
func NewBodySet() *BodySet {
	return &BodySet{members: make(map[string]struct{})}
}

// Add inserts a body ID. Adding an existing member is a no-op.
func (s *BodySet) Add(id string) { s.members[id] = struct{}{} }

// Remove deletes a body ID. Removing an absent member is a no-op.
func (s *BodySet) Remove(id string) { delete(s.members, id) }

// Contains reports membership.
func (s *BodySet) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of in-range bodies.
func (s *BodySet) Len() int { return len(s.members) }

// Each calls fn for every member. Iteration order is unspecified.
func (s *BodySet) Each(fn func(id string)) {
	for id := range s.members {
		fn(id)
	}
}

// Registry tracks the single active navigation controller for a viewer
// session. It is an explicit context object: consumers hold a reference to
// it instead of resolving the active controller through global state.
//
// Registration is last-wins: registering while another controller is
// active displaces the previous registration, and the displaced handle
// becomes inert.
type Registry struct {
	mu      sync.Mutex
	active  Controller
	handle  *Handle
	waiters []chan Controller
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Handle represents one registration. Releasing it deactivates the
// controller unless a later registration has already displaced it.
type Handle struct {
	reg  *Registry
	once sync.Once
	ctrl Controller
}

// Register makes c the active controller and resolves any pending
// WaitActive calls. The returned handle releases the registration; tie it
// to the controller's teardown.
func (r *Registry) Register(c Controller) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := &Handle{reg: r, ctrl: c}
	r.active = c
	r.handle = h

	for _, w := range r.waiters {
		w <- c
	}
	r.waiters = nil
	return h
}

// Release undoes the registration. It is idempotent and a no-op when a
// later registration has displaced this handle.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.reg.mu.Lock()
		defer h.reg.mu.Unlock()
		if h.reg.handle == h {
			h.reg.active = nil
			h.reg.handle = nil
		}
	})
}

// Active returns the currently registered controller, or nil.
func (r *Registry) Active() Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// WaitActive blocks until a controller registers or ctx is cancelled.
// A waiter is resolved at most once; abandoning the wait by cancelling ctx
// has no observable side effect on the registry.
func (r *Registry) WaitActive(ctx context.Context) (Controller, error) {
	r.mu.Lock()
	if r.active != nil {
		c := r.active
		r.mu.Unlock()
		return c, nil
	}
	w := make(chan Controller, 1)
	r.waiters = append(r.waiters, w)
	r.mu.Unlock()

	select {
	case c := <-w:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
