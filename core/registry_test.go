package core

import (
	"context"
	"testing"
	"time"

	"github.com/signalsfoundry/globe-navigator/model"
)

// stubController is a minimal Controller with a settable pose.
type stubController struct {
	pose    model.Pose
	inRange *BodySet
}

func newStubController() *stubController {
	return &stubController{inRange: NewBodySet()}
}

func (s *stubController) Pose() model.Pose            { return s.pose }
func (s *stubController) InRange() *BodySet           { return s.inRange }
func (s *stubController) Update(in Input, dt float64) {}

func TestRegistry_RegisterAndRelease(t *testing.T) {
	reg := NewRegistry()
	if reg.Active() != nil {
		t.Fatalf("empty registry should have no active controller")
	}

	c := newStubController()
	h := reg.Register(c)
	if reg.Active() != Controller(c) {
		t.Fatalf("expected registered controller to be active")
	}

	h.Release()
	if reg.Active() != nil {
		t.Errorf("expected release to deactivate the controller")
	}

	// Release is idempotent.
	h.Release()
	if reg.Active() != nil {
		t.Errorf("second release should be a no-op")
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	first := newStubController()
	second := newStubController()

	h1 := reg.Register(first)
	reg.Register(second)
	if reg.Active() != Controller(second) {
		t.Fatalf("expected the later registration to be active")
	}

	// Releasing the displaced handle must not deactivate the newer one.
	h1.Release()
	if reg.Active() != Controller(second) {
		t.Errorf("displaced handle release deactivated the active controller")
	}
}

func TestRegistry_WaitActiveImmediate(t *testing.T) {
	reg := NewRegistry()
	c := newStubController()
	reg.Register(c)

	got, err := reg.WaitActive(context.Background())
	if err != nil {
		t.Fatalf("WaitActive: %v", err)
	}
	if got != Controller(c) {
		t.Errorf("WaitActive returned the wrong controller")
	}
}

func TestRegistry_WaitActiveResolvesOnRegister(t *testing.T) {
	reg := NewRegistry()
	c := newStubController()

	type result struct {
		ctrl Controller
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		ctrl, err := reg.WaitActive(context.Background())
		resCh <- result{ctrl, err}
	}()

	// Give the waiter a moment to park before registering.
	time.Sleep(10 * time.Millisecond)
	reg.Register(c)

	select {
	case res := <-resCh:
		if res.err != nil {
			t.Fatalf("WaitActive: %v", res.err)
		}
		if res.ctrl != Controller(c) {
			t.Errorf("WaitActive resolved with the wrong controller")
		}
	case <-time.After(time.Second):
		t.Fatalf("WaitActive did not resolve after registration")
	}
}

func TestRegistry_WaitActiveCancelled(t *testing.T) {
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := reg.WaitActive(ctx); err == nil {
		t.Fatalf("expected a context error from a cancelled wait")
	}

	// An abandoned waiter must not break a later registration.
	c := newStubController()
	reg.Register(c)
	if reg.Active() != Controller(c) {
		t.Errorf("registration after a cancelled wait did not activate")
	}
}

func TestBodySet_Idempotence(t *testing.T) {
	s := NewBodySet()
	s.Add("earth")
	s.Add("earth")
	if s.Len() != 1 {
		t.Errorf("double add should keep one member, got %d", s.Len())
	}
	if !s.Contains("earth") {
		t.Errorf("expected membership after add")
	}
	s.Remove("earth")
	s.Remove("earth")
	if s.Len() != 0 {
		t.Errorf("double remove should leave the set empty, got %d", s.Len())
	}
}
