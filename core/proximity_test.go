package core

import (
	"testing"

	"github.com/signalsfoundry/globe-navigator/model"
)

type fakeBodyGetter map[string]model.BodyDefinition

func (f fakeBodyGetter) GetBody(id string) (model.BodyDefinition, bool) {
	b, ok := f[id]
	return b, ok
}

func TestTracker_AddsAndRemovesWithDistance(t *testing.T) {
	bodies := fakeBodyGetter{
		"earth": {ID: "earth", MaxRadius: 100, Unit: model.UnitMetres},
	}
	reg := NewRegistry()
	ctrl := newStubController()
	reg.Register(ctrl)
	tracker := NewTracker("earth", bodies, reg)

	// At distance 100 from the centre: 100^2 < 2*100^2, in range.
	ctrl.pose.Position = model.Position{X: 100}
	tracker.Update()
	if !ctrl.InRange().Contains("earth") {
		t.Fatalf("expected body in range at distance 100")
	}

	// Repeating the update must not change membership.
	tracker.Update()
	if ctrl.InRange().Len() != 1 {
		t.Errorf("repeated update changed the set, len=%d", ctrl.InRange().Len())
	}

	// At distance 150: 150^2 > 2*100^2, out of range.
	ctrl.pose.Position = model.Position{X: 150}
	tracker.Update()
	if ctrl.InRange().Contains("earth") {
		t.Fatalf("expected body out of range at distance 150")
	}
	tracker.Update()
	if ctrl.InRange().Len() != 0 {
		t.Errorf("repeated update changed the set, len=%d", ctrl.InRange().Len())
	}
}

func TestTracker_KilometreUnitRadius(t *testing.T) {
	bodies := fakeBodyGetter{
		"moon": {ID: "moon", MaxRadius: 1, Unit: model.UnitKilometres},
	}
	reg := NewRegistry()
	ctrl := newStubController()
	reg.Register(ctrl)
	tracker := NewTracker("moon", bodies, reg)

	// 1 km radius in metres: distance 1000 is inside the sqrt(2) band.
	ctrl.pose.Position = model.Position{X: 1000}
	tracker.Update()
	if !ctrl.InRange().Contains("moon") {
		t.Errorf("expected kilometre-unit radius to convert to metres")
	}
}

func TestTracker_NoActiveController(t *testing.T) {
	bodies := fakeBodyGetter{
		"earth": {ID: "earth", MaxRadius: 100},
	}
	tracker := NewTracker("earth", bodies, NewRegistry())

	// Must not panic and must not touch anything.
	tracker.Update()
}

func TestTracker_MissingBodyRemoved(t *testing.T) {
	bodies := fakeBodyGetter{}
	reg := NewRegistry()
	ctrl := newStubController()
	ctrl.InRange().Add("gone")
	reg.Register(ctrl)

	NewTracker("gone", bodies, reg).Update()
	if ctrl.InRange().Contains("gone") {
		t.Errorf("expected a deleted body to leave the in-range set")
	}
}

func TestTracker_OnlyTouchesItsOwnBody(t *testing.T) {
	bodies := fakeBodyGetter{
		"earth": {ID: "earth", MaxRadius: 100},
	}
	reg := NewRegistry()
	ctrl := newStubController()
	ctrl.InRange().Add("moon")
	reg.Register(ctrl)

	ctrl.pose.Position = model.Position{X: 1e6}
	NewTracker("earth", bodies, reg).Update()
	if !ctrl.InRange().Contains("moon") {
		t.Errorf("tracker for one body removed another body's membership")
	}
}
