package core

import "github.com/signalsfoundry/globe-navigator/model"

// BodyGetter looks up a single body definition by ID.
type BodyGetter interface {
	GetBody(id string) (model.BodyDefinition, bool)
}

// Tracker maintains one body's membership in the active controller's
// in-range set. Each tracker runs once per frame on the frame thread and
// is the only writer of its body's membership; the controller only reads.
type Tracker struct {
	bodyID string
	bodies BodyGetter
	reg    *Registry
}

// NewTracker builds a tracker for the given body. The registry reference
// is fixed at construction; trackers never resolve the active controller
// through ambient state.
func NewTracker(bodyID string, bodies BodyGetter, reg *Registry) *Tracker {
	return &Tracker{bodyID: bodyID, bodies: bodies, reg: reg}
}

// Update re-evaluates the distance test against the active controller's
// current position. Both the add and the remove are idempotent; a frame
// with no active controller changes nothing.
func (t *Tracker) Update() {
	ctrl := t.reg.Active()
	if ctrl == nil {
		return
	}
	body, ok := t.bodies.GetBody(t.bodyID)
	if !ok {
		ctrl.InRange().Remove(t.bodyID)
		return
	}

	d := body.Position.Vec().Sub(ctrl.Pose().Position.Vec())
	maxR := body.MaxRadiusMetres()
	if d.Dot(d) < 2*maxR*maxR {
		ctrl.InRange().Add(t.bodyID)
	} else {
		ctrl.InRange().Remove(t.bodyID)
	}
}
