package world

import (
	"fmt"
	"sync"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/globe-navigator/model"
)

// MotionModel updates a body's position for a given simulation time.
type MotionModel interface {
	UpdatePosition(simTime time.Time, b *model.BodyDefinition)
}

// StaticMotionModel leaves the body's position unchanged.
type StaticMotionModel struct{}

// UpdatePosition for static motion does nothing.
func (m *StaticMotionModel) UpdatePosition(simTime time.Time, b *model.BodyDefinition) {
	// no-op
}

// OrbitalSGP4MotionModel uses a TLE and SGP4 to update a body's position.
type OrbitalSGP4MotionModel struct {
	sat satellite.Satellite
}

// NewOrbitalModelFromTLE constructs an orbital model from TLE lines.
func NewOrbitalModelFromTLE(line1, line2 string) *OrbitalSGP4MotionModel {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &OrbitalSGP4MotionModel{sat: sat}
}

// UpdatePosition propagates the satellite to the given simulation time and
// updates b.Position. go-satellite works in kilometres; positions are
// stored in metres.
func (m *OrbitalSGP4MotionModel) UpdatePosition(simTime time.Time, b *model.BodyDefinition) {
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	posECI, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	const kmToM = 1000.0
	b.Position = model.Position{
		X: posECEF.X * kmToM,
		Y: posECEF.Y * kmToM,
		Z: posECEF.Z * kmToM,
	}
}

// TLEFetcher supplies TLE lines for a body, returning empty strings when
// no orbit data is available.
type TLEFetcher func(*model.BodyDefinition) (string, string)

// PositionUpdater receives propagated positions; *Store implements it.
type PositionUpdater interface {
	UpdateBodyPosition(id string, pos model.Position) error
}

// MotionEngine owns one MotionModel per tracked body and pushes propagated
// positions into a PositionUpdater each tick.
type MotionEngine struct {
	mu      sync.Mutex
	tles    TLEFetcher
	updater PositionUpdater

	tracked map[string]*trackedBody
}

type trackedBody struct {
	def   *model.BodyDefinition
	model MotionModel
}

// MotionOption configures a MotionEngine.
type MotionOption func(*MotionEngine)

// WithTLEFetcher sets the source of TLE data for orbital bodies.
func WithTLEFetcher(f TLEFetcher) MotionOption {
	return func(e *MotionEngine) { e.tles = f }
}

// WithPositionUpdater sets where propagated positions are written.
func WithPositionUpdater(u PositionUpdater) MotionOption {
	return func(e *MotionEngine) { e.updater = u }
}

// NewMotionEngine constructs an engine.
func NewMotionEngine(opts ...MotionOption) *MotionEngine {
	e := &MotionEngine{tracked: make(map[string]*trackedBody)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddBody starts tracking a body, choosing SGP4 when the body's motion
// source is Spacetrack and TLE data is available, static motion otherwise.
func (e *MotionEngine) AddBody(b *model.BodyDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.tracked[b.ID]; exists {
		return fmt.Errorf("body with ID %q already tracked", b.ID)
	}

	var m MotionModel = &StaticMotionModel{}
	if b.MotionSource == model.MotionSourceSpacetrack && e.tles != nil {
		if tle1, tle2 := e.tles(b); tle1 != "" && tle2 != "" {
			m = NewOrbitalModelFromTLE(tle1, tle2)
		}
	}
	e.tracked[b.ID] = &trackedBody{def: b, model: m}
	return nil
}

// RemoveBody stops tracking a body.
func (e *MotionEngine) RemoveBody(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tracked[id]; !ok {
		return fmt.Errorf("body with ID %q not tracked", id)
	}
	delete(e.tracked, id)
	return nil
}

// UpdatePositions propagates every tracked body to simTime and pushes the
// results through the position updater.
func (e *MotionEngine) UpdatePositions(simTime time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, t := range e.tracked {
		t.model.UpdatePosition(simTime, t.def)
		if e.updater == nil {
			continue
		}
		if err := e.updater.UpdateBodyPosition(id, t.def.Position); err != nil {
			return fmt.Errorf("update position of %q: %w", id, err)
		}
	}
	return nil
}
