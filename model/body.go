package model

import "github.com/go-gl/mathgl/mgl64"

// MotionSource indicates how a body's motion is determined.
type MotionSource int

const (
	MotionSourceUnknown    MotionSource = iota
	MotionSourceSpacetrack              // TLE-based orbit propagation
)

// ReferenceUnit identifies the length convention a body's radii use.
type ReferenceUnit int

const (
	UnitMetres ReferenceUnit = iota
	UnitKilometres
)

// Metres returns the scale factor from the unit to metres.
func (u ReferenceUnit) Metres() float64 {
	if u == UnitKilometres {
		return 1000.0
	}
	return 1.0
}

// Position is a geocentric (body-fixed ECEF) position in metres.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec returns the position as a math vector.
func (p Position) Vec() mgl64.Vec3 { return mgl64.Vec3{p.X, p.Y, p.Z} }

// PositionFromVec converts a math vector back to a Position.
func PositionFromVec(v mgl64.Vec3) Position {
	return Position{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// BodyDefinition describes a celestial body or other large terrain-bearing
// object the navigation layer tracks. Radii are expressed in the body's
// reference unit; positions are always geocentric metres.
type BodyDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Position Position `json:"position"`

	// MaxRadius bounds the body's interaction range.
	MaxRadius float64 `json:"max_radius"`

	// SurfaceRadius is the radius of the visible surface, when the body has
	// one. Zero means no visible surface (e.g. a gas cloud or a marker).
	SurfaceRadius float64 `json:"surface_radius,omitempty"`

	Unit ReferenceUnit `json:"unit"`

	MotionSource MotionSource `json:"motion_source,omitempty"`
	NoradID      uint32       `json:"norad_id,omitempty"` // optional; useful when MotionSourceSpacetrack
}

// MaxRadiusMetres returns the interaction radius converted to metres.
func (b *BodyDefinition) MaxRadiusMetres() float64 {
	return b.MaxRadius * b.Unit.Metres()
}

// SurfaceRadiusMetres returns the visible-surface radius in metres, or 0
// when the body has no visible surface.
func (b *BodyDefinition) SurfaceRadiusMetres() float64 {
	if b.SurfaceRadius <= 0 {
		return 0
	}
	return b.SurfaceRadius * b.Unit.Metres()
}
