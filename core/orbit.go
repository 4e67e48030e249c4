package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/globe-navigator/model"
)

// OrbitController is a navigation strategy that circles a fixed geocentric
// target: look input orbits the viewpoint around it, vertical move input
// zooms, scaled by the current distance so zooming stays usable from
// metres to planetary range.
type OrbitController struct {
	target   mgl64.Vec3
	distance float64
	yaw      float64 // degrees around the target's vertical axis
	pitch    float64 // degrees above the target's equatorial plane

	lookSpeed   float64
	minDistance float64
	maxDistance float64

	inRange *BodySet
}

// NewOrbitController builds an orbit strategy around target at the given
// distance in metres. Out-of-range values clamp to sane defaults.
func NewOrbitController(target model.Position, distance float64) *OrbitController {
	c := &OrbitController{
		target:      target.Vec(),
		distance:    distance,
		lookSpeed:   90,
		minDistance: 1,
		maxDistance: 1e9,
		inRange:     NewBodySet(),
	}
	c.distance = clamp(c.distance, c.minDistance, c.maxDistance)
	return c
}

// Pose implements Controller. The camera sits on the orbit sphere looking
// at the target.
func (c *OrbitController) Pose() model.Pose {
	yawRad := mgl64.DegToRad(c.yaw)
	pitchRad := mgl64.DegToRad(c.pitch)
	offset := mgl64.Vec3{
		c.distance * math.Cos(pitchRad) * math.Sin(yawRad),
		c.distance * math.Sin(pitchRad),
		c.distance * math.Cos(pitchRad) * math.Cos(yawRad),
	}
	pos := c.target.Add(offset)
	return model.Pose{
		Position: model.PositionFromVec(pos),
		Yaw:      normalizeDeg(c.yaw + 180),
		Pitch:    normalizeDeg(-c.pitch),
	}
}

// InRange implements Controller.
func (c *OrbitController) InRange() *BodySet { return c.inRange }

// Update implements Controller: look deltas orbit, vertical movement zooms.
func (c *OrbitController) Update(in Input, dt float64) {
	if dt <= 0 {
		return
	}
	c.yaw = normalizeDeg(c.yaw + in.LookX*c.lookSpeed*dt)
	c.pitch = clamp(c.pitch+in.LookY*c.lookSpeed*dt, -89, 89)

	if in.MoveVertical != 0 || in.MoveZ != 0 {
		zoom := in.MoveZ + in.MoveVertical
		// Distance-proportional zoom rate keeps the feel constant across
		// altitude scales.
		c.distance = clamp(c.distance*(1-zoom*dt), c.minDistance, c.maxDistance)
	}
}
