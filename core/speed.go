package core

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/globe-navigator/model"
)

// Dynamic speed tuning constants. The hysteresis band rejects height
// samples that jump by more than three orders of magnitude between frames,
// which happens when streamed terrain tiles load or unload under the
// camera.
const (
	speedHysteresisFloor    = 0.5
	speedHysteresisMaxRatio = 1000.0
	speedHysteresisMinRatio = 0.01

	speedMultiplierStep       = 1.5
	minSpeedMultiplier        = 0.1
	maxSpeedMultiplierDynamic = 50.0
	maxSpeedMultiplierFixed   = 50000.0
)

var (
	errNoGeoreference = errors.New("no georeference attached")
	errNoScene        = errors.New("no scene attached")
	errRaycastMiss    = errors.New("height raycast missed")
	errSampleRejected = errors.New("height sample rejected by hysteresis")
	errSampleSkipped  = errors.New("forward probe missed above min height")
)

// updateSpeedBounds runs once per frame before movement. With dynamic
// speed on it resamples the altitude; otherwise the configured default
// feeds the same curve and acceleration recompute.
func (c *FreeFlyController) updateSpeedBounds() {
	if c.dynamicSpeed {
		// A failed sample keeps the previous pre-multiplier speed; the
		// bounds recompute below is then a no-op by construction.
		_ = c.computeDynamicSpeed()
	} else {
		c.preMult = c.cfg.DefaultMaxSpeed
	}
	c.recomputeSpeedBounds()
}

// computeDynamicSpeed measures height above the nearest tracked surface
// and folds it into the pre-multiplier speed. Any failure leaves all speed
// state untouched.
func (c *FreeFlyController) computeDynamicSpeed() error {
	if c.georef == nil {
		return errNoGeoreference
	}
	if c.scene == nil {
		return errNoScene
	}

	height, ok := c.measureHeight()
	if !ok {
		c.metrics.SpeedSample(SpeedSampleRaycastMiss)
		return errRaycastMiss
	}

	if c.preMult > speedHysteresisFloor {
		ratio := height / c.preMult
		if ratio > speedHysteresisMaxRatio || ratio < speedHysteresisMinRatio {
			c.metrics.SpeedSample(SpeedSampleRejectedHysteresis)
			return errSampleRejected
		}
	}

	// The forward probe decides whether lowering the speed is permitted.
	// Heading into a surface always permits it; free space ahead permits
	// it only near the ground.
	override := false
	origin := c.localPosition()
	_, _, forward := c.basis()
	probeRange := clamp(c.maxSpeed*3, 0, c.cfg.DynamicSpeed.MaxRaycastDistance)
	if hit, fok := c.scene.Raycast(origin, forward, probeRange); fok && hit.Distance > degenerateHitDistance {
		override = true
	} else if height <= c.cfg.DynamicSpeed.MinHeight {
		override = true
	}

	// Raising the speed during ascent is always allowed; lowering it
	// requires the override.
	if override || height >= c.preMult {
		c.preMult = height
		c.metrics.SpeedSample(SpeedSampleAccepted)
		return nil
	}
	c.metrics.SpeedSample(SpeedSampleSkipped)
	return errSampleSkipped
}

// measureHeight raycasts from the camera toward the centre of the nearest
// in-range body, or toward the planet centre when nothing is in range, and
// returns the hit distance.
func (c *FreeFlyController) measureHeight() (float64, bool) {
	origin := c.localPosition()
	dir, ok := c.heightProbeDirection(origin)
	if !ok {
		return 0, false
	}
	hit, ok := c.scene.Raycast(origin, dir, 0)
	if !ok || hit.Distance <= degenerateHitDistance {
		return 0, false
	}
	return hit.Distance, true
}

// heightProbeDirection points at the nearest in-range body's centre by
// squared distance. Snapshot order is stable, so equal distances resolve
// to the same body every frame.
func (c *FreeFlyController) heightProbeDirection(origin mgl64.Vec3) (mgl64.Vec3, bool) {
	if body, ok := c.nearestInRangeBody(); ok {
		center := c.georef.ToLocalPosition(body.Position.Vec())
		return safeNormalize(center.Sub(origin))
	}
	// Nothing in range: world-down is the direction of the planet centre.
	center := c.georef.ToLocalPosition(mgl64.Vec3{})
	if dir, ok := safeNormalize(center.Sub(origin)); ok {
		return dir, true
	}
	return mgl64.Vec3{0, -1, 0}, true
}

func (c *FreeFlyController) nearestInRangeBody() (model.BodyDefinition, bool) {
	if c.bodies == nil || c.inRange.Len() == 0 {
		return model.BodyDefinition{}, false
	}
	var nearest model.BodyDefinition
	bestSq := 0.0
	found := false
	for _, b := range c.bodies.ListBodies() {
		if !c.inRange.Contains(b.ID) {
			continue
		}
		d := b.Position.Vec().Sub(c.anchor)
		sq := d.Dot(d)
		if !found || sq < bestSq {
			nearest = b
			bestSq = sq
			found = true
		}
	}
	return nearest, found
}

// recomputeSpeedBounds derives maxSpeed and the acceleration rate from the
// current pre-multiplier speed and multiplier.
func (c *FreeFlyController) recomputeSpeedBounds() {
	maxSpeed := c.speedMult * c.curve.Evaluate(c.preMult)
	if maxSpeed < 0 {
		maxSpeed = 0
	}
	c.maxSpeed = maxSpeed
	c.accel = clamp(c.maxSpeed*5, c.cfg.AccelMin, c.cfg.AccelMax)
}

// applySpeedTicks multiplies or divides the speed multiplier by the fixed
// step once per discrete input tick, clamped to the range for the current
// dynamic-speed mode.
func (c *FreeFlyController) applySpeedTicks(ticks int) {
	for ; ticks > 0; ticks-- {
		c.speedMult *= speedMultiplierStep
	}
	for ; ticks < 0; ticks++ {
		c.speedMult /= speedMultiplierStep
	}
	c.speedMult = clamp(c.speedMult, minSpeedMultiplier, c.maxSpeedMultiplier())
}

func (c *FreeFlyController) maxSpeedMultiplier() float64 {
	if c.dynamicSpeed {
		return maxSpeedMultiplierDynamic
	}
	return maxSpeedMultiplierFixed
}
