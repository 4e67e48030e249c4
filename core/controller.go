package core

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/globe-navigator/internal/logging"
	"github.com/signalsfoundry/globe-navigator/model"
)

// moveScale converts between reference speed values and rendering-frame
// displacement per second. It multiplies every velocity and integration
// term, matching the unit scale of the rendering layer.
const moveScale = 100.0

// degenerateHitDistance is the distance below which a raycast hit is
// treated as numerically meaningless.
const degenerateHitDistance = 1e-6

// Mover is the physical-movement primitive the controller integrates
// through. It applies a displacement to a rendering-frame position and
// returns the resulting position, which may differ from pos+delta when the
// implementation resolves collisions.
type Mover interface {
	Move(pos, delta mgl64.Vec3) mgl64.Vec3
}

type directMover struct{}

func (directMover) Move(pos, delta mgl64.Vec3) mgl64.Vec3 { return pos.Add(delta) }

// MetricsRecorder receives countable navigation events. Calls happen on
// the frame thread; implementations must be cheap.
type MetricsRecorder interface {
	SpeedSample(outcome SpeedSampleOutcome)
}

// SpeedSampleOutcome classifies one dynamic speed evaluation.
type SpeedSampleOutcome string

const (
	SpeedSampleAccepted           SpeedSampleOutcome = "accepted"
	SpeedSampleRaycastMiss        SpeedSampleOutcome = "raycast_miss"
	SpeedSampleRejectedHysteresis SpeedSampleOutcome = "rejected_hysteresis"
	SpeedSampleSkipped            SpeedSampleOutcome = "skipped"
)

type noopMetrics struct{}

func (noopMetrics) SpeedSample(SpeedSampleOutcome) {}

// FreeFlyController is the primary navigation strategy: a free-flying
// camera over a georeferenced globe with altitude-adaptive speed and clip
// planes. All methods must be called from the frame thread.
type FreeFlyController struct {
	cfg     Config
	georef  Georeference
	scene   Scene
	bodies  BodyProvider
	mover   Mover
	curve   *SpeedCurve
	log     logging.Logger
	metrics MetricsRecorder

	anchor           mgl64.Vec3 // geocentric metres
	yaw, pitch, roll float64    // degrees; stored normalized to [0,360)
	velocity         mgl64.Vec3

	maxSpeed  float64
	preMult   float64 // altitude-derived pre-multiplier speed
	speedMult float64
	accel     float64

	nearClip, farClip float64

	dynamicSpeed bool
	inRange      *BodySet
}

// Option configures a FreeFlyController.
type Option func(*FreeFlyController)

// WithLogger attaches a logger; nil is replaced with a noop logger.
func WithLogger(log logging.Logger) Option {
	return func(c *FreeFlyController) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMover replaces the default pass-through movement primitive.
func WithMover(m Mover) Option {
	return func(c *FreeFlyController) {
		if m != nil {
			c.mover = m
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *FreeFlyController) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewFreeFlyController builds a controller at the given starting pose.
// A nil georef or scene degrades the dynamic speed and clip subsystems to
// no-ops rather than failing; the condition is logged once here.
func NewFreeFlyController(cfg Config, start model.Pose, georef Georeference, scene Scene, bodies BodyProvider, opts ...Option) *FreeFlyController {
	cfg = cfg.ApplyDefaults()
	c := &FreeFlyController{
		cfg:          cfg,
		georef:       georef,
		scene:        scene,
		bodies:       bodies,
		mover:        directMover{},
		curve:        NewSpeedCurve(),
		log:          logging.Noop(),
		metrics:      noopMetrics{},
		anchor:       start.Position.Vec(),
		yaw:          normalizeDeg(start.Yaw),
		pitch:        normalizeDeg(start.Pitch),
		roll:         normalizeDeg(start.Roll),
		preMult:      cfg.DefaultMaxSpeed,
		speedMult:    1,
		nearClip:     cfg.DynamicClip.InitialNear,
		farClip:      cfg.DynamicClip.InitialFar,
		dynamicSpeed: cfg.DynamicSpeed.Enabled,
		inRange:      NewBodySet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if georef == nil {
		c.log.Warn(context.Background(), "no georeference attached; dynamic speed and clip planes disabled")
	}
	if scene == nil {
		c.log.Warn(context.Background(), "no scene attached; dynamic speed and clip planes disabled")
	}
	c.recomputeSpeedBounds()
	return c
}

// Pose implements Controller.
func (c *FreeFlyController) Pose() model.Pose {
	return model.Pose{
		Position: model.PositionFromVec(c.anchor),
		Yaw:      c.yaw,
		Pitch:    c.pitch,
		Roll:     c.roll,
	}
}

// SetPose teleports the controller without touching velocity.
func (c *FreeFlyController) SetPose(p model.Pose) {
	c.anchor = p.Position.Vec()
	c.yaw = normalizeDeg(p.Yaw)
	c.pitch = normalizeDeg(p.Pitch)
	c.roll = normalizeDeg(p.Roll)
}

// InRange implements Controller.
func (c *FreeFlyController) InRange() *BodySet { return c.inRange }

// Velocity returns the current rendering-frame velocity.
func (c *FreeFlyController) Velocity() mgl64.Vec3 { return c.velocity }

// MaxSpeed returns the current speed bound.
func (c *FreeFlyController) MaxSpeed() float64 { return c.maxSpeed }

// PreMultiplierSpeed returns the altitude-derived base speed.
func (c *FreeFlyController) PreMultiplierSpeed() float64 { return c.preMult }

// SpeedMultiplier returns the user-controlled speed multiplier.
func (c *FreeFlyController) SpeedMultiplier() float64 { return c.speedMult }

// AccelerationRate returns the current acceleration rate.
func (c *FreeFlyController) AccelerationRate() float64 { return c.accel }

// NearClip returns the current near clip-plane distance.
func (c *FreeFlyController) NearClip() float64 { return c.nearClip }

// FarClip returns the current far clip-plane distance.
func (c *FreeFlyController) FarClip() float64 { return c.farClip }

// DynamicSpeedEnabled reports the runtime dynamic-speed toggle state.
func (c *FreeFlyController) DynamicSpeedEnabled() bool { return c.dynamicSpeed }

// SetPreMultiplierSpeed seeds the pre-multiplier speed, clamping negative
// values to zero, and recomputes the derived bounds.
func (c *FreeFlyController) SetPreMultiplierSpeed(v float64) {
	c.preMult = math.Max(0, v)
	c.recomputeSpeedBounds()
}

// SetSpeedMultiplier sets the multiplier, clamped to its valid range.
func (c *FreeFlyController) SetSpeedMultiplier(v float64) {
	c.speedMult = clamp(v, minSpeedMultiplier, c.maxSpeedMultiplier())
	c.recomputeSpeedBounds()
}

// Update implements Controller: rotation, then speed bounds, then movement.
// The clip-plane pass runs separately via AdjustClipPlanes so that it can
// re-raycast after every tracker has refreshed the in-range set.
func (c *FreeFlyController) Update(in Input, dt float64) {
	if dt <= 0 {
		return
	}
	c.Rotate(in.LookX, in.LookY, dt)

	if in.SpeedTicks != 0 {
		c.applySpeedTicks(in.SpeedTicks)
	}
	if in.ToggleDynamicSpeed {
		c.dynamicSpeed = !c.dynamicSpeed
	}
	if in.SpeedReset || (c.dynamicSpeed && !in.IsMoving()) {
		c.speedMult = 1
	}
	c.updateSpeedBounds()

	c.Move(mgl64.Vec3{in.MoveX, in.MoveVertical, in.MoveZ}, dt)
}

// Rotate applies look deltas. Vertical input pitches within the wrapped
// [270,450] interval so the camera cannot flip past straight up or down;
// horizontal input yaws freely; roll is untouched.
func (c *FreeFlyController) Rotate(horizontalDelta, verticalDelta, dt float64) {
	if !c.cfg.RotationEnabled {
		return
	}
	if horizontalDelta == 0 && verticalDelta == 0 {
		return
	}

	pitch := c.pitch
	if pitch <= 90 {
		pitch += 360
	}
	pitch = clamp(pitch-verticalDelta*c.cfg.LookSpeed*dt, 270, 450)
	c.pitch = normalizeDeg(pitch)

	c.yaw = normalizeDeg(c.yaw + horizontalDelta*c.cfg.LookSpeed*dt)
}

// Move consumes one frame of movement input: x strafes along the camera's
// right axis, z moves along its forward axis, and y moves along the
// locally-computed up direction. The velocity turns toward new headings
// instead of snapping, accelerates up to the current bound, and bleeds off
// when input stops. A non-zero velocity integrates the position and
// force-synchronizes the geocentric anchor.
func (c *FreeFlyController) Move(input mgl64.Vec3, dt float64) {
	if !c.cfg.MovementEnabled {
		return
	}

	right, _, forward := c.basis()
	dir := right.Mul(input.X()).Add(forward.Mul(input.Z()))
	dir = dir.Add(c.upVector().Mul(input.Y()))

	if unit, ok := safeNormalize(dir); ok {
		if heading, moving := safeNormalize(c.velocity); moving {
			turn := unit.Sub(heading).Mul(c.velocity.Len() * dt * moveScale)
			c.velocity = c.velocity.Add(turn)
		}
		c.velocity = c.velocity.Add(unit.Mul(c.accel * dt * moveScale))
		c.velocity = clampLen(c.velocity, c.maxSpeed)
	} else {
		c.decelerate(dt)
	}

	if c.velocity.Len() == 0 {
		return
	}
	local := c.localPosition()
	moved := c.mover.Move(local, c.velocity.Mul(dt*moveScale))
	// The anchor is synced unconditionally: movement must never desync the
	// geocentric position from the rendering-frame transform, even when the
	// mover does not report transform changes.
	c.syncAnchorFromLocal(moved)
}

func (c *FreeFlyController) decelerate(dt float64) {
	speed := c.velocity.Len()
	if speed == 0 {
		return
	}
	if math.IsInf(c.cfg.DecelerationRate, 1) {
		c.velocity = mgl64.Vec3{}
		return
	}
	drop := c.cfg.DecelerationRate * dt * moveScale
	if drop >= speed {
		c.velocity = mgl64.Vec3{}
		return
	}
	c.velocity = c.velocity.Mul((speed - drop) / speed)
}

// basis returns the camera's right, up and forward axes in the rendering
// frame, derived from yaw (Y), pitch (X) and roll (Z).
func (c *FreeFlyController) basis() (right, up, forward mgl64.Vec3) {
	q := mgl64.QuatRotate(mgl64.DegToRad(c.yaw), mgl64.Vec3{0, 1, 0}).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(c.pitch), mgl64.Vec3{1, 0, 0})).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(c.roll), mgl64.Vec3{0, 0, 1}))
	return q.Rotate(mgl64.Vec3{1, 0, 0}), q.Rotate(mgl64.Vec3{0, 1, 0}), q.Rotate(mgl64.Vec3{0, 0, 1})
}

// upVector is the movement up direction: the georeference surface normal
// under the camera, or world up when no georeference is attached.
func (c *FreeFlyController) upVector() mgl64.Vec3 {
	if c.georef == nil {
		return mgl64.Vec3{0, 1, 0}
	}
	return c.georef.ToLocalDirection(c.georef.SurfaceNormal(c.anchor))
}

func (c *FreeFlyController) localPosition() mgl64.Vec3 {
	if c.georef == nil {
		return c.anchor
	}
	return c.georef.ToLocalPosition(c.anchor)
}

func (c *FreeFlyController) syncAnchorFromLocal(local mgl64.Vec3) {
	if c.georef == nil {
		c.anchor = local
		return
	}
	c.anchor = c.georef.ToGeocentricPosition(local)
}

func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
