package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/globe-navigator/model"
)

// newBareController builds a controller with no georeference or scene, so
// movement runs in a plain cartesian frame and both dynamic subsystems are
// inert.
func newBareController(cfg Config) *FreeFlyController {
	return NewFreeFlyController(cfg, model.Pose{}, nil, nil, nil)
}

func TestRotate_PitchClampsAtVertical(t *testing.T) {
	c := newBareController(Config{})

	// A huge upward look delta pins the pitch at straight up (90 after
	// unwrapping the [270,450] interval).
	c.Rotate(0, -1000, 1)
	if got := c.Pose().Pitch; math.Abs(got-90) > 1e-9 {
		t.Errorf("pitch after extreme upward look = %v, want 90", got)
	}

	// And a huge downward delta pins it at straight down.
	c.Rotate(0, 1000, 1)
	if got := c.Pose().Pitch; math.Abs(got-270) > 1e-9 {
		t.Errorf("pitch after extreme downward look = %v, want 270", got)
	}
}

func TestRotate_PitchStaysWithinGimbalInterval(t *testing.T) {
	c := newBareController(Config{})

	// No sequence of look inputs may push the wrapped pitch into (90, 270).
	deltas := []float64{-0.5, 2, -3, 10, -10, 0.25, 100, -100, 7}
	for _, d := range deltas {
		c.Rotate(0, d, 0.016)
		p := c.Pose().Pitch
		if p > 90+1e-9 && p < 270-1e-9 {
			t.Fatalf("pitch %v escaped the clamped interval after delta %v", p, d)
		}
	}
}

func TestRotate_YawWrapsAround(t *testing.T) {
	c := newBareController(Config{})
	c.SetPose(model.Pose{Yaw: 350})

	// 20 degrees of yaw at look speed 90 deg/s.
	c.Rotate(20.0/90.0, 0, 1)
	if got := c.Pose().Yaw; math.Abs(got-10) > 1e-9 {
		t.Errorf("yaw = %v, want 10 after wrapping", got)
	}
}

func TestRotate_DisabledIsNoop(t *testing.T) {
	c := newBareController(Config{MovementEnabled: true, RotationEnabled: false})
	c.Rotate(1, 1, 1)
	pose := c.Pose()
	if pose.Yaw != 0 || pose.Pitch != 0 {
		t.Errorf("rotation should be ignored when disabled, got yaw=%v pitch=%v", pose.Yaw, pose.Pitch)
	}
}

func TestMove_SpeedNeverExceedsBound(t *testing.T) {
	c := newBareController(Config{})

	for i := 0; i < 100; i++ {
		c.Update(Input{MoveZ: 1}, 0.016)
		if speed := c.Velocity().Len(); speed > c.MaxSpeed()+1e-9 {
			t.Fatalf("frame %d: speed %v exceeds bound %v", i, speed, c.MaxSpeed())
		}
	}

	if c.Velocity().Len() == 0 {
		t.Fatalf("expected sustained forward input to build up speed")
	}
	// Default orientation looks along +Z, so forward motion accumulates on Z.
	if z := c.Pose().Position.Z; z <= 0 {
		t.Errorf("expected forward displacement on Z, got %v", z)
	}
}

func TestMove_VelocityTurnsTowardNewHeading(t *testing.T) {
	c := newBareController(Config{})

	c.Update(Input{MoveZ: 1}, 0.016)
	c.Update(Input{MoveZ: 1}, 0.016)
	before := c.Velocity()

	// Strafe input pulls the velocity sideways without zeroing it.
	c.Update(Input{MoveX: 1}, 0.016)
	after := c.Velocity()
	if after.X() <= before.X() {
		t.Errorf("expected velocity to turn toward +X, got %v -> %v", before, after)
	}
	if after.Len() == 0 {
		t.Errorf("turning should not zero the velocity")
	}
}

func TestMove_DecelerationStopsWithoutInput(t *testing.T) {
	c := newBareController(Config{})

	c.Update(Input{MoveZ: 1}, 0.016)
	if c.Velocity().Len() == 0 {
		t.Fatalf("expected non-zero velocity after forward input")
	}

	for i := 0; i < 100 && c.Velocity().Len() > 0; i++ {
		c.Update(Input{}, 0.016)
	}
	if speed := c.Velocity().Len(); speed != 0 {
		t.Errorf("expected velocity to bleed off to zero, got %v", speed)
	}
}

func TestMove_InfiniteDecelerationStopsInstantly(t *testing.T) {
	c := newBareController(Config{
		MovementEnabled:  true,
		RotationEnabled:  true,
		DecelerationRate: math.Inf(1),
	})

	c.Update(Input{MoveZ: 1}, 0.016)
	c.Update(Input{}, 0.016)
	if speed := c.Velocity().Len(); speed != 0 {
		t.Errorf("expected instant stop with infinite deceleration, got %v", speed)
	}
	// The velocity must be exactly zero, not NaN from Inf*0 arithmetic.
	if v := c.Velocity(); math.IsNaN(v.X()) || math.IsNaN(v.Y()) || math.IsNaN(v.Z()) {
		t.Errorf("velocity picked up NaN components: %v", v)
	}
}

func TestMove_DisabledIsNoop(t *testing.T) {
	c := newBareController(Config{MovementEnabled: false, RotationEnabled: true})
	c.Update(Input{MoveZ: 1}, 0.016)
	if c.Velocity().Len() != 0 {
		t.Errorf("expected no velocity with movement disabled, got %v", c.Velocity())
	}
	if pos := c.Pose().Position; pos != (model.Position{}) {
		t.Errorf("expected no displacement with movement disabled, got %+v", pos)
	}
}

func TestUpdate_ZeroDtIsNoop(t *testing.T) {
	c := newBareController(Config{})
	c.Update(Input{MoveZ: 1, LookX: 1, SpeedTicks: 3}, 0)
	if c.Velocity().Len() != 0 || c.SpeedMultiplier() != 1 {
		t.Errorf("zero dt should change nothing, got velocity=%v multiplier=%v", c.Velocity(), c.SpeedMultiplier())
	}
}

func TestUpdate_SpeedTicksScaleTheBound(t *testing.T) {
	c := newBareController(Config{})
	base := c.MaxSpeed()

	c.Update(Input{MoveZ: 1, SpeedTicks: 1}, 0.016)
	if got := c.SpeedMultiplier(); math.Abs(got-1.5) > 1e-12 {
		t.Fatalf("multiplier after one tick = %v, want 1.5", got)
	}
	if got := c.MaxSpeed(); math.Abs(got-1.5*base) > 1e-6 {
		t.Errorf("max speed after one tick = %v, want %v", got, 1.5*base)
	}

	c.Update(Input{MoveZ: 1, SpeedTicks: -2}, 0.016)
	if got := c.SpeedMultiplier(); math.Abs(got-1.5/2.25) > 1e-12 {
		t.Errorf("multiplier after two down ticks = %v, want %v", got, 1.5/2.25)
	}
}

func TestUpdate_SpeedTicksClampToModeRange(t *testing.T) {
	// Fixed mode allows a far larger multiplier than dynamic mode.
	c := newBareController(Config{})
	c.Update(Input{MoveZ: 1, SpeedTicks: 40}, 0.016)
	if got := c.SpeedMultiplier(); got > maxSpeedMultiplierFixed {
		t.Errorf("fixed-mode multiplier %v exceeds cap %v", got, maxSpeedMultiplierFixed)
	}

	d := NewFreeFlyController(Config{
		MovementEnabled: true,
		RotationEnabled: true,
		DynamicSpeed:    DynamicSpeedConfig{Enabled: true},
	}, model.Pose{}, nil, nil, nil)
	d.Update(Input{MoveZ: 1, SpeedTicks: 40}, 0.016)
	if got := d.SpeedMultiplier(); math.Abs(got-maxSpeedMultiplierDynamic) > 1e-9 {
		t.Errorf("dynamic-mode multiplier = %v, want clamp at %v", got, maxSpeedMultiplierDynamic)
	}

	c.Update(Input{MoveZ: 1, SpeedTicks: -100}, 0.016)
	if got := c.SpeedMultiplier(); math.Abs(got-minSpeedMultiplier) > 1e-9 {
		t.Errorf("multiplier = %v, want clamp at %v", got, minSpeedMultiplier)
	}
}

func TestUpdate_SpeedResetRestoresMultiplier(t *testing.T) {
	c := newBareController(Config{})
	c.Update(Input{MoveZ: 1, SpeedTicks: 3}, 0.016)
	if c.SpeedMultiplier() == 1 {
		t.Fatalf("expected ticks to change the multiplier")
	}
	c.Update(Input{MoveZ: 1, SpeedReset: true}, 0.016)
	if got := c.SpeedMultiplier(); got != 1 {
		t.Errorf("multiplier after reset = %v, want 1", got)
	}
}

func TestUpdate_IdleResetsMultiplierInDynamicMode(t *testing.T) {
	c := NewFreeFlyController(Config{
		MovementEnabled: true,
		RotationEnabled: true,
		DynamicSpeed:    DynamicSpeedConfig{Enabled: true},
	}, model.Pose{}, nil, nil, nil)

	c.Update(Input{MoveZ: 1, SpeedTicks: 2}, 0.016)
	if c.SpeedMultiplier() == 1 {
		t.Fatalf("expected ticks to change the multiplier while moving")
	}

	// A frame with no movement input resets the multiplier in dynamic mode.
	c.Update(Input{}, 0.016)
	if got := c.SpeedMultiplier(); got != 1 {
		t.Errorf("multiplier after idle frame = %v, want 1", got)
	}
}

func TestUpdate_IdleKeepsMultiplierInFixedMode(t *testing.T) {
	c := newBareController(Config{})
	c.Update(Input{MoveZ: 1, SpeedTicks: 2}, 0.016)
	want := c.SpeedMultiplier()
	c.Update(Input{}, 0.016)
	if got := c.SpeedMultiplier(); got != want {
		t.Errorf("fixed-mode multiplier changed across an idle frame: %v -> %v", want, got)
	}
}

func TestUpdate_ToggleDynamicSpeed(t *testing.T) {
	c := newBareController(Config{})
	if c.DynamicSpeedEnabled() {
		t.Fatalf("dynamic speed should start disabled")
	}
	c.Update(Input{ToggleDynamicSpeed: true}, 0.016)
	if !c.DynamicSpeedEnabled() {
		t.Errorf("expected toggle to enable dynamic speed")
	}
	c.Update(Input{ToggleDynamicSpeed: true}, 0.016)
	if c.DynamicSpeedEnabled() {
		t.Errorf("expected second toggle to disable dynamic speed")
	}
}

func TestSetPose_DoesNotTouchVelocity(t *testing.T) {
	c := newBareController(Config{})
	c.Update(Input{MoveZ: 1}, 0.016)
	v := c.Velocity()

	c.SetPose(model.Pose{Position: model.Position{X: 1000}, Yaw: 45})
	if c.Velocity() != v {
		t.Errorf("SetPose changed velocity: %v -> %v", v, c.Velocity())
	}
	if got := c.Pose().Position.X; got != 1000 {
		t.Errorf("SetPose did not move the camera, X=%v", got)
	}
}

func TestSetSpeedMultiplier_Clamps(t *testing.T) {
	c := newBareController(Config{})
	c.SetSpeedMultiplier(1e9)
	if got := c.SpeedMultiplier(); got > maxSpeedMultiplierFixed {
		t.Errorf("multiplier %v exceeds fixed cap", got)
	}
	c.SetSpeedMultiplier(0)
	if got := c.SpeedMultiplier(); math.Abs(got-minSpeedMultiplier) > 1e-12 {
		t.Errorf("multiplier = %v, want floor %v", got, minSpeedMultiplier)
	}
}

func TestMoveVertical_UsesLocalUp(t *testing.T) {
	// With a georeference attached, vertical input moves along the surface
	// normal under the camera, not the frame Y axis.
	georef := NewWGS84Georeference(mgl64.Vec3{})
	start := model.Pose{Position: model.Position{X: WGS84SemiMajorM + 1000}}
	c := NewFreeFlyController(Config{}, start, georef, nil, nil)

	c.Update(Input{MoveVertical: 1}, 0.016)
	if got := c.Velocity(); got.X() <= 0 {
		t.Errorf("expected upward velocity along the +X surface normal, got %v", got)
	}
}
