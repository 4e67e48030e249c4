package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/globe-navigator/model"
)

func TestScriptedController_InterpolatesBetweenSamples(t *testing.T) {
	c := NewScriptedController([]model.TimedPose{
		{T: 0, Pose: model.Pose{Position: model.Position{X: 0}, Yaw: 0}},
		{T: 10, Pose: model.Pose{Position: model.Position{X: 100}, Yaw: 90}},
	})

	c.Update(Input{}, 5)
	pose := c.Pose()
	if math.Abs(pose.Position.X-50) > 1e-9 {
		t.Errorf("position X = %v, want 50 at the midpoint", pose.Position.X)
	}
	if math.Abs(pose.Yaw-45) > 1e-9 {
		t.Errorf("yaw = %v, want 45 at the midpoint", pose.Yaw)
	}
}

func TestScriptedController_HoldsLastPose(t *testing.T) {
	c := NewScriptedController([]model.TimedPose{
		{T: 0, Pose: model.Pose{Position: model.Position{X: 0}}},
		{T: 1, Pose: model.Pose{Position: model.Position{X: 100}}},
	})

	c.Update(Input{}, 50)
	if got := c.Pose().Position.X; got != 100 {
		t.Errorf("position X = %v, want last sample held", got)
	}
	if !c.Finished() {
		t.Errorf("expected Finished after the playhead passed the last sample")
	}
}

func TestScriptedController_YawTakesShortestArc(t *testing.T) {
	c := NewScriptedController([]model.TimedPose{
		{T: 0, Pose: model.Pose{Yaw: 350}},
		{T: 10, Pose: model.Pose{Yaw: 10}},
	})

	c.Update(Input{}, 5)
	if got := c.Pose().Yaw; math.Abs(got-0) > 1e-9 && math.Abs(got-360) > 1e-9 {
		t.Errorf("yaw = %v, want 0 via the short arc through north", got)
	}
}

func TestScriptedController_EmptyScript(t *testing.T) {
	c := NewScriptedController(nil)
	if got := c.Pose(); got != (model.Pose{}) {
		t.Errorf("empty script should yield the zero pose, got %+v", got)
	}
	if !c.Finished() {
		t.Errorf("empty script should report finished")
	}
}

func TestScriptedController_IgnoresInput(t *testing.T) {
	c := NewScriptedController([]model.TimedPose{
		{T: 0, Pose: model.Pose{Position: model.Position{X: 1}}},
		{T: 10, Pose: model.Pose{Position: model.Position{X: 2}}},
	})
	c.Update(Input{MoveZ: 1, LookX: 5, SpeedTicks: 3}, 0)
	if got := c.Pose().Position.X; got != 1 {
		t.Errorf("input must not move a scripted controller, got X=%v", got)
	}
}
