package core

import "github.com/signalsfoundry/globe-navigator/model"

// ScriptedController replays a recorded pose stream, interpolating between
// samples. Input is ignored; the playhead advances with frame time and
// holds the last pose once the script ends.
type ScriptedController struct {
	frames  []model.TimedPose
	elapsed float64
	inRange *BodySet
}

// NewScriptedController builds a replay strategy over the given samples,
// which must be ordered by time.
func NewScriptedController(frames []model.TimedPose) *ScriptedController {
	return &ScriptedController{
		frames:  frames,
		inRange: NewBodySet(),
	}
}

// Pose implements Controller.
func (c *ScriptedController) Pose() model.Pose {
	if len(c.frames) == 0 {
		return model.Pose{}
	}
	if c.elapsed <= c.frames[0].T {
		return c.frames[0].Pose
	}
	last := c.frames[len(c.frames)-1]
	if c.elapsed >= last.T {
		return last.Pose
	}
	for i := 1; i < len(c.frames); i++ {
		if c.frames[i].T < c.elapsed {
			continue
		}
		a, b := c.frames[i-1], c.frames[i]
		span := b.T - a.T
		if span <= 0 {
			return b.Pose
		}
		return lerpPose(a.Pose, b.Pose, (c.elapsed-a.T)/span)
	}
	return last.Pose
}

// InRange implements Controller.
func (c *ScriptedController) InRange() *BodySet { return c.inRange }

// Update implements Controller by advancing the playhead.
func (c *ScriptedController) Update(in Input, dt float64) {
	if dt > 0 {
		c.elapsed += dt
	}
}

// Finished reports whether the playhead has passed the last sample.
func (c *ScriptedController) Finished() bool {
	return len(c.frames) == 0 || c.elapsed >= c.frames[len(c.frames)-1].T
}

func lerpPose(a, b model.Pose, t float64) model.Pose {
	return model.Pose{
		Position: model.Position{
			X: a.Position.X + (b.Position.X-a.Position.X)*t,
			Y: a.Position.Y + (b.Position.Y-a.Position.Y)*t,
			Z: a.Position.Z + (b.Position.Z-a.Position.Z)*t,
		},
		Yaw:   lerpAngleDeg(a.Yaw, b.Yaw, t),
		Pitch: lerpAngleDeg(a.Pitch, b.Pitch, t),
		Roll:  lerpAngleDeg(a.Roll, b.Roll, t),
	}
}

// lerpAngleDeg interpolates along the shortest arc between two angles.
func lerpAngleDeg(a, b, t float64) float64 {
	diff := normalizeDeg(b - a)
	if diff > 180 {
		diff -= 360
	}
	return normalizeDeg(a + diff*t)
}
