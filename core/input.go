package core

// Input is one frame's worth of navigation input, already abstracted away
// from the physical device. Edge-triggered fields (SpeedReset,
// ToggleDynamicSpeed) are true only on the frame the edge occurred.
type Input struct {
	// Look deltas in device units; scaled by the controller's look speed.
	LookX float64
	LookY float64

	// Movement axes in [-1, 1]: MoveX strafes, MoveZ moves forward,
	// MoveVertical moves along the locally-computed up direction.
	MoveX        float64
	MoveZ        float64
	MoveVertical float64

	// SpeedTicks counts discrete speed-multiplier inputs this frame
	// (positive raises, negative lowers).
	SpeedTicks int

	SpeedReset         bool
	ToggleDynamicSpeed bool
}

// IsMoving reports whether any movement axis is active.
func (in Input) IsMoving() bool {
	return in.MoveX != 0 || in.MoveZ != 0 || in.MoveVertical != 0
}

// InputSource supplies the per-frame input snapshot. Implementations poll
// whatever device layer they sit on; the core never touches devices.
type InputSource interface {
	Poll() Input
}

// InputFunc adapts a function to the InputSource interface.
type InputFunc func() Input

func (f InputFunc) Poll() Input { return f() }
