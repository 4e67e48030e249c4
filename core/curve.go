package core

// SpeedCurve maps a raw altitude-derived speed value to a bounded maximum
// speed. It is built once and never mutated: a linear segment covers
// ground level through orbit-adjacent altitudes, then an eased segment
// rolls the bound off at extreme range so speed does not grow without
// limit. Outside the domain the curve clamps flat to its endpoints.
type SpeedCurve struct {
	x0, y0 float64
	x1, y1 float64
	x2, y2 float64
}

// NewSpeedCurve returns the standard navigation speed-bound curve with
// control points (0, 4), (1e7, 1e7) and (1.3e7, 2e6).
func NewSpeedCurve() *SpeedCurve {
	return &SpeedCurve{
		x0: 0, y0: 4,
		x1: 1e7, y1: 1e7,
		x2: 1.3e7, y2: 2e6,
	}
}

// Evaluate returns the bounded speed for the given raw value.
func (c *SpeedCurve) Evaluate(x float64) float64 {
	switch {
	case x <= c.x0:
		return c.y0
	case x <= c.x1:
		t := (x - c.x0) / (c.x1 - c.x0)
		return c.y0 + (c.y1-c.y0)*t
	case x <= c.x2:
		// Zero-tangent Hermite ease between the last two points.
		t := (x - c.x1) / (c.x2 - c.x1)
		s := t * t * (3 - 2*t)
		return c.y1 + (c.y2-c.y1)*s
	default:
		return c.y2
	}
}
