package core

// AdjustClipPlanes runs once per frame after the proximity trackers and
// re-sizes the near/far clip planes from the same height measurement the
// speed subsystem uses. A failed raycast leaves both planes untouched.
//
// Below the configured minimum height the planes reset to their initial
// values; above it the far plane grows with altitude and the near plane is
// only ever raised, never lowered.
func (c *FreeFlyController) AdjustClipPlanes() {
	if !c.cfg.DynamicClip.Enabled || c.georef == nil || c.scene == nil {
		return
	}

	height, ok := c.measureHeight()
	if !ok {
		return
	}

	cfg := c.cfg.DynamicClip
	if height < cfg.MinHeight {
		c.nearClip = cfg.InitialNear
		c.farClip = cfg.InitialFar
		return
	}

	far := clamp(height+2*c.clipRadius(), 0, cfg.FarMax)
	c.farClip = far

	if near := far / cfg.MaxNearToFarRatio; near > c.nearClip {
		if near > cfg.NearMax {
			near = cfg.NearMax
		}
		if near > far {
			near = far
		}
		c.nearClip = near
	}
}

// clipRadius is the surface radius the far plane extends past: the largest
// visible-surface radius among in-range bodies that use the configured
// reference unit, or the configured reference radius when none qualify.
func (c *FreeFlyController) clipRadius() float64 {
	radius := c.cfg.DynamicClip.ReferenceRadius
	if c.bodies == nil || c.inRange.Len() == 0 {
		return radius
	}
	best := 0.0
	for _, b := range c.bodies.ListBodies() {
		if !c.inRange.Contains(b.ID) {
			continue
		}
		if b.SurfaceRadius <= 0 || b.Unit != c.cfg.DynamicClip.ReferenceUnit {
			continue
		}
		if r := b.SurfaceRadiusMetres(); r > best {
			best = r
		}
	}
	if best > 0 {
		return best
	}
	return radius
}
