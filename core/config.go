package core

import (
	"math"

	"github.com/signalsfoundry/globe-navigator/model"
)

// Config holds the immutable configuration of a free-fly controller, set
// once at construction. Out-of-range numeric values are clamped to valid
// ranges by ApplyDefaults rather than rejected.
type Config struct {
	// MovementEnabled and RotationEnabled gate the two input paths
	// independently.
	MovementEnabled bool
	RotationEnabled bool

	// LookSpeed is the rotation rate in degrees per second per unit of
	// look delta. Default: 90.
	LookSpeed float64

	// DefaultMaxSpeed is the raw speed value used while dynamic speed is
	// disabled; it still passes through the speed-bound curve.
	// Default: 5000.
	DefaultMaxSpeed float64

	// DecelerationRate bleeds speed off when movement input stops.
	// +Inf stops instantly. Default: 20000.
	DecelerationRate float64

	// AccelMin and AccelMax band the recomputed acceleration rate.
	// Defaults: 50 and 2e6.
	AccelMin float64
	AccelMax float64

	DynamicSpeed DynamicSpeedConfig
	DynamicClip  DynamicClipConfig
}

// DynamicSpeedConfig governs the altitude-adaptive speed subsystem.
type DynamicSpeedConfig struct {
	Enabled bool

	// MinHeight is the height at or below which a missed forward ray still
	// permits overriding the pre-multiplier speed. Default: 100.
	MinHeight float64

	// MaxRaycastDistance caps the forward probe ray. Default: 5e7.
	MaxRaycastDistance float64
}

// DynamicClipConfig governs the altitude-adaptive clip-plane subsystem.
type DynamicClipConfig struct {
	Enabled bool

	// MinHeight is the altitude below which clip planes reset to their
	// initial values. Default: 1e5.
	MinHeight float64

	// InitialNear and InitialFar are the baseline clip distances.
	// Defaults: 10 and 2e7.
	InitialNear float64
	InitialFar  float64

	// NearMax and FarMax are absolute caps. Defaults: 1e5 and 2e8.
	NearMax float64
	FarMax  float64

	// MaxNearToFarRatio is the far/near quotient the near plane is raised
	// toward. Default: 1000.
	MaxNearToFarRatio float64

	// ReferenceRadius is the fallback surface radius in metres when no
	// in-range body provides one. Default: the WGS84 semi-major axis.
	ReferenceRadius float64

	// ReferenceUnit selects which bodies may override the radius: only
	// in-range bodies using this unit convention are considered.
	ReferenceUnit model.ReferenceUnit
}

// ApplyDefaults fills zero fields with defaults and clamps out-of-range
// values. A zero-value Config yields a controller with movement and
// rotation enabled and both dynamic subsystems off.
func (c Config) ApplyDefaults() Config {
	zero := c == Config{}
	if zero {
		c.MovementEnabled = true
		c.RotationEnabled = true
	}
	if c.LookSpeed <= 0 {
		c.LookSpeed = 90
	}
	if c.DefaultMaxSpeed <= 0 {
		c.DefaultMaxSpeed = 5000
	}
	if c.DecelerationRate <= 0 {
		c.DecelerationRate = 20000
	}
	if c.AccelMin <= 0 {
		c.AccelMin = 50
	}
	if c.AccelMax <= 0 {
		c.AccelMax = 2e6
	}
	if c.AccelMax < c.AccelMin {
		c.AccelMax = c.AccelMin
	}
	c.DynamicSpeed = c.DynamicSpeed.applyDefaults()
	c.DynamicClip = c.DynamicClip.applyDefaults()
	return c
}

func (c DynamicSpeedConfig) applyDefaults() DynamicSpeedConfig {
	if c.MinHeight <= 0 {
		c.MinHeight = 100
	}
	if c.MaxRaycastDistance <= 0 {
		c.MaxRaycastDistance = 5e7
	}
	return c
}

func (c DynamicClipConfig) applyDefaults() DynamicClipConfig {
	if c.MinHeight <= 0 {
		c.MinHeight = 1e5
	}
	if c.InitialNear <= 0 {
		c.InitialNear = 10
	}
	if c.InitialFar <= 0 {
		c.InitialFar = 2e7
	}
	if c.InitialFar < c.InitialNear {
		c.InitialFar = c.InitialNear
	}
	if c.NearMax <= 0 {
		c.NearMax = 1e5
	}
	if c.FarMax <= 0 {
		c.FarMax = 2e8
	}
	if c.MaxNearToFarRatio < 1 {
		c.MaxNearToFarRatio = 1000
	}
	if c.ReferenceRadius <= 0 {
		c.ReferenceRadius = WGS84SemiMajorM
	}
	if math.IsNaN(c.ReferenceRadius) {
		c.ReferenceRadius = WGS84SemiMajorM
	}
	return c
}
