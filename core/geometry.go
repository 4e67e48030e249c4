package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WGS84 ellipsoid radii in metres, used by the default georeference and as
// the fallback clip-plane reference radius.
const (
	WGS84SemiMajorM = 6378137.0
	WGS84SemiMinorM = 6356752.314245
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// safeNormalize returns the unit vector of v, reporting false for vectors
// too short to normalize meaningfully.
func safeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	n := v.Len()
	if n < 1e-12 {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / n), true
}

// clampLen limits the magnitude of v to max, preserving direction.
func clampLen(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if max <= 0 {
		return mgl64.Vec3{}
	}
	n := v.Len()
	if n <= max {
		return v
	}
	return v.Mul(max / n)
}

// raySphere intersects a ray with a sphere and returns the distance to the
// nearest intersection in front of the origin. An origin inside the sphere
// hits the far wall.
func raySphere(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	oc := origin.Sub(center)
	// dir is assumed unit length, so a == 1.
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
