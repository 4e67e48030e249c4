package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Georeference converts between the body-fixed geocentric frame and the
// local rendering frame, and supplies ellipsoid surface normals. The
// rendering frame may be rebased (origin-shifted) as the viewpoint moves;
// directions are shared between the two frames.
type Georeference interface {
	ToLocalPosition(geocentric mgl64.Vec3) mgl64.Vec3
	ToGeocentricPosition(local mgl64.Vec3) mgl64.Vec3
	ToLocalDirection(geocentric mgl64.Vec3) mgl64.Vec3
	SurfaceNormal(geocentric mgl64.Vec3) mgl64.Vec3
}

// EllipsoidGeoreference is a Georeference over a reference ellipsoid whose
// rendering frame is the geocentric frame translated by a rebasing origin.
type EllipsoidGeoreference struct {
	Origin    mgl64.Vec3 // rendering-frame origin, geocentric metres
	SemiMajor float64
	SemiMinor float64
}

// NewWGS84Georeference returns an EllipsoidGeoreference over the WGS84
// ellipsoid with the given rendering origin.
func NewWGS84Georeference(origin mgl64.Vec3) *EllipsoidGeoreference {
	return &EllipsoidGeoreference{
		Origin:    origin,
		SemiMajor: WGS84SemiMajorM,
		SemiMinor: WGS84SemiMinorM,
	}
}

func (g *EllipsoidGeoreference) ToLocalPosition(geocentric mgl64.Vec3) mgl64.Vec3 {
	return geocentric.Sub(g.Origin)
}

func (g *EllipsoidGeoreference) ToGeocentricPosition(local mgl64.Vec3) mgl64.Vec3 {
	return local.Add(g.Origin)
}

func (g *EllipsoidGeoreference) ToLocalDirection(geocentric mgl64.Vec3) mgl64.Vec3 {
	return geocentric
}

// SurfaceNormal returns the outward ellipsoid normal under the given
// geocentric position. For a degenerate position at the centre it falls
// back to the +Z axis.
func (g *EllipsoidGeoreference) SurfaceNormal(geocentric mgl64.Vec3) mgl64.Vec3 {
	a := g.SemiMajor
	b := g.SemiMinor
	if a <= 0 {
		a = WGS84SemiMajorM
	}
	if b <= 0 {
		b = a
	}
	grad := mgl64.Vec3{
		geocentric.X() / (a * a),
		geocentric.Y() / (a * a),
		geocentric.Z() / (b * b),
	}
	n, ok := safeNormalize(grad)
	if !ok {
		return mgl64.Vec3{0, 0, 1}
	}
	return n
}

// GeodeticLatLon returns the geocentric latitude and longitude in degrees
// under the given position. Geocentric latitude is a close enough proxy for
// geodetic latitude for elevation sampling purposes.
func GeodeticLatLon(geocentric mgl64.Vec3) (latDeg, lonDeg float64) {
	r := geocentric.Len()
	if r < 1e-9 {
		return 0, 0
	}
	lat := math.Asin(clamp(geocentric.Z()/r, -1, 1))
	lon := math.Atan2(geocentric.Y(), geocentric.X())
	return mgl64.RadToDeg(lat), mgl64.RadToDeg(lon)
}
