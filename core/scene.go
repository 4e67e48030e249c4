package core

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/globe-navigator/model"
)

// Hit reports a successful scene query.
type Hit struct {
	Distance float64
}

// Scene is the synchronous raycast primitive the navigation core senses its
// environment with. Origins and directions are in the local rendering
// frame; maxDistance <= 0 means unlimited.
type Scene interface {
	Raycast(origin, dir mgl64.Vec3, maxDistance float64) (Hit, bool)
}

// BodyProvider yields a snapshot of body definitions in a stable order.
type BodyProvider interface {
	ListBodies() []model.BodyDefinition
}

// GlobeScene raycasts against the visible surfaces of the provided bodies,
// modelled as spheres of their surface radius, optionally displaced by a
// terrain elevation source. It is the analytic stand-in for the streamed
// terrain meshes a full viewer would query.
type GlobeScene struct {
	Bodies    BodyProvider
	Georef    Georeference
	Elevation ElevationSource // optional
}

// NewGlobeScene constructs a scene over the given bodies and frame mapping.
func NewGlobeScene(bodies BodyProvider, georef Georeference) *GlobeScene {
	return &GlobeScene{Bodies: bodies, Georef: georef}
}

// Raycast returns the nearest surface intersection along the ray. Bodies
// without a visible surface never register hits.
func (s *GlobeScene) Raycast(origin, dir mgl64.Vec3, maxDistance float64) (Hit, bool) {
	if s.Bodies == nil || s.Georef == nil {
		return Hit{}, false
	}
	unit, ok := safeNormalize(dir)
	if !ok {
		return Hit{}, false
	}

	best := 0.0
	found := false
	for _, b := range s.Bodies.ListBodies() {
		radius := b.SurfaceRadiusMetres()
		if radius <= 0 {
			continue
		}
		center := s.Georef.ToLocalPosition(b.Position.Vec())
		t, hit := raySphere(origin, unit, center, radius)
		if !hit {
			continue
		}
		t = s.refineWithElevation(origin, unit, center, radius, t)
		if t <= 0 {
			continue
		}
		if maxDistance > 0 && t > maxDistance {
			continue
		}
		if !found || t < best {
			best = t
			found = true
		}
	}
	if !found {
		return Hit{}, false
	}
	return Hit{Distance: best}, true
}

// refineWithElevation re-intersects against the sphere displaced by the
// terrain height sampled at the initial hit point. One refinement step is
// enough for the gentle slopes an elevation model produces at globe scale.
func (s *GlobeScene) refineWithElevation(origin, unit, center mgl64.Vec3, radius, t float64) float64 {
	if s.Elevation == nil {
		return t
	}
	hitLocal := origin.Add(unit.Mul(t))
	lat, lon := GeodeticLatLon(s.Georef.ToGeocentricPosition(hitLocal).Sub(s.Georef.ToGeocentricPosition(center)))
	h, err := s.Elevation.ElevationAt(lat, lon)
	if err != nil || h == 0 {
		return t
	}
	refined, hit := raySphere(origin, unit, center, radius+h)
	if !hit {
		return t
	}
	return refined
}
