package core

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/westphae/geomag/pkg/egm96"
)

// ElevationSource samples terrain height above the reference surface, in
// metres, at a geodetic coordinate. Sampling must be cheap enough to call
// from within a frame; sources are expected to cache internally.
type ElevationSource interface {
	ElevationAt(latDeg, lonDeg float64) (float64, error)
}

// FlatElevation is a constant-height elevation source.
type FlatElevation float64

func (f FlatElevation) ElevationAt(latDeg, lonDeg float64) (float64, error) {
	return float64(f), nil
}

// GeoidElevation derives a smooth global relief from the EGM96 geoid
// undulation. It is not real terrain, but it gives the dynamic speed and
// clip subsystems a surface that varies with position, which is what they
// care about. Samples are quantized to a milli-degree grid and cached.
type GeoidElevation struct {
	// Exaggeration scales the undulation (tens of metres globally) up to
	// something navigation can feel. 1 means true geoid heights.
	Exaggeration float64

	cache *lru.Cache[[2]int32, float64]
}

// NewGeoidElevation builds a GeoidElevation with an LRU sample cache of the
// given size.
func NewGeoidElevation(cacheSize int, exaggeration float64) (*GeoidElevation, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	if exaggeration <= 0 {
		exaggeration = 1
	}
	cache, err := lru.New[[2]int32, float64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create elevation cache: %w", err)
	}
	return &GeoidElevation{Exaggeration: exaggeration, cache: cache}, nil
}

func (g *GeoidElevation) ElevationAt(latDeg, lonDeg float64) (float64, error) {
	key := [2]int32{int32(latDeg * 1000), int32(lonDeg * 1000)}
	if h, ok := g.cache.Get(key); ok {
		return h, nil
	}

	// HeightAboveMSL of a point at ellipsoid height 0 is minus the geoid
	// undulation, so the surface height above the ellipsoid is its negation.
	loc := egm96.NewLocationGeodetic(latDeg, lonDeg, 0)
	msl, err := loc.HeightAboveMSL()
	if err != nil {
		return 0, fmt.Errorf("sample geoid at (%.3f, %.3f): %w", latDeg, lonDeg, err)
	}
	h := -msl * g.Exaggeration

	g.cache.Add(key, h)
	return h, nil
}
