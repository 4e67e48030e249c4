package world

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/globe-navigator/model"
)

// Scenario is a small summary of what was loaded from JSON. It's mainly
// useful for logging or debugging from main().
type Scenario struct {
	BodyIDs []string

	tles map[string][2]string
}

// TLELines returns the TLE pair loaded for a body, or empty strings when
// the scenario carries none. Bound as a method value it satisfies the
// motion engine's TLEFetcher.
func (s *Scenario) TLELines(b *model.BodyDefinition) (string, string) {
	t, ok := s.tles[b.ID]
	if !ok {
		return "", ""
	}
	return t[0], t[1]
}

// internal JSON shapes - kept unexported so the format is free to evolve.
type scenarioJSON struct {
	Bodies []bodyJSON `json:"bodies"`
}

type bodyJSON struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Position      positionJSON `json:"position"`
	MaxRadius     float64      `json:"max_radius"`
	SurfaceRadius float64      `json:"surface_radius"`
	Unit          string       `json:"unit"`   // "m" | "km"; defaults to metres
	Motion        string       `json:"motion"` // "static" | "spacetrack"; defaults to static
	TLE1          string       `json:"tle1"`
	TLE2          string       `json:"tle2"`
}

type positionJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LoadScenario reads a JSON world description from r, populates the store
// with its bodies, and returns a summary of what was loaded.
//
// It deliberately fails only on JSON / structural errors; duplicate IDs
// surface through the store's own invariants.
func LoadScenario(store *Store, r io.Reader) (*Scenario, error) {
	if store == nil {
		return nil, fmt.Errorf("LoadScenario: store is nil")
	}

	var payload scenarioJSON
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	result := &Scenario{
		BodyIDs: make([]string, 0, len(payload.Bodies)),
		tles:    make(map[string][2]string),
	}

	for _, jb := range payload.Bodies {
		if jb.ID == "" {
			return nil, fmt.Errorf("LoadScenario: body with empty id")
		}
		unit, err := unitFromString(jb.Unit)
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: body %q: %w", jb.ID, err)
		}

		b := &model.BodyDefinition{
			ID:            jb.ID,
			Name:          jb.Name,
			Position:      model.Position{X: jb.Position.X, Y: jb.Position.Y, Z: jb.Position.Z},
			MaxRadius:     jb.MaxRadius,
			SurfaceRadius: jb.SurfaceRadius,
			Unit:          unit,
			MotionSource:  motionFromString(jb.Motion),
		}
		if err := store.AddBody(b); err != nil {
			return nil, fmt.Errorf("LoadScenario: %w", err)
		}

		if jb.TLE1 != "" && jb.TLE2 != "" {
			result.tles[jb.ID] = [2]string{jb.TLE1, jb.TLE2}
		}
		result.BodyIDs = append(result.BodyIDs, jb.ID)
	}
	return result, nil
}

func unitFromString(s string) (model.ReferenceUnit, error) {
	switch s {
	case "", "m", "metres", "meters":
		return model.UnitMetres, nil
	case "km", "kilometres", "kilometers":
		return model.UnitKilometres, nil
	default:
		return model.UnitMetres, fmt.Errorf("unknown unit %q", s)
	}
}

func motionFromString(s string) model.MotionSource {
	if s == "spacetrack" {
		return model.MotionSourceSpacetrack
	}
	return model.MotionSourceUnknown
}
