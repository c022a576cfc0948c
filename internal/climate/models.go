package climate

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput is returned when a caller violates the synthesis contract
// (month outside 1-12, degenerate or inconsistent grid axes).
var ErrInvalidInput = errors.New("invalid input")

// Variable identifiers for the fields the platform can produce.
const (
	Var2mTemperature = "2m_temperature"
)

// Units reported for each known variable.
const (
	UnitsKelvin = "K"
)

// GridSpec defines the fixed latitude/longitude sample axes of a field.
// Lats are degrees, descending from +90 to -90; Lons are degrees, ascending
// from -180 upward. Both axes are uniform-step.
type GridSpec struct {
	Lats []float64 `json:"lats"`
	Lons []float64 `json:"lons"`
}

// NewGridSpec builds a global grid at the given step in degrees: latitudes
// from 90 down to -90 inclusive, longitudes from -180 up to 180-step.
// The production default is 2.5 degrees (73 x 144 cells).
func NewGridSpec(step float64) (GridSpec, error) {
	if step <= 0 || step > 90 {
		return GridSpec{}, fmt.Errorf("%w: grid step %v out of range", ErrInvalidInput, step)
	}

	nLat := int(math.Round(180/step)) + 1
	nLon := int(math.Round(360 / step))

	g := GridSpec{
		Lats: make([]float64, nLat),
		Lons: make([]float64, nLon),
	}
	for i := range g.Lats {
		g.Lats[i] = 90.0 - float64(i)*step
	}
	for i := range g.Lons {
		g.Lons[i] = -180.0 + float64(i)*step
	}
	return g, nil
}

// Validate checks the axis invariants: non-empty axes, latitudes strictly
// descending with a uniform step, longitudes strictly ascending with a
// uniform step.
func (g GridSpec) Validate() error {
	if len(g.Lats) == 0 || len(g.Lons) == 0 {
		return fmt.Errorf("%w: empty grid axis", ErrInvalidInput)
	}
	if err := checkUniform(g.Lats, false); err != nil {
		return fmt.Errorf("%w: latitudes: %v", ErrInvalidInput, err)
	}
	if err := checkUniform(g.Lons, true); err != nil {
		return fmt.Errorf("%w: longitudes: %v", ErrInvalidInput, err)
	}
	return nil
}

// checkUniform verifies strict monotonicity and uniform spacing.
// Axis values come from fixed-step constructors, so exact float comparison
// of steps is tolerated only within a small epsilon.
func checkUniform(axis []float64, ascending bool) error {
	if len(axis) < 2 {
		return nil
	}
	step := axis[1] - axis[0]
	if ascending && step <= 0 {
		return errors.New("not ascending")
	}
	if !ascending && step >= 0 {
		return errors.New("not descending")
	}
	const eps = 1e-9
	for i := 2; i < len(axis); i++ {
		if math.Abs((axis[i]-axis[i-1])-step) > eps {
			return errors.New("non-uniform step")
		}
	}
	return nil
}

// Label returns the resolution label used in persisted documents, e.g.
// "2.5deg" for the default grid.
func (g GridSpec) Label() string {
	if len(g.Lats) < 2 {
		return "unknown"
	}
	step := g.Lats[0] - g.Lats[1]
	return fmt.Sprintf("%gdeg", step)
}

// NearestIndex snaps an arbitrary coordinate to the closest grid cell and
// returns its axis indices. Coordinates outside the axis range snap to the
// boundary cell. This is a nearest-cell lookup, not interpolation.
func (g GridSpec) NearestIndex(lat, lon float64) (int, int) {
	return nearest(g.Lats, lat), nearest(g.Lons, lon)
}

func nearest(axis []float64, v float64) int {
	best := 0
	bestDist := math.Abs(axis[0] - v)
	for i := 1; i < len(axis); i++ {
		d := math.Abs(axis[i] - v)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// TemperatureField is a 2D array of Kelvin values indexed
// [lat-index][lon-index], aligned 1:1 with a GridSpec.
type TemperatureField [][]float64

// FieldDocument is the persisted form of a synthesized field, matching the
// JSON layout a real reanalysis download pipeline would produce.
type FieldDocument struct {
	Variable string      `json:"variable"`
	Units    string      `json:"units"`
	Date     string      `json:"date"` // YYYY-MM-DD
	Time     string      `json:"time"`
	Grid     string      `json:"grid"`
	Lats     []float64   `json:"lats"`
	Lons     []float64   `json:"lons"`
	Values   [][]float64 `json:"values"`
}

// Validate enforces the document shape invariant:
// len(Values) == len(Lats) and len(Values[i]) == len(Lons) for all i.
func (d FieldDocument) Validate() error {
	if len(d.Lats) == 0 || len(d.Lons) == 0 {
		return fmt.Errorf("%w: empty coordinate axes", ErrInvalidInput)
	}
	if len(d.Values) != len(d.Lats) {
		return fmt.Errorf("%w: %d value rows for %d latitudes", ErrInvalidInput, len(d.Values), len(d.Lats))
	}
	for i, row := range d.Values {
		if len(row) != len(d.Lons) {
			return fmt.Errorf("%w: row %d has %d values for %d longitudes", ErrInvalidInput, i, len(row), len(d.Lons))
		}
	}
	return nil
}

// ParseDate parses the YYYY-MM-DD date used throughout the platform.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: use YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t.UTC(), nil
}
