package climate

import (
	"fmt"
	"math"
)

// Hard physical clamp range for synthesized 2m temperatures, in Kelvin.
const (
	ClampMinK = 210.0
	ClampMaxK = 320.0
)

// SeasonFactor returns the hemispheric summer/winter phase for a month:
// +1 at month 7 (northern-hemisphere summer peak), -1 at month 1, sinusoidal
// in between. Shared by all cells of a synthesis call.
func SeasonFactor(month int) float64 {
	return math.Cos(radians(float64(month-7) * 30))
}

// Synthesize deterministically computes a plausible global 2m temperature
// field for the given calendar month on the given grid. The per-cell model
// composites a latitudinal base gradient, a latitude-scaled seasonal swing
// (out of phase between hemispheres, amplified over land), and a small
// longitude-periodic wave, then clamps to [ClampMinK, ClampMaxK] and rounds
// to one decimal.
//
// Pure and side-effect free: identical inputs always produce identical
// outputs. Cells are independent, so callers may treat the work as
// embarrassingly parallel.
func Synthesize(month int, grid GridSpec) (TemperatureField, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d outside 1-12", ErrInvalidInput, month)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	season := SeasonFactor(month)

	field := make(TemperatureField, len(grid.Lats))
	for i, lat := range grid.Lats {
		row := make([]float64, len(grid.Lons))
		for j, lon := range grid.Lons {
			row[j] = cellTemperature(season, lat, lon)
		}
		field[i] = row
	}
	return field, nil
}

func cellTemperature(season, lat, lon float64) float64 {
	// Base: ~288K at the equator down to ~248K at the poles.
	base := 288.0 - 40.0*math.Abs(lat)/90.0

	// Seasonal swing grows with distance from the equator, up to 15K.
	seasonal := season * 15.0 * (math.Abs(lat) / 90.0)
	if lat < 0 {
		// Southern hemisphere is out of phase.
		seasonal = -seasonal
	}

	if IsLand(lat, lon) {
		// Land has a bigger seasonal swing and a slightly cooler mean.
		seasonal *= 1.4
		base -= 2
	}

	// Zonal ripple, period 180 degrees of longitude.
	zonal := 3.0 * math.Sin(radians(lon*2))

	temp := base + seasonal + zonal
	temp = math.Max(ClampMinK, math.Min(ClampMaxK, temp))
	return math.Round(temp*10) / 10
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
