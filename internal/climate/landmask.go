package climate

// Region is an axis-aligned bounding box approximating a continent.
// All bounds are strict open intervals: a coordinate exactly on a limit
// does not count as land.
type Region struct {
	Name   string
	LonMin float64
	LonMax float64
	LatMin float64
	LatMax float64
}

// continents is a coarse land mask. It is a static configuration table so a
// real coastline dataset can replace it without touching the synthesis code.
var continents = []Region{
	{Name: "eurasia", LonMin: 0, LonMax: 140, LatMin: 10, LatMax: 90},
	{Name: "africa", LonMin: -20, LonMax: 50, LatMin: -35, LatMax: 35},
	{Name: "north-america", LonMin: -130, LonMax: -60, LatMin: 15, LatMax: 90},
	{Name: "south-america", LonMin: -80, LonMax: -35, LatMin: -55, LatMax: 10},
	{Name: "australia", LonMin: 115, LonMax: 155, LatMin: -40, LatMax: -10},
}

// All continental checks are further restricted to this latitude band.
const (
	landBandLatMin = -30.0
	landBandLatMax = 70.0
)

// IsLand reports whether the coordinate falls inside the continental mask.
func IsLand(lat, lon float64) bool {
	if !(lat > landBandLatMin && lat < landBandLatMax) {
		return false
	}
	for _, r := range continents {
		if lon > r.LonMin && lon < r.LonMax && lat > r.LatMin && lat < r.LatMax {
			return true
		}
	}
	return false
}
