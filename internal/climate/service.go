package climate

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"climate-data-platform/internal/metrics"
)

// Store is the contract the field stores (in-memory cache and file store)
// must satisfy.
type Store interface {
	Save(doc FieldDocument) error
	Get(variable, date string) (FieldDocument, error)
}

// Service orchestrates field synthesis and the two-level store: a durable
// file store behind an in-memory cache.
type Service struct {
	grid  GridSpec
	cache Store
	files Store
}

// NewService creates a new Service. Either store may be nil, in which case
// that level is skipped.
func NewService(grid GridSpec, cache, files Store) *Service {
	return &Service{
		grid:  grid,
		cache: cache,
		files: files,
	}
}

// Grid returns the grid all fields are synthesized on.
func (s *Service) Grid() GridSpec {
	return s.grid
}

// GenerateAndStore synthesizes the field for the date's calendar month and
// persists it. Synthesis is deterministic, so regenerating an existing
// (variable, date) document overwrites it with identical content.
func (s *Service) GenerateAndStore(ctx context.Context, variable string, date time.Time) (FieldDocument, error) {
	if variable != Var2mTemperature {
		return FieldDocument{}, fmt.Errorf("%w: unsupported variable %q", ErrInvalidInput, variable)
	}
	if err := ctx.Err(); err != nil {
		return FieldDocument{}, err
	}

	start := time.Now()
	field, err := Synthesize(int(date.Month()), s.grid)
	if err != nil {
		return FieldDocument{}, err
	}
	metrics.SynthesisTotal.Inc()
	metrics.SynthesisDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	doc := FieldDocument{
		Variable: variable,
		Units:    UnitsKelvin,
		Date:     date.Format("2006-01-02"),
		Time:     "12:00",
		Grid:     s.grid.Label(),
		Lats:     s.grid.Lats,
		Lons:     s.grid.Lons,
		Values:   field,
	}

	if s.files != nil {
		if err := s.files.Save(doc); err != nil {
			return FieldDocument{}, err
		}
	}
	if s.cache != nil {
		if err := s.cache.Save(doc); err != nil {
			// Cache failures are not fatal; the document is already durable.
			log.Printf("field cache save failed for %s %s: %v", variable, doc.Date, err)
		}
	}
	return doc, nil
}

// GetField returns the document for a (variable, date) pair: cache first,
// file store on miss, with cache fill.
func (s *Service) GetField(variable, date string) (FieldDocument, error) {
	if s.cache != nil {
		if doc, err := s.cache.Get(variable, date); err == nil {
			metrics.CacheHitsTotal.Inc()
			return doc, nil
		}
		metrics.CacheMissesTotal.Inc()
	}

	if s.files == nil {
		return FieldDocument{}, fmt.Errorf("no store configured")
	}
	doc, err := s.files.Get(variable, date)
	if err != nil {
		return FieldDocument{}, err
	}
	if s.cache != nil {
		if err := s.cache.Save(doc); err != nil {
			log.Printf("field cache fill failed for %s %s: %v", variable, date, err)
		}
	}
	return doc, nil
}

// PointResult is the value at the grid cell nearest a queried coordinate.
type PointResult struct {
	Variable string  `json:"variable"`
	Units    string  `json:"units"`
	Date     string  `json:"date"`
	Lat      float64 `json:"lat"` // snapped to the grid
	Lon      float64 `json:"lon"` // snapped to the grid
	Value    float64 `json:"value"`
}

// PointValue looks up the nearest grid cell for a coordinate. The returned
// Lat/Lon are the snapped cell coordinates, so callers can see how far the
// query point moved. Interpolation between cells is left to consumers.
func (s *Service) PointValue(variable, date string, lat, lon float64) (PointResult, error) {
	if lat < -90 || lat > 90 {
		return PointResult{}, fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidInput, lat)
	}
	if lon < -180 || lon > 180 {
		return PointResult{}, fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidInput, lon)
	}

	doc, err := s.GetField(variable, date)
	if err != nil {
		return PointResult{}, err
	}

	grid := GridSpec{Lats: doc.Lats, Lons: doc.Lons}
	i, j := grid.NearestIndex(lat, lon)

	return PointResult{
		Variable: doc.Variable,
		Units:    doc.Units,
		Date:     doc.Date,
		Lat:      doc.Lats[i],
		Lon:      doc.Lons[j],
		Value:    doc.Values[i][j],
	}, nil
}

// Bounds is an inclusive lat/lon box for regional summaries.
type Bounds struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Validate checks coordinate ranges and ordering.
func (b Bounds) Validate() error {
	if b.LatMin < -90 || b.LatMax > 90 || b.LatMin > b.LatMax {
		return fmt.Errorf("%w: latitude bounds [%v, %v]", ErrInvalidInput, b.LatMin, b.LatMax)
	}
	if b.LonMin < -180 || b.LonMax > 180 || b.LonMin > b.LonMax {
		return fmt.Errorf("%w: longitude bounds [%v, %v]", ErrInvalidInput, b.LonMin, b.LonMax)
	}
	return nil
}

// FieldSummary aggregates a field over an optional bounding box.
type FieldSummary struct {
	Variable string  `json:"variable"`
	Units    string  `json:"units"`
	Date     string  `json:"date"`
	Cells    int     `json:"cells"`
	MinK     float64 `json:"min"`
	MeanK    float64 `json:"mean"`
	MaxK     float64 `json:"max"`
	Bounds   *Bounds `json:"bounds,omitempty"`
}

// Summary computes min/mean/max over the cells inside bounds, or over the
// whole field when bounds is nil.
func (s *Service) Summary(variable, date string, bounds *Bounds) (FieldSummary, error) {
	if bounds != nil {
		if err := bounds.Validate(); err != nil {
			return FieldSummary{}, err
		}
	}

	doc, err := s.GetField(variable, date)
	if err != nil {
		return FieldSummary{}, err
	}

	var (
		cells int
		sum   float64
		min   = math.Inf(1)
		max   = math.Inf(-1)
	)
	for i, lat := range doc.Lats {
		if bounds != nil && (lat < bounds.LatMin || lat > bounds.LatMax) {
			continue
		}
		for j, lon := range doc.Lons {
			if bounds != nil && (lon < bounds.LonMin || lon > bounds.LonMax) {
				continue
			}
			v := doc.Values[i][j]
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			cells++
		}
	}

	if cells == 0 {
		return FieldSummary{}, fmt.Errorf("%w: bounds select no grid cells", ErrInvalidInput)
	}

	return FieldSummary{
		Variable: doc.Variable,
		Units:    doc.Units,
		Date:     doc.Date,
		Cells:    cells,
		MinK:     min,
		MeanK:    math.Round(sum/float64(cells)*100) / 100,
		MaxK:     max,
		Bounds:   bounds,
	}, nil
}
