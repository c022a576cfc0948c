package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"climate-data-platform/internal/catalog"
	"climate-data-platform/internal/climate"
	"climate-data-platform/internal/jobs"
	"climate-data-platform/internal/metrics"
	"climate-data-platform/internal/store"
)

var validate = validator.New()

// Deps bundles the collaborators the HTTP layer exposes.
type Deps struct {
	Service *climate.Service
	Catalog *catalog.Catalog
	Jobs    *jobs.Runner
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		metrics.RequestsTotal.WithLabelValues(c.Route().Path).Inc()
		metrics.RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		return err
	})

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"platform": "Climate Data Platform",
			"version":  "1.0.0",
			"status":   "operational",
			"services": fiber.Map{
				"api":       "healthy",
				"jobs":      "healthy",
				"scheduler": "healthy",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1.Get("/datasets", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"datasets": deps.Catalog.List(),
		})
	})

	v1.Get("/datasets/:id", func(c *fiber.Ctx) error {
		ds, err := deps.Catalog.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dataset not found")
		}
		return c.JSON(ds)
	})

	v1.Post("/jobs", func(c *fiber.Ctx) error {
		var req jobRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		job, err := deps.Jobs.Submit(req.toRequest())
		if err != nil {
			if errors.Is(err, jobs.ErrQueueFull) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "job queue full, retry later")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"job_id":  job.ID,
			"status":  job.State,
			"message": "Job submitted to processing queue",
		})
	})

	v1.Get("/jobs/:id", func(c *fiber.Ctx) error {
		job, err := deps.Jobs.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "job not found")
		}
		return c.JSON(job)
	})

	v1.Get("/fields/:variable", func(c *fiber.Ctx) error {
		date, err := parseDateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		doc, err := deps.Service.GetField(c.Params("variable"), date)
		if err != nil {
			return fieldError(err)
		}
		return c.JSON(doc)
	})

	v1.Get("/fields/:variable/point", func(c *fiber.Ctx) error {
		var req pointQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		point, err := deps.Service.PointValue(c.Params("variable"), req.Date, req.Lat, req.Lon)
		if err != nil {
			return fieldError(err)
		}
		return c.JSON(point)
	})

	v1.Get("/fields/:variable/summary", func(c *fiber.Ctx) error {
		date, err := parseDateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		bounds, err := parseBoundsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summary, err := deps.Service.Summary(c.Params("variable"), date, bounds)
		if err != nil {
			return fieldError(err)
		}
		return c.JSON(summary)
	})
}

// fieldError maps service errors onto HTTP status codes.
func fieldError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no field data for requested variable and date")
	case errors.Is(err, climate.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to read field data")
	}
}

// jobRequest is the POST /jobs body.
type jobRequest struct {
	Type      string       `json:"type" validate:"required,oneof=extract aggregate"`
	DatasetID string       `json:"dataset_id" validate:"required"`
	Variable  string       `json:"variable" validate:"required"`
	Date      string       `json:"date" validate:"required,datetime=2006-01-02"`
	Bounds    *boundsQuery `json:"bounds,omitempty"`
}

func (j jobRequest) toRequest() jobs.Request {
	req := jobs.Request{
		Kind:      jobs.Kind(j.Type),
		DatasetID: j.DatasetID,
		Variable:  j.Variable,
		Date:      j.Date,
	}
	if j.Bounds != nil {
		req.Bounds = j.Bounds.toBounds()
	}
	return req
}

type boundsQuery struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

func (b boundsQuery) toBounds() *climate.Bounds {
	return &climate.Bounds{
		LatMin: b.LatMin,
		LatMax: b.LatMax,
		LonMin: b.LonMin,
		LonMax: b.LonMax,
	}
}

// pointQuery holds query parameters for the point endpoint.
type pointQuery struct {
	Date string  `validate:"required,datetime=2006-01-02"`
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
}

func (p *pointQuery) bind(c *fiber.Ctx) error {
	p.Date = c.Query("date")

	lat, err := parseFloatQuery(c, "lat")
	if err != nil {
		return err
	}
	lon, err := parseFloatQuery(c, "lon")
	if err != nil {
		return err
	}
	p.Lat = lat
	p.Lon = lon

	return validate.Struct(p)
}

func parseDateQuery(c *fiber.Ctx) (string, error) {
	date := c.Query("date")
	if date == "" {
		return "", errors.New("date query parameter is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", errors.New("invalid date format; use YYYY-MM-DD")
	}
	return date, nil
}

// parseBoundsQuery reads the optional bounding box. Either all four bound
// parameters are present or none are.
func parseBoundsQuery(c *fiber.Ctx) (*climate.Bounds, error) {
	keys := []string{"lat_min", "lat_max", "lon_min", "lon_max"}
	present := 0
	for _, k := range keys {
		if c.Query(k) != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(keys) {
		return nil, errors.New("bounds require lat_min, lat_max, lon_min and lon_max together")
	}

	var vals [4]float64
	for i, k := range keys {
		v, err := parseFloatQuery(c, k)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return &climate.Bounds{LatMin: vals[0], LatMax: vals[1], LonMin: vals[2], LonMax: vals[3]}, nil
}

func parseFloatQuery(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, errors.New(key + " query parameter is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid " + key + " value")
	}
	return v, nil
}
