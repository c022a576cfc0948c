package catalog

import (
	"errors"

	"climate-data-platform/internal/climate"
)

// ErrNotFound is returned when a dataset id is not in the catalog.
var ErrNotFound = errors.New("dataset not found")

// Dataset describes one climate dataset the platform can serve.
type Dataset struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Variables       []string `json:"variables"`
	PressureLevels  []int    `json:"pressure_levels,omitempty"`
	TemporalRange   string   `json:"temporal_range"`
	Resolution      string   `json:"resolution"`
	Format          string   `json:"format"`
	UpdateFrequency string   `json:"update_frequency"`
}

// Catalog holds the static dataset descriptors, in listing order.
type Catalog struct {
	order []Dataset
	byID  map[string]Dataset
}

// Default returns the built-in catalog.
func Default() *Catalog {
	datasets := []Dataset{
		{
			ID:              "era5-pressure",
			Name:            "ERA5 Pressure Levels",
			Description:     "Fifth generation atmospheric reanalysis on pressure levels",
			Variables:       []string{"temperature", "geopotential", "relative_humidity", "wind_u", "wind_v"},
			PressureLevels:  []int{1000, 925, 850, 700, 500, 300, 250, 200, 100, 50},
			TemporalRange:   "1940-present",
			Resolution:      "0.25deg",
			Format:          "NetCDF / GRIB",
			UpdateFrequency: "Monthly",
		},
		{
			ID:              "era5-single",
			Name:            "ERA5 Single Levels",
			Description:     "Fifth generation atmospheric reanalysis on single levels",
			Variables:       []string{climate.Var2mTemperature, "surface_pressure", "total_precipitation", "10m_wind"},
			TemporalRange:   "1940-present",
			Resolution:      "0.25deg",
			Format:          "NetCDF / GRIB",
			UpdateFrequency: "Monthly",
		},
		{
			ID:              "cams-global",
			Name:            "CAMS Global Reanalysis",
			Description:     "Atmospheric composition reanalysis",
			Variables:       []string{"ozone", "carbon_monoxide", "nitrogen_dioxide", "sulphur_dioxide"},
			TemporalRange:   "2003-present",
			Resolution:      "0.75deg",
			Format:          "NetCDF / GRIB",
			UpdateFrequency: "Quarterly",
		},
		{
			ID:              "satellite-soil-moisture",
			Name:            "Satellite Soil Moisture",
			Description:     "Multi-satellite soil moisture dataset",
			Variables:       []string{"volumetric_soil_moisture", "soil_moisture_anomaly"},
			TemporalRange:   "1978-present",
			Resolution:      "0.25deg",
			Format:          "NetCDF",
			UpdateFrequency: "Daily",
		},
	}

	byID := make(map[string]Dataset, len(datasets))
	for _, d := range datasets {
		byID[d.ID] = d
	}
	return &Catalog{order: datasets, byID: byID}
}

// List returns all datasets in catalog order.
func (c *Catalog) List() []Dataset {
	return c.order
}

// Get returns the dataset with the given id.
func (c *Catalog) Get(id string) (Dataset, error) {
	d, ok := c.byID[id]
	if !ok {
		return Dataset{}, ErrNotFound
	}
	return d, nil
}

// SupportsVariable reports whether a dataset lists the given variable.
func (c *Catalog) SupportsVariable(id, variable string) bool {
	d, ok := c.byID[id]
	if !ok {
		return false
	}
	for _, v := range d.Variables {
		if v == variable {
			return true
		}
	}
	return false
}
