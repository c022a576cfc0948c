package catalog

import (
	"errors"
	"testing"

	"climate-data-platform/internal/climate"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	datasets := c.List()
	if len(datasets) != 4 {
		t.Fatalf("expected 4 datasets, got %d", len(datasets))
	}
	if datasets[0].ID != "era5-pressure" {
		t.Fatalf("unexpected first dataset %q", datasets[0].ID)
	}

	ds, err := c.Get("era5-single")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ds.Resolution != "0.25deg" || ds.Format != "NetCDF / GRIB" {
		t.Fatalf("unexpected descriptor: %+v", ds)
	}

	if _, err := c.Get("no-such-dataset"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSupportsVariable(t *testing.T) {
	c := Default()

	if !c.SupportsVariable("era5-single", climate.Var2mTemperature) {
		t.Fatal("era5-single should provide 2m_temperature")
	}
	if c.SupportsVariable("cams-global", climate.Var2mTemperature) {
		t.Fatal("cams-global should not provide 2m_temperature")
	}
	if c.SupportsVariable("no-such-dataset", climate.Var2mTemperature) {
		t.Fatal("unknown dataset supports nothing")
	}
}
