package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"climate-data-platform/internal/catalog"
	"climate-data-platform/internal/climate"
	"climate-data-platform/internal/jobs"
	"climate-data-platform/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, Deps) {
	t.Helper()

	grid, err := climate.NewGridSpec(10)
	if err != nil {
		t.Fatalf("NewGridSpec: %v", err)
	}
	files, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	cache := store.NewMemoryStore(8, time.Hour)
	service := climate.NewService(grid, cache, files)

	cat := catalog.Default()
	runner := jobs.NewRunner(service, cat, files, 1, 8)
	runner.Start()
	t.Cleanup(runner.Stop)

	deps := Deps{Service: service, Catalog: cat, Jobs: runner}

	app := fiber.New()
	RegisterRoutes(app, deps)
	return app, deps
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestDatasetEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/datasets", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var listing struct {
		Datasets []catalog.Dataset `json:"datasets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing.Datasets) != 4 {
		t.Fatalf("expected 4 datasets, got %d", len(listing.Datasets))
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/datasets/era5-single", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/datasets/no-such", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestFieldEndpointValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing date parameter should return 400.
	resp := doRequest(t, app, http.MethodGet, "/api/v1/fields/2m_temperature", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Malformed date should also return 400.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fields/2m_temperature?date=01/01/2024", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// A date nothing was generated for is 404.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fields/2m_temperature?date=1999-12-31", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestFieldAndPointEndpoints(t *testing.T) {
	app, deps := newTestApp(t)

	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if _, err := deps.Service.GenerateAndStore(context.Background(), climate.Var2mTemperature, date); err != nil {
		t.Fatalf("GenerateAndStore: %v", err)
	}

	resp := doRequest(t, app, http.MethodGet, "/api/v1/fields/2m_temperature?date=2024-07-01", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var doc climate.FieldDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("served document shape invalid: %v", err)
	}
	if doc.Units != "K" || doc.Date != "2024-07-01" {
		t.Fatalf("unexpected document header: variable=%s units=%s date=%s", doc.Variable, doc.Units, doc.Date)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/fields/2m_temperature/point?date=2024-07-01&lat=52.3&lon=13.2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var point climate.PointResult
	if err := json.NewDecoder(resp.Body).Decode(&point); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if point.Lat != 50 || point.Lon != 10 {
		t.Fatalf("point snapped to (%v, %v), want (50, 10)", point.Lat, point.Lon)
	}

	// Missing lat should return 400.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fields/2m_temperature/point?date=2024-07-01&lon=13.2", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	app, deps := newTestApp(t)

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := deps.Service.GenerateAndStore(context.Background(), climate.Var2mTemperature, date); err != nil {
		t.Fatalf("GenerateAndStore: %v", err)
	}

	resp := doRequest(t, app, http.MethodGet,
		"/api/v1/fields/2m_temperature/summary?date=2024-01-01&lat_min=-20&lat_max=20&lon_min=-180&lon_max=180", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var summary climate.FieldSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Cells == 0 || summary.MinK > summary.MaxK {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// Partial bounds should return 400.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fields/2m_temperature/summary?date=2024-01-01&lat_min=-20", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestJobEndpoints(t *testing.T) {
	app, deps := newTestApp(t)

	// Invalid job type fails validation.
	resp := doRequest(t, app, http.MethodPost, "/api/v1/jobs",
		`{"type":"reticulate","dataset_id":"era5-single","variable":"2m_temperature","date":"2024-07-01"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodPost, "/api/v1/jobs",
		`{"type":"extract","dataset_id":"era5-single","variable":"2m_temperature","date":"2024-07-01"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}
	var submitted struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if submitted.JobID == "" || submitted.Status != "queued" {
		t.Fatalf("unexpected submission response: %+v", submitted)
	}

	// The job finishes asynchronously; poll the runner.
	deadline := time.Now().Add(5 * time.Second)
	for {
		job, err := deps.Jobs.Get(submitted.JobID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if job.State == jobs.StateCompleted {
			break
		}
		if job.State == jobs.StateFailed {
			t.Fatalf("job failed: %s", job.Error)
		}
		if time.Now().After(deadline) {
			t.Fatal("job did not finish in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/jobs/"+submitted.JobID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var job jobs.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.State != jobs.StateCompleted || job.Result == nil || job.Result.OutputPath == "" {
		t.Fatalf("unexpected job record: %+v", job)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/jobs/no-such-job", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var status struct {
		Platform string `json:"platform"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Platform != "Climate Data Platform" || status.Status != "operational" {
		t.Fatalf("unexpected status document: %+v", status)
	}
}
