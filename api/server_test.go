package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cyclelens/app"
	"cyclelens/domain/cycle"
	"cyclelens/internal/config"
	"cyclelens/internal/segment"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Phases:   config.PhasesConfig{MenstrualDays: 4, LutealDays: 14, OvulatoryDays: 3},
		Analysis: config.AnalysisConfig{Alpha: 0.05, Metrics: cycle.DefaultReportMetrics()},
		Overlay:  config.OverlayConfig{MaxCycleDays: 35},
		Server:   config.ServerConfig{Port: "0"},
	}
	pipeline, err := app.New(cfg)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return NewServer(pipeline)
}

func testDataset(t *testing.T) *cycle.Dataset {
	t.Helper()
	seg, err := segment.NewSegmenter(cycle.DefaultPhaseConfig())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	records := make([]cycle.DailyRecord, 10)
	for i := range records {
		records[i] = cycle.DailyRecord{
			Date:         base.AddDate(0, 0, i),
			HasDate:      true,
			Menstruating: i < 2,
			Metrics:      map[string]float64{cycle.ColRecoveryScore: float64(50 + i)},
		}
	}
	out, cycles := seg.Segment(records)
	return &cycle.Dataset{
		Records:       out,
		Cycles:        cycles,
		Config:        seg.Config(),
		MetricColumns: []string{cycle.ColRecoveryScore},
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, testServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestRecords_NoDatasetLoaded(t *testing.T) {
	rec := get(t, testServer(t), "/api/records")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestRecords_WithDataset(t *testing.T) {
	s := testServer(t)
	s.SetDataset(testDataset(t))

	rec := get(t, s, "/api/records")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Rows    int                      `json:"rows"`
		Cycles  int                      `json:"cycles"`
		Records []map[string]interface{} `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Rows != 10 || len(body.Records) != 10 {
		t.Errorf("rows = %d, records = %d", body.Rows, len(body.Records))
	}
	if body.Cycles != 1 {
		t.Errorf("cycles = %d, want 1", body.Cycles)
	}
	if body.Records[0]["phase"] != string(cycle.PhaseMenstrual) {
		t.Errorf("first record phase = %v", body.Records[0]["phase"])
	}
}

func TestOverlay_RequiresMetricParam(t *testing.T) {
	s := testServer(t)
	s.SetDataset(testDataset(t))

	rec := get(t, s, "/api/overlay")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestOverlay_UnknownMetric(t *testing.T) {
	s := testServer(t)
	s.SetDataset(testDataset(t))

	rec := get(t, s, "/api/overlay?metric=Nope")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestOverlay_KnownMetric(t *testing.T) {
	s := testServer(t)
	s.SetDataset(testDataset(t))

	rec := get(t, s, "/api/overlay?metric=Recovery+score+%25")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Metric   string `json:"metric"`
		PerCycle []struct {
			CycleIndex int `json:"cycle_index"`
		} `json:"per_cycle"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Metric != cycle.ColRecoveryScore {
		t.Errorf("metric = %q", body.Metric)
	}
	if len(body.PerCycle) != 1 {
		t.Errorf("per-cycle series = %d, want 1", len(body.PerCycle))
	}
}

func TestReport_WithDataset(t *testing.T) {
	s := testServer(t)
	s.SetDataset(testDataset(t))

	rec := get(t, s, "/api/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		ReportID string `json:"report_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.ReportID == "" {
		t.Error("report_id missing")
	}
}
