package api

import (
	"encoding/json"
	stderrors "errors"
	"math"
	"net/http"

	"cyclelens/domain/core"
	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
	"cyclelens/internal/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ds := s.currentDataset()
	if ds == nil {
		writeError(w, http.StatusConflict, "no dataset loaded")
		return
	}

	rows := make([]map[string]interface{}, 0, len(ds.Records))
	for _, rec := range ds.Records {
		rows = append(rows, recordRow(rec))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id": ds.ID,
		"rows":       len(rows),
		"cycles":     len(ds.Cycles),
		"records":    rows,
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ds := s.currentDataset()
	if ds == nil {
		writeError(w, http.StatusConflict, "no dataset loaded")
		return
	}

	avgLen := s.pipeline.AverageCycleLength(ds)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id":           ds.ID,
		"rows":                 len(ds.Records),
		"cycles":               len(ds.Cycles),
		"average_cycle_length": jsonSafe(avgLen),
		"phase_averages":       sanitizeRows(s.pipeline.Overview(ds)),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ds := s.currentDataset()
	if ds == nil {
		writeError(w, http.StatusConflict, "no dataset loaded")
		return
	}

	rep, err := s.pipeline.Report(r.Context(), ds, nil)
	if err != nil {
		s.logger.Error("report build failed: %v", err)
		writeError(w, errors.HTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report_id":   rep.ID,
		"descriptive": sanitizeRows(rep.Descriptive),
		"omnibus":     sanitizeRows(rep.Omnibus),
		"pairwise":    sanitizeRows(rep.Pairwise),
	})
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	ds := s.currentDataset()
	if ds == nil {
		writeError(w, http.StatusConflict, "no dataset loaded")
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		writeError(w, http.StatusBadRequest, "metric query parameter is required")
		return
	}

	alignment, err := s.pipeline.Overlay(ds, metric)
	if err != nil {
		if stderrors.Is(err, core.ErrUnknownMetric) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, errors.HTTPStatus(err), err.Error())
		return
	}

	// NaN samples are dropped during alignment, so the struct encodes cleanly.
	writeJSON(w, http.StatusOK, alignment)
}

func recordRow(rec cycle.DailyRecord) map[string]interface{} {
	row := map[string]interface{}{
		"menstruating":     rec.Menstruating,
		"cycle_start":      rec.CycleStart,
		"cycle_id":         rec.CycleID,
		"cycle_day_number": rec.CycleDayNumber,
		"cycle_length":     rec.CycleLength,
		"phase":            string(rec.Phase),
	}
	if rec.HasDate {
		row["cycle_date"] = rec.Date.Format("2006-01-02 15:04:05")
	} else {
		row["cycle_date"] = nil
	}
	for name, v := range rec.Metrics {
		row[name] = jsonSafe(v)
	}
	for name, v := range rec.Flags {
		row[name] = v
	}
	return row
}

// jsonSafe maps NaN and infinities to nil so encoding/json never chokes.
func jsonSafe(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func sanitizeRows(rows []report.Row) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		clean := make(map[string]interface{}, len(row))
		for k, v := range row {
			if f, ok := v.(float64); ok {
				clean[k] = jsonSafe(f)
				continue
			}
			clean[k] = v
		}
		out = append(out, clean)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
