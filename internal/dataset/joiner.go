// Package dataset joins the physiological and journal export tables into the
// per-day table the segmenter and analysis engines consume.
package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"cyclelens/domain/core"
	"cyclelens/domain/cycle"
	"cyclelens/internal/dateparse"
	"cyclelens/internal/segment"
)

// cycleDateOffset buckets a physiological cycle to a single calendar day.
const cycleDateOffset = 12 * time.Hour

// JoinInputs carries the raw input tables. Physiological and Journal are
// required. Sleep and Workouts are accepted but not joined into the phase
// computation; they are extension points.
type JoinInputs struct {
	Physiological Table
	Journal       Table
	Sleep         Table
	Workouts      Table
}

// Joiner merges input tables and invokes the segmenter.
type Joiner struct {
	segmenter *segment.Segmenter
}

// NewJoiner creates a joiner around a validated segmenter.
func NewJoiner(seg *segment.Segmenter) *Joiner {
	return &Joiner{segmenter: seg}
}

// Join parses dates, pivots the journal, left-joins it onto the physiological
// table by cycle date, coerces metrics, and segments the result into cycles.
func (j *Joiner) Join(in JoinInputs) (*cycle.Dataset, error) {
	if in.Physiological == nil {
		return nil, core.NewMissingInputError("physiological")
	}
	if in.Journal == nil {
		return nil, core.NewMissingInputError("journal")
	}

	flags, flagColumns := pivotJournal(in.Journal)

	numericCols := cycle.NumericColumns()
	records := make([]cycle.DailyRecord, 0, len(in.Physiological))
	metricSeen := make(map[string]bool)

	for _, row := range in.Physiological {
		rec := cycle.DailyRecord{
			CycleID: -1,
			Phase:   cycle.PhaseUnknown,
			Metrics: make(map[string]float64),
			Flags:   make(map[string]bool),
		}

		startDate, ok := dateparse.Parse(row[cycle.ColCycleStartTime])
		if ok {
			rec.Date = startDate.Add(cycleDateOffset)
			rec.HasDate = true
		}

		for _, col := range numericCols {
			raw, present := row[col]
			if !present {
				continue
			}
			metricSeen[col] = true
			rec.Metrics[col] = coerceNumeric(raw)
		}

		if ok {
			if answers, found := flags[startDate]; found {
				for question, yes := range answers {
					rec.Flags[question] = yes
				}
			}
		}
		rec.Menstruating = rec.Flags[cycle.QuestionMenstruating]

		records = append(records, rec)
	}

	// Sort by cycle date ascending; records without a date keep their input
	// order at the end.
	sort.SliceStable(records, func(a, b int) bool {
		ra, rb := records[a], records[b]
		if ra.HasDate != rb.HasDate {
			return ra.HasDate
		}
		if !ra.HasDate {
			return false
		}
		return ra.Date.Before(rb.Date)
	})

	segmented, cycles := j.segmenter.Segment(records)

	metricColumns := make([]string, 0, len(metricSeen))
	for _, col := range numericCols {
		if metricSeen[col] {
			metricColumns = append(metricColumns, col)
		}
	}

	return &cycle.Dataset{
		ID:            core.DatasetID(core.NewID()),
		Records:       segmented,
		Cycles:        cycles,
		Config:        j.segmenter.Config(),
		MetricColumns: metricColumns,
		FlagColumns:   flagColumns,
		CreatedAt:     time.Now(),
	}, nil
}

// pivotJournal turns long-form journal rows (one row per question per day)
// into a sparse mapping keyed by cycle start date and question text. The
// first answer wins when a question repeats on a day.
func pivotJournal(journal Table) (map[time.Time]map[string]bool, []string) {
	pivot := make(map[time.Time]map[string]bool)
	var columns []string
	seen := make(map[string]bool)

	for _, row := range journal {
		startDate, ok := dateparse.Parse(row[cycle.ColCycleStartTime])
		if !ok {
			continue
		}
		question := row[cycle.ColQuestionText]
		if question == "" {
			continue
		}

		answers, found := pivot[startDate]
		if !found {
			answers = make(map[string]bool)
			pivot[startDate] = answers
		}
		if _, duplicate := answers[question]; duplicate {
			continue
		}
		answers[question] = parseYes(row[cycle.ColAnsweredYes])

		if !seen[question] {
			seen[question] = true
			columns = append(columns, question)
		}
	}

	sort.Strings(columns)
	return pivot, columns
}

// parseYes interprets a journal answer cell as a boolean.
func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

// coerceNumeric converts a metric cell to float64, producing NaN for
// anything that does not parse. Missing data is a value, not an error.
func coerceNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
