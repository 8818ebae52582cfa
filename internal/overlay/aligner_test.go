package overlay

import (
	"math"
	"testing"
	"time"

	"cyclelens/domain/cycle"
	"cyclelens/internal/segment"
)

const metric = "Recovery score %"

// segmented builds a dataset from daily indicator/value pairs, running the
// real segmenter so cycle fields are consistent.
func segmented(t *testing.T, indicator []bool, values []float64) *cycle.Dataset {
	t.Helper()
	if len(indicator) != len(values) {
		t.Fatal("fixture length mismatch")
	}

	records := make([]cycle.DailyRecord, len(indicator))
	base := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	for i := range indicator {
		records[i] = cycle.DailyRecord{
			Date:         base.AddDate(0, 0, i),
			HasDate:      true,
			Menstruating: indicator[i],
			Metrics:      map[string]float64{metric: values[i]},
		}
	}

	seg, err := segment.NewSegmenter(cycle.DefaultPhaseConfig())
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}
	out, cycles := seg.Segment(records)
	return &cycle.Dataset{
		Records:       out,
		Cycles:        cycles,
		Config:        seg.Config(),
		MetricColumns: []string{metric},
	}
}

func TestAlign_AveragesAcrossCycles(t *testing.T) {
	// Two 4-day closed cycles plus a 1-day terminal one.
	indicator := make([]bool, 9)
	indicator[0], indicator[4], indicator[8] = true, true, true
	values := []float64{10, 20, 30, 40, 20, 30, 40, 50, 99}

	ds := segmented(t, indicator, values)
	aligner := NewAligner(0)
	alignment := aligner.Align(ds, metric)

	if len(alignment.PerCycle) != 3 {
		t.Fatalf("retained cycles = %d, want 3", len(alignment.PerCycle))
	}

	// Day 1 average over values 10, 20 and 99.
	if len(alignment.Average) == 0 {
		t.Fatal("no average curve")
	}
	first := alignment.Average[0]
	if first.DayNumber != 1 {
		t.Fatalf("first averaged day = %d, want 1", first.DayNumber)
	}
	if want := (10.0 + 20.0 + 99.0) / 3; math.Abs(first.Mean-want) > 1e-9 {
		t.Errorf("day 1 mean = %v, want %v", first.Mean, want)
	}
}

func TestAlign_ExcludesOverlongCycles(t *testing.T) {
	// First cycle spans 40 rows, beyond the default cap; second is terminal.
	n := 45
	indicator := make([]bool, n)
	indicator[0], indicator[40] = true, true
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}

	ds := segmented(t, indicator, values)
	alignment := NewAligner(DefaultMaxCycleDays).Align(ds, metric)

	if len(alignment.Excluded) != 1 || alignment.Excluded[0] != 0 {
		t.Fatalf("excluded = %v, want [0]", alignment.Excluded)
	}
	for _, series := range alignment.PerCycle {
		if series.CycleIndex == 0 {
			t.Error("overlong cycle must not appear in the overlay")
		}
	}
	// Exclusion is overlay-local: the dataset still holds the cycle.
	if len(ds.Cycles) != 2 {
		t.Errorf("dataset cycles = %d, want 2", len(ds.Cycles))
	}
}

func TestAlign_SkipsMissingValues(t *testing.T) {
	indicator := []bool{true, false, false, false}
	values := []float64{10, math.NaN(), 30, 40}

	ds := segmented(t, indicator, values)
	alignment := NewAligner(0).Align(ds, metric)

	if len(alignment.PerCycle) != 1 {
		t.Fatalf("retained cycles = %d, want 1", len(alignment.PerCycle))
	}
	for _, p := range alignment.PerCycle[0].Points {
		if p.DayNumber == 2 {
			t.Error("missing value should be skipped, not plotted")
		}
	}
}

func TestAlign_PhaseBandFromAveragedLengths(t *testing.T) {
	// One closed 28-day cycle with 4 menstruating days.
	n := 29
	indicator := make([]bool, n)
	for i := 0; i < 4; i++ {
		indicator[i] = true
	}
	indicator[28] = true
	values := make([]float64, n)
	for i := range values {
		values[i] = 50
	}

	ds := segmented(t, indicator, values)
	alignment := NewAligner(0).Align(ds, metric)

	if len(alignment.PhaseBand) == 0 {
		t.Fatal("no phase band")
	}
	if alignment.PhaseBand[0].Phase != cycle.PhaseMenstrual {
		t.Errorf("band day 1 = %s, want Menstrual", alignment.PhaseBand[0].Phase)
	}
	last := alignment.PhaseBand[len(alignment.PhaseBand)-1]
	if last.Phase != cycle.PhaseLuteal {
		t.Errorf("band final day = %s, want Luteal", last.Phase)
	}
	for _, entry := range alignment.PhaseBand {
		if entry.Phase == cycle.PhaseUnknown {
			t.Errorf("band day %d is Unknown", entry.DayNumber)
		}
	}
}

func TestAlign_EmptyDataset(t *testing.T) {
	ds := &cycle.Dataset{MetricColumns: []string{metric}}
	alignment := NewAligner(0).Align(ds, metric)

	if len(alignment.PerCycle) != 0 || len(alignment.Average) != 0 || len(alignment.PhaseBand) != 0 {
		t.Error("empty dataset should produce an empty alignment")
	}
}
