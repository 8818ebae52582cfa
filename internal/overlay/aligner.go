// Package overlay re-aligns segmented cycles by day number so multiple
// cycles can be drawn on one axis, with an average curve and a canonical
// phase band derived from averaged phase lengths.
package overlay

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"cyclelens/domain/cycle"
	"cyclelens/internal/segment"
)

// DefaultMaxCycleDays is the span at which a cycle is considered broken or
// merged and excluded from the overlay.
const DefaultMaxCycleDays = 35

// Point is one (day number, value) sample within a cycle.
type Point struct {
	DayNumber int     `json:"day_number"`
	Value     float64 `json:"value"`
}

// CycleSeries is one retained cycle's samples for the selected metric.
type CycleSeries struct {
	CycleIndex int     `json:"cycle_index"`
	StartDate  string  `json:"start_date"`
	Points     []Point `json:"points"`
}

// AveragePoint is the mean metric value across retained cycles at one day
// number.
type AveragePoint struct {
	DayNumber int     `json:"day_number"`
	Mean      float64 `json:"mean"`
}

// BandEntry labels one day number of the canonical averaged cycle.
type BandEntry struct {
	DayNumber int         `json:"day_number"`
	Phase     cycle.Phase `json:"phase"`
}

// Alignment is the full overlay output for one metric.
type Alignment struct {
	Metric    string         `json:"metric"`
	PerCycle  []CycleSeries  `json:"per_cycle"`
	Average   []AveragePoint `json:"average"`
	PhaseBand []BandEntry    `json:"phase_band"`
	Excluded  []int          `json:"excluded_cycles,omitempty"`
}

// Aligner builds overlay alignments from a segmented dataset.
type Aligner struct {
	maxCycleDays int
}

// NewAligner creates an aligner. maxCycleDays bounds the row span of a
// cycle admitted to the overlay; pass 0 for the default.
func NewAligner(maxCycleDays int) *Aligner {
	if maxCycleDays <= 0 {
		maxCycleDays = DefaultMaxCycleDays
	}
	return &Aligner{maxCycleDays: maxCycleDays}
}

// Align slices the dataset into per-cycle series for the metric, excludes
// empty and pathologically long cycles from the overlay (they stay in the
// underlying table), and computes the day-number average curve plus the
// averaged phase band.
func (a *Aligner) Align(ds *cycle.Dataset, metric string) *Alignment {
	alignment := &Alignment{Metric: metric}

	type retained struct {
		index int
		rows  []cycle.DailyRecord
	}
	var kept []retained

	for _, c := range ds.Cycles {
		rows := ds.Records[c.StartRow : c.EndRow+1]
		if len(rows) == 0 || len(rows) >= a.maxCycleDays {
			alignment.Excluded = append(alignment.Excluded, c.Index)
			continue
		}
		kept = append(kept, retained{index: c.Index, rows: rows})

		series := CycleSeries{
			CycleIndex: c.Index,
			StartDate:  c.StartDate.Format("2006-01-02"),
		}
		for _, rec := range rows {
			v, ok := rec.Metrics[metric]
			if !ok || math.IsNaN(v) || rec.CycleDayNumber == 0 {
				continue
			}
			series.Points = append(series.Points, Point{DayNumber: rec.CycleDayNumber, Value: v})
		}
		alignment.PerCycle = append(alignment.PerCycle, series)
	}

	if len(kept) == 0 {
		return alignment
	}

	// Mean value per day number across retained cycles.
	byDay := make(map[int][]float64)
	for _, k := range kept {
		for _, rec := range k.rows {
			v, ok := rec.Metrics[metric]
			if !ok || math.IsNaN(v) || rec.CycleDayNumber == 0 {
				continue
			}
			byDay[rec.CycleDayNumber] = append(byDay[rec.CycleDayNumber], v)
		}
	}

	// Averaged phase lengths across retained cycles, Unknown excluded,
	// rounded to whole days.
	phaseCounts := make(map[cycle.Phase][]float64)
	for _, k := range kept {
		perCycle := make(map[cycle.Phase]int)
		for _, rec := range k.rows {
			if rec.Phase == cycle.PhaseUnknown {
				continue
			}
			perCycle[rec.Phase]++
		}
		for phase, count := range perCycle {
			phaseCounts[phase] = append(phaseCounts[phase], float64(count))
		}
	}

	avgLen := make(map[cycle.Phase]int, len(phaseCounts))
	totalDays := 0
	for phase, counts := range phaseCounts {
		mean, _ := mstats.Mean(counts)
		rounded := int(math.Round(mean))
		avgLen[phase] = rounded
		totalDays += rounded
	}

	// Average curve trimmed to the canonical averaged cycle length.
	days := make([]int, 0, len(byDay))
	for day := range byDay {
		if day <= totalDays {
			days = append(days, day)
		}
	}
	sort.Ints(days)
	for _, day := range days {
		mean, _ := mstats.Mean(byDay[day])
		alignment.Average = append(alignment.Average, AveragePoint{DayNumber: day, Mean: mean})
	}

	// Phase band from the same boundary formulas as segmentation, applied
	// to the averaged lengths.
	bandCfg := cycle.PhaseConfig{
		MenstrualDays: avgLen[cycle.PhaseMenstrual],
		LutealDays:    avgLen[cycle.PhaseLuteal],
		OvulatoryDays: avgLen[cycle.PhaseOvulatory],
	}
	for day := 1; day <= totalDays; day++ {
		alignment.PhaseBand = append(alignment.PhaseBand, BandEntry{
			DayNumber: day,
			Phase:     segment.PhaseFor(day, totalDays, false, bandCfg),
		})
	}

	return alignment
}
