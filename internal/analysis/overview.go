package analysis

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
)

// PhaseAverageColumns orders the overview table columns.
var PhaseAverageColumns = []string{"Metric", "Menstrual", "Follicular", "Ovulatory", "Luteal"}

// PhaseAverages builds the overview table: one row per metric with the mean
// value in each phase, "N/A" where a phase has no data.
func PhaseAverages(ds *cycle.Dataset, metrics []string) []report.Row {
	rows := make([]report.Row, 0, len(metrics))

	for _, metric := range metrics {
		if !ds.HasMetric(metric) {
			continue
		}
		groups := ds.PhaseGroups(metric)
		row := report.Row{"Metric": metric}
		for _, phase := range cycle.PhaseOrder {
			data := groups[phase]
			if len(data) == 0 {
				row[string(phase)] = "N/A"
				continue
			}
			mean, _ := mstats.Mean(data)
			row[string(phase)] = round2(mean)
		}
		rows = append(rows, row)
	}

	return rows
}

// AverageCycleLength is the mean length of the closed cycles. NaN when no
// cycle is closed.
func AverageCycleLength(ds *cycle.Dataset) float64 {
	var lengths []float64
	for _, c := range ds.Cycles {
		if c.Closed() {
			lengths = append(lengths, float64(c.Length))
		}
	}
	if len(lengths) == 0 {
		return math.NaN()
	}
	mean, _ := mstats.Mean(lengths)
	return mean
}
