package analysis

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
)

// Describe computes per-phase summary statistics for phase-partitioned
// samples. Empty groups produce an all-NaN entry with N=0 so the report
// shape stays stable.
func Describe(groups map[cycle.Phase][]float64) map[cycle.Phase]report.Descriptive {
	out := make(map[cycle.Phase]report.Descriptive, len(cycle.PhaseOrder))

	for _, phase := range cycle.PhaseOrder {
		data := groups[phase]
		if len(data) == 0 {
			out[phase] = report.Descriptive{
				N:      0,
				Mean:   math.NaN(),
				Median: math.NaN(),
				StdDev: math.NaN(),
				Min:    math.NaN(),
				Max:    math.NaN(),
				Q25:    math.NaN(),
				Q75:    math.NaN(),
			}
			continue
		}

		mean, _ := mstats.Mean(data)
		median, _ := mstats.Median(data)
		stdDev, _ := mstats.StandardDeviationSample(data)
		min, _ := mstats.Min(data)
		max, _ := mstats.Max(data)
		q25, _ := mstats.Percentile(data, 25)
		q75, _ := mstats.Percentile(data, 75)

		out[phase] = report.Descriptive{
			N:      len(data),
			Mean:   mean,
			Median: median,
			StdDev: stdDev,
			Min:    min,
			Max:    max,
			Q25:    q25,
			Q75:    q75,
		}
	}

	return out
}
