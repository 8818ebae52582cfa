package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cyclelens/domain/cycle"
)

func TestPhaseAverages(t *testing.T) {
	ds := metricDataset(map[cycle.Phase][]float64{
		cycle.PhaseMenstrual:  {10, 20},
		cycle.PhaseFollicular: {30},
	})

	rows := PhaseAverages(ds, []string{testMetric, "Absent metric"})
	assert.Len(t, rows, 1, "absent metrics are skipped")

	row := rows[0]
	assert.Equal(t, testMetric, row["Metric"])
	assert.Equal(t, 15.0, row["Menstrual"])
	assert.Equal(t, 30.0, row["Follicular"])
	assert.Equal(t, "N/A", row["Ovulatory"])
	assert.Equal(t, "N/A", row["Luteal"])
}

func TestAverageCycleLength(t *testing.T) {
	now := time.Now()
	ds := &cycle.Dataset{Cycles: []cycle.Cycle{
		{Index: 0, StartDate: now, Length: 28},
		{Index: 1, StartDate: now, Length: 30},
		{Index: 2, StartDate: now, Length: 0}, // open, ignored
	}}

	assert.InDelta(t, 29.0, AverageCycleLength(ds), 1e-9)
}

func TestAverageCycleLength_NoClosedCycles(t *testing.T) {
	ds := &cycle.Dataset{Cycles: []cycle.Cycle{{Length: 0}}}
	assert.True(t, math.IsNaN(AverageCycleLength(ds)))
}
