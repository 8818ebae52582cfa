package cycle

import (
	"fmt"
	"time"

	"cyclelens/domain/core"
)

// Phase labels a day within a menstrual cycle.
type Phase string

const (
	PhaseMenstrual  Phase = "Menstrual"
	PhaseFollicular Phase = "Follicular"
	PhaseOvulatory  Phase = "Ovulatory"
	PhaseLuteal     Phase = "Luteal"
	PhaseUnknown    Phase = "Unknown"
)

// PhaseOrder is the canonical ordering of the four named phases within a cycle.
var PhaseOrder = []Phase{PhaseMenstrual, PhaseFollicular, PhaseOvulatory, PhaseLuteal}

// MaxPlausibleCycleDays bounds the sum of configured phase durations.
const MaxPlausibleCycleDays = 40

// PhaseConfig holds the configured phase durations in days.
type PhaseConfig struct {
	MenstrualDays int `json:"menstrual_days"`
	LutealDays    int `json:"luteal_days"`
	OvulatoryDays int `json:"ovulatory_days"`
}

// DefaultPhaseConfig returns the standard phase durations.
func DefaultPhaseConfig() PhaseConfig {
	return PhaseConfig{
		MenstrualDays: 4,
		LutealDays:    14,
		OvulatoryDays: 3,
	}
}

// Validate checks phase durations for negative values and implausible totals.
func (c PhaseConfig) Validate() error {
	if c.MenstrualDays < 0 || c.LutealDays < 0 || c.OvulatoryDays < 0 {
		return core.NewConfigurationError(fmt.Sprintf(
			"phase durations must be non-negative (menstrual=%d luteal=%d ovulatory=%d)",
			c.MenstrualDays, c.LutealDays, c.OvulatoryDays))
	}
	if sum := c.MenstrualDays + c.LutealDays + c.OvulatoryDays; sum > MaxPlausibleCycleDays {
		return core.NewConfigurationError(fmt.Sprintf(
			"phase durations sum to %d days, exceeding plausible cycle length %d", sum, MaxPlausibleCycleDays))
	}
	return nil
}

// DailyRecord is one row of the joined per-day table. Metrics hold NaN for
// missing values; a zero Date with HasDate=false marks an unparseable date.
type DailyRecord struct {
	Date    time.Time `json:"date"`
	HasDate bool      `json:"has_date"`

	Menstruating bool `json:"menstruating"`

	CycleStart     bool  `json:"cycle_start"`
	CycleID        int   `json:"cycle_id"`         // -1 when no enclosing cycle
	CycleDayNumber int   `json:"cycle_day_number"` // 0 when unassigned
	CycleLength    int   `json:"cycle_length"`     // 0 when undefined (terminal open cycle)
	Phase          Phase `json:"phase"`

	Metrics map[string]float64 `json:"metrics"`
	Flags   map[string]bool    `json:"flags"`
}

// HasCycleLength reports whether the record belongs to a closed cycle.
func (r DailyRecord) HasCycleLength() bool {
	return r.CycleLength > 0
}

// Metric returns the named metric value, NaN-safe for absent columns.
func (r DailyRecord) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// Cycle is an ordered run of records from one menstruation onset to the day
// before the next onset, or to the end of data for the terminal cycle.
type Cycle struct {
	Index     int       `json:"index"`
	StartDate time.Time `json:"start_date"`
	StartRow  int       `json:"start_row"`
	EndRow    int       `json:"end_row"` // inclusive
	Length    int       `json:"length"`  // whole days; 0 when undefined
}

// Closed reports whether a following onset bounds this cycle.
func (c Cycle) Closed() bool {
	return c.Length > 0
}

// Dataset is the augmented per-day table produced by one processing pass.
// Transformations produce new datasets rather than mutating in place.
type Dataset struct {
	ID            core.DatasetID `json:"id"`
	Records       []DailyRecord  `json:"records"`
	Cycles        []Cycle        `json:"cycles"`
	Config        PhaseConfig    `json:"config"`
	MetricColumns []string       `json:"metric_columns"`
	FlagColumns   []string       `json:"flag_columns"`
	CreatedAt     time.Time      `json:"created_at"`
}

// PhaseGroups partitions a metric's non-missing values by phase.
func (d *Dataset) PhaseGroups(metric string) map[Phase][]float64 {
	groups := make(map[Phase][]float64, len(PhaseOrder))
	for _, rec := range d.Records {
		if rec.Phase == PhaseUnknown {
			continue
		}
		v, ok := rec.Metrics[metric]
		if !ok || v != v { // NaN check
			continue
		}
		groups[rec.Phase] = append(groups[rec.Phase], v)
	}
	return groups
}

// HasMetric reports whether any record carries the named metric.
func (d *Dataset) HasMetric(metric string) bool {
	for _, col := range d.MetricColumns {
		if col == metric {
			return true
		}
	}
	return false
}
