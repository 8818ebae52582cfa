// Package segment turns a per-day menstruation indicator into cycle identity,
// day numbers, cycle lengths, and phase labels.
package segment

import (
	"time"

	"cyclelens/domain/cycle"
)

// Segmenter assigns cycle structure to an ordered sequence of daily records.
type Segmenter struct {
	cfg cycle.PhaseConfig
}

// NewSegmenter validates the phase durations and returns a segmenter.
func NewSegmenter(cfg cycle.PhaseConfig) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{cfg: cfg}, nil
}

// Config returns the configured phase durations.
func (s *Segmenter) Config() cycle.PhaseConfig {
	return s.cfg
}

// Segment annotates records (in date order) with cycle fields and returns the
// annotated copy plus the detected cycles. The input slice is not mutated.
func (s *Segmenter) Segment(records []cycle.DailyRecord) ([]cycle.DailyRecord, []cycle.Cycle) {
	out := make([]cycle.DailyRecord, len(records))
	copy(out, records)

	for i := range out {
		out[i].CycleStart = false
		out[i].CycleID = -1
		out[i].CycleDayNumber = 0
		out[i].CycleLength = 0
		out[i].Phase = cycle.PhaseUnknown
	}

	starts := detectStarts(out)

	cycles := make([]cycle.Cycle, 0, len(starts))
	for i, startIdx := range starts {
		startDate := out[startIdx].Date

		// End index rule: the row before the next onset, or the last row when
		// no later onset exists.
		endIdx := len(out) - 1
		length := 0
		if i+1 < len(starts) {
			endIdx = starts[i+1] - 1
			length = wholeDays(startDate, out[starts[i+1]].Date)
		}

		c := cycle.Cycle{
			Index:     i,
			StartDate: startDate,
			StartRow:  startIdx,
			EndRow:    endIdx,
			Length:    length,
		}
		cycles = append(cycles, c)

		for idx := startIdx; idx <= endIdx; idx++ {
			rec := &out[idx]
			rec.CycleID = i
			rec.CycleLength = length
			if rec.HasDate {
				rec.CycleDayNumber = wholeDays(startDate, rec.Date) + 1
			}
		}
	}

	for i := range out {
		out[i].Phase = s.phaseFor(out[i])
	}

	return out, cycles
}

// detectStarts records the index of every 0->1 transition of the menstruation
// indicator, treating a missing predecessor as 0.
func detectStarts(records []cycle.DailyRecord) []int {
	var starts []int
	prev := false
	for i := range records {
		current := records[i].Menstruating
		if current && !prev {
			records[i].CycleStart = true
			starts = append(starts, i)
		}
		prev = current
	}
	return starts
}

func (s *Segmenter) phaseFor(rec cycle.DailyRecord) cycle.Phase {
	return PhaseFor(rec.CycleDayNumber, rec.CycleLength, rec.Menstruating, s.cfg)
}

// PhaseFor assigns a phase from day-within-cycle arithmetic. The raw
// indicator takes priority over the arithmetic; day 0 means no enclosing
// cycle and an undefined length leaves non-menstruating days Unknown.
func PhaseFor(dayNumber, cycleLength int, menstruating bool, cfg cycle.PhaseConfig) cycle.Phase {
	if dayNumber == 0 {
		return cycle.PhaseUnknown
	}
	if menstruating {
		return cycle.PhaseMenstrual
	}
	if cycleLength <= 0 {
		return cycle.PhaseUnknown
	}

	follicularStart := cfg.MenstrualDays + 1
	ovulatoryStart := cycleLength - cfg.LutealDays - cfg.OvulatoryDays + 1
	ovulatoryEnd := cycleLength - cfg.LutealDays
	lutealStart := ovulatoryEnd + 1

	switch {
	case dayNumber <= cfg.MenstrualDays:
		return cycle.PhaseMenstrual
	case dayNumber >= follicularStart && dayNumber < ovulatoryStart:
		return cycle.PhaseFollicular
	case dayNumber >= ovulatoryStart && dayNumber <= ovulatoryEnd:
		return cycle.PhaseOvulatory
	case dayNumber >= lutealStart:
		return cycle.PhaseLuteal
	default:
		// Reachable only when configured durations exceed the cycle length.
		return cycle.PhaseUnknown
	}
}

// wholeDays returns the day delta between two instants.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
