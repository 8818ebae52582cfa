package dataset

import (
	"fmt"
	"math"
	"testing"
	"time"

	"cyclelens/domain/core"
	"cyclelens/domain/cycle"
	"cyclelens/internal/segment"
)

func newTestJoiner(t *testing.T) *Joiner {
	t.Helper()
	seg, err := segment.NewSegmenter(cycle.DefaultPhaseConfig())
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}
	return NewJoiner(seg)
}

func stamp(dayOffset int) string {
	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, dayOffset).Format("2006-01-02 15:04:05")
}

func physioRow(dayOffset int, recovery string) Row {
	return Row{
		cycle.ColCycleStartTime: stamp(dayOffset),
		cycle.ColRecoveryScore:  recovery,
	}
}

func journalRow(dayOffset int, question, answered string) Row {
	return Row{
		cycle.ColCycleStartTime: stamp(dayOffset),
		cycle.ColQuestionText:   question,
		cycle.ColAnsweredYes:    answered,
	}
}

func TestJoin_RequiresBothTables(t *testing.T) {
	j := newTestJoiner(t)

	_, err := j.Join(JoinInputs{Journal: Table{}})
	if !core.IsMissingInputError(err) {
		t.Errorf("missing physiological table: got %v", err)
	}

	_, err = j.Join(JoinInputs{Physiological: Table{}})
	if !core.IsMissingInputError(err) {
		t.Errorf("missing journal table: got %v", err)
	}
}

func TestJoin_CycleDateAndFlags(t *testing.T) {
	j := newTestJoiner(t)

	ds, err := j.Join(JoinInputs{
		Physiological: Table{physioRow(0, "55")},
		Journal: Table{
			journalRow(0, cycle.QuestionMenstruating, "true"),
			journalRow(0, "Had caffeine?", "no"),
		},
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	rec := ds.Records[0]
	if !rec.HasDate {
		t.Fatal("record should carry a date")
	}
	// The cycle date is the start timestamp bucketed to midday.
	if rec.Date.Hour() != 12 {
		t.Errorf("cycle date hour = %d, want 12", rec.Date.Hour())
	}
	if !rec.Menstruating {
		t.Error("menstruating flag not joined")
	}
	if rec.Flags["Had caffeine?"] {
		t.Error("negative answer should join as false")
	}
	if got := rec.Metrics[cycle.ColRecoveryScore]; got != 55 {
		t.Errorf("recovery = %v, want 55", got)
	}
	if len(ds.FlagColumns) != 2 {
		t.Errorf("flag columns = %v, want 2 entries", ds.FlagColumns)
	}
}

func TestJoin_FirstAnswerWinsOnDuplicate(t *testing.T) {
	j := newTestJoiner(t)

	ds, err := j.Join(JoinInputs{
		Physiological: Table{physioRow(0, "50")},
		Journal: Table{
			journalRow(0, cycle.QuestionMenstruating, "yes"),
			journalRow(0, cycle.QuestionMenstruating, "no"),
		},
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	if !ds.Records[0].Menstruating {
		t.Error("first answer should win on duplicate question")
	}
}

func TestJoin_NumericCoercion(t *testing.T) {
	j := newTestJoiner(t)

	ds, err := j.Join(JoinInputs{
		Physiological: Table{
			{cycle.ColCycleStartTime: stamp(0), cycle.ColRecoveryScore: "not a number"},
			{cycle.ColCycleStartTime: stamp(1), cycle.ColRecoveryScore: ""},
			{cycle.ColCycleStartTime: stamp(2), cycle.ColRecoveryScore: " 63.5 "},
		},
		Journal: Table{},
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	if v := ds.Records[0].Metrics[cycle.ColRecoveryScore]; !math.IsNaN(v) {
		t.Errorf("unparseable cell = %v, want NaN", v)
	}
	if v := ds.Records[1].Metrics[cycle.ColRecoveryScore]; !math.IsNaN(v) {
		t.Errorf("empty cell = %v, want NaN", v)
	}
	if v := ds.Records[2].Metrics[cycle.ColRecoveryScore]; v != 63.5 {
		t.Errorf("trimmed cell = %v, want 63.5", v)
	}
}

func TestJoin_SortsByDateWithDatelessLast(t *testing.T) {
	j := newTestJoiner(t)

	ds, err := j.Join(JoinInputs{
		Physiological: Table{
			physioRow(2, "3"),
			{cycle.ColCycleStartTime: "garbage", cycle.ColRecoveryScore: "99"},
			physioRow(0, "1"),
			physioRow(1, "2"),
		},
		Journal: Table{},
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	want := []float64{1, 2, 3}
	for i, w := range want {
		if got := ds.Records[i].Metrics[cycle.ColRecoveryScore]; got != w {
			t.Errorf("row %d recovery = %v, want %v", i, got, w)
		}
	}
	last := ds.Records[3]
	if last.HasDate {
		t.Error("dateless row should sort last")
	}
	if last.Metrics[cycle.ColRecoveryScore] != 99 {
		t.Errorf("dateless row misplaced: %v", last.Metrics)
	}
}

func TestJoin_EndToEndSegmentation(t *testing.T) {
	j := newTestJoiner(t)

	// 60 daily rows with onsets at day 0 and day 28.
	var physio, journal Table
	for d := 0; d < 60; d++ {
		physio = append(physio, physioRow(d, fmt.Sprintf("%d", 50+d%10)))
	}
	for _, onset := range []int{0, 1, 2, 3, 28, 29, 30, 31} {
		journal = append(journal, journalRow(onset, cycle.QuestionMenstruating, "true"))
	}

	ds, err := j.Join(JoinInputs{Physiological: physio, Journal: journal})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	if len(ds.Cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(ds.Cycles))
	}
	if ds.Cycles[0].Length != 28 {
		t.Errorf("first cycle length = %d, want 28", ds.Cycles[0].Length)
	}
	if ds.Cycles[1].Closed() {
		t.Error("terminal cycle should be open")
	}

	// The closed cycle gets full phase coverage; the open one only keeps
	// indicator-derived menstrual days.
	if ds.Records[14].Phase != cycle.PhaseLuteal {
		t.Errorf("day 15 phase = %s, want Luteal", ds.Records[14].Phase)
	}
	if ds.Records[30].Phase != cycle.PhaseMenstrual {
		t.Errorf("open-cycle menstruating day = %s, want Menstrual", ds.Records[30].Phase)
	}
	if ds.Records[40].Phase != cycle.PhaseUnknown {
		t.Errorf("open-cycle later day = %s, want Unknown", ds.Records[40].Phase)
	}
}
