package analysis

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"cyclelens/domain/core"
	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
)

// ReportBuilder assembles the full statistical comparison for a set of
// candidate metrics into three flat report tables.
type ReportBuilder struct {
	omnibus  *OmnibusTester
	pairwise *PairwiseTester
}

// NewReportBuilder creates a builder with the given significance level.
func NewReportBuilder(alpha float64) *ReportBuilder {
	return &ReportBuilder{
		omnibus:  NewOmnibusTester(alpha),
		pairwise: NewPairwiseTester(alpha),
	}
}

// Build analyzes every candidate metric that is present in the dataset and
// has data in all four phases. Metrics are computed independently and in
// parallel; every statistical step degrades to an explicit "not computed"
// row rather than failing.
func (b *ReportBuilder) Build(ctx context.Context, ds *cycle.Dataset, metrics []string) (*report.StatsReport, error) {
	var candidates []string
	for _, metric := range metrics {
		if ds.HasMetric(metric) {
			candidates = append(candidates, metric)
		}
	}

	comparisons := make([]*report.MetricComparison, len(candidates))

	g, _ := errgroup.WithContext(ctx)
	for i, metric := range candidates {
		g.Go(func() error {
			groups := ds.PhaseGroups(metric)
			for _, phase := range cycle.PhaseOrder {
				if len(groups[phase]) == 0 {
					return nil // metric skipped: not all phases populated
				}
			}
			cmp := b.analyzeMetric(metric, groups)
			comparisons[i] = &cmp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &report.StatsReport{ID: core.ReportID(core.NewID())}
	for _, cmp := range comparisons {
		if cmp != nil {
			rep.Comparisons = append(rep.Comparisons, *cmp)
		}
	}

	rep.Descriptive = buildDescriptiveTable(rep.Comparisons)
	rep.Omnibus = buildOmnibusTable(rep.Comparisons)
	rep.Pairwise = buildPairwiseTable(rep.Comparisons)

	return rep, nil
}

// analyzeMetric runs the full battery for one metric. Pairwise comparisons
// only run behind a significant omnibus result.
func (b *ReportBuilder) analyzeMetric(metric string, groups map[cycle.Phase][]float64) report.MetricComparison {
	cmp := report.MetricComparison{
		Metric:       metric,
		Descriptives: Describe(groups),
		Omnibus:      b.omnibus.Run(groups),
	}

	if cmp.Omnibus.Significant {
		raw := b.pairwise.Run(groups, cmp.Omnibus.Parametric())
		cmp.Pairwise = b.pairwise.BonferroniCorrect(raw)
		cmp.PairOrder = b.pairwise.PairKeys(groups)
	}

	return cmp
}

func buildDescriptiveTable(comparisons []report.MetricComparison) []report.Row {
	rows := make([]report.Row, 0)

	for _, cmp := range comparisons {
		for _, phase := range cycle.PhaseOrder {
			stats, ok := cmp.Descriptives[phase]
			if !ok || stats.N == 0 {
				continue
			}
			rows = append(rows, report.Row{
				"Metric":  cmp.Metric,
				"Phase":   string(phase),
				"N":       stats.N,
				"Mean":    round2(stats.Mean),
				"Median":  round2(stats.Median),
				"Std Dev": round2(stats.StdDev),
				"Min":     round2(stats.Min),
				"Max":     round2(stats.Max),
			})
		}
	}

	return rows
}

func buildOmnibusTable(comparisons []report.MetricComparison) []report.Row {
	rows := make([]report.Row, 0, len(comparisons))

	for _, cmp := range comparisons {
		overall := cmp.Omnibus
		if !overall.Computed() {
			reason := overall.Reason
			if reason == "" {
				reason = "Insufficient data"
			}
			rows = append(rows, report.Row{
				"Metric":         cmp.Metric,
				"Test Used":      report.TestNone,
				"Test Statistic": "N/A",
				"P-value":        "N/A",
				"Significant":    "N/A",
				"Interpretation": reason,
			})
			continue
		}

		interpretation := "No significant differences"
		if overall.Significant {
			interpretation = "Phases differ significantly"
		}
		rows = append(rows, report.Row{
			"Metric":         cmp.Metric,
			"Test Used":      overall.TestUsed,
			"Test Statistic": round4(overall.Statistic),
			"P-value":        formatP(overall.PValue),
			"Significant":    yesNo(overall.Significant),
			"Interpretation": interpretation,
		})
	}

	return rows
}

func buildPairwiseTable(comparisons []report.MetricComparison) []report.Row {
	rows := make([]report.Row, 0)

	for _, cmp := range comparisons {
		if len(cmp.Pairwise) == 0 {
			rows = append(rows, report.Row{
				"Metric":              cmp.Metric,
				"Comparison":          "None performed",
				"Test Used":           "N/A",
				"Effect Size":         "N/A",
				"P-value (Corrected)": "N/A",
				"Significant":         "N/A",
			})
			continue
		}

		for _, key := range cmp.PairOrder {
			result := cmp.Pairwise[key]
			effect := interface{}("N/A")
			if v, ok := result.EffectSize(); ok {
				effect = round3(v)
			}
			rows = append(rows, report.Row{
				"Metric":              cmp.Metric,
				"Comparison":          key,
				"Test Used":           result.TestUsed,
				"Effect Size":         effect,
				"P-value (Corrected)": formatP(result.PValueCorrected),
				"Significant":         yesNo(result.SignificantCorrected),
			})
		}
	}

	return rows
}

func round2(v float64) float64 { return roundTo(v, 2) }
func round3(v float64) float64 { return roundTo(v, 3) }
func round4(v float64) float64 { return roundTo(v, 4) }

func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func formatP(p float64) string {
	return fmt.Sprintf("%.6f", p)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
