package report

import (
	"cyclelens/domain/core"
	"cyclelens/domain/cycle"
)

// Row is one flat table row keyed by column name, directly renderable by a
// presentation layer.
type Row map[string]interface{}

// Column orderings for the three report tables.
var (
	DescriptiveColumns = []string{"Metric", "Phase", "N", "Mean", "Median", "Std Dev", "Min", "Max"}
	OmnibusColumns     = []string{"Metric", "Test Used", "Test Statistic", "P-value", "Significant", "Interpretation"}
	PairwiseColumns    = []string{"Metric", "Comparison", "Test Used", "Effect Size", "P-value (Corrected)", "Significant"}
)

// Descriptive holds per-phase summary statistics for one metric.
type Descriptive struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// NormalityResult is the per-phase outcome of the normality check. Statistic
// and PValue are nil when the group was too small to evaluate; such groups
// are conservatively reported as non-normal.
type NormalityResult struct {
	Statistic *float64 `json:"statistic"`
	PValue    *float64 `json:"p_value"`
	IsNormal  bool     `json:"is_normal"`
	N         int      `json:"n_samples"`
}

// VarianceResult is the homogeneity-of-variance outcome across all groups.
// EqualVariances is nil when fewer than two non-empty groups exist.
type VarianceResult struct {
	Statistic      *float64 `json:"statistic"`
	PValue         *float64 `json:"p_value"`
	EqualVariances *bool    `json:"equal_variances"`
}

// OmnibusResult is the outcome of the across-all-phases test for one metric.
type OmnibusResult struct {
	TestUsed    string  `json:"test_used"` // "One-way ANOVA", "Kruskal-Wallis", or "None"
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	Reason      string  `json:"reason,omitempty"` // set when TestUsed == "None"

	Normality map[cycle.Phase]NormalityResult `json:"normality,omitempty"`
	Variance  VarianceResult                  `json:"equal_variances,omitempty"`
}

// Computed reports whether a test actually ran.
func (r OmnibusResult) Computed() bool {
	return r.TestUsed != "None" && r.TestUsed != ""
}

// Parametric reports whether the parametric path was taken.
func (r OmnibusResult) Parametric() bool {
	return r.TestUsed == TestANOVA
}

// PairwiseResult is one two-group comparison. Exactly one of MeanDiff and
// MedianDiff is populated, matching the test family.
type PairwiseResult struct {
	TestUsed    string   `json:"test_used"`
	Statistic   float64  `json:"statistic"`
	PValue      float64  `json:"p_value"`
	Significant bool     `json:"significant"`
	MeanDiff    *float64 `json:"mean_diff,omitempty"`
	MedianDiff  *float64 `json:"median_diff,omitempty"`

	// Populated by Bonferroni correction.
	PValueCorrected      float64 `json:"p_value_corrected"`
	SignificantCorrected bool    `json:"significant_corrected"`
}

// EffectSize returns whichever difference the test family produced.
func (r PairwiseResult) EffectSize() (float64, bool) {
	if r.MeanDiff != nil {
		return *r.MeanDiff, true
	}
	if r.MedianDiff != nil {
		return *r.MedianDiff, true
	}
	return 0, false
}

// Test names as rendered in report tables.
const (
	TestANOVA         = "One-way ANOVA"
	TestKruskalWallis = "Kruskal-Wallis"
	TestTTest         = "Independent t-test"
	TestMannWhitney   = "Mann-Whitney U"
	TestNone          = "None"
)

// MetricComparison holds the full analysis for one metric. Immutable once
// computed; consumed only for report rendering.
type MetricComparison struct {
	Metric       string                        `json:"metric"`
	Descriptives map[cycle.Phase]Descriptive   `json:"descriptive_statistics"`
	Omnibus      OmnibusResult                 `json:"overall_test"`
	Pairwise     map[string]PairwiseResult     `json:"pairwise_corrected,omitempty"`
	PairOrder    []string                      `json:"pair_order,omitempty"`
}

// StatsReport packages the three flat tables plus the underlying comparisons.
type StatsReport struct {
	ID          core.ReportID      `json:"id"`
	Comparisons []MetricComparison `json:"comparisons"`
	Descriptive []Row              `json:"descriptive_table"`
	Omnibus     []Row              `json:"omnibus_table"`
	Pairwise    []Row              `json:"pairwise_table"`
}
