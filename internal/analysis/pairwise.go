package analysis

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
)

// PairwiseTester compares every unordered pair of non-empty phase groups.
// Callers only invoke it after a significant omnibus result.
type PairwiseTester struct {
	dist  *Distributions
	alpha float64
}

// NewPairwiseTester creates a tester with the given significance level.
func NewPairwiseTester(alpha float64) *PairwiseTester {
	return &PairwiseTester{dist: NewDistributions(), alpha: alpha}
}

// Run performs all pairwise comparisons using the family chosen by the
// omnibus test. The returned keys follow "<Phase A> vs <Phase B>" in
// canonical phase order; PairKeys reproduces that ordering.
func (t *PairwiseTester) Run(groups map[cycle.Phase][]float64, parametric bool) map[string]report.PairwiseResult {
	valid := nonEmptyGroups(groups)
	results := make(map[string]report.PairwiseResult)

	phases := orderedPhases(valid)
	for i := 0; i < len(phases); i++ {
		for j := i + 1; j < len(phases); j++ {
			a, b := phases[i], phases[j]
			key := pairKey(a, b)
			if parametric {
				results[key] = t.tTest(valid[a], valid[b])
			} else {
				results[key] = t.mannWhitney(valid[a], valid[b])
			}
		}
	}

	return results
}

// PairKeys returns the comparison keys in deterministic enumeration order.
func (t *PairwiseTester) PairKeys(groups map[cycle.Phase][]float64) []string {
	phases := orderedPhases(nonEmptyGroups(groups))
	var keys []string
	for i := 0; i < len(phases); i++ {
		for j := i + 1; j < len(phases); j++ {
			keys = append(keys, pairKey(phases[i], phases[j]))
		}
	}
	return keys
}

// BonferroniCorrect multiplies every p-value by the comparison count,
// clamps at 1.0, and recomputes significance at the same threshold.
func (t *PairwiseTester) BonferroniCorrect(results map[string]report.PairwiseResult) map[string]report.PairwiseResult {
	k := float64(len(results))
	corrected := make(map[string]report.PairwiseResult, len(results))

	for key, r := range results {
		r.PValueCorrected = math.Min(r.PValue*k, 1.0)
		r.SignificantCorrected = r.PValueCorrected < t.alpha
		corrected[key] = r
	}

	return corrected
}

// tTest runs the independent two-sample t-test with pooled variance and
// reports the difference of means.
func (t *PairwiseTester) tTest(a, b []float64) report.PairwiseResult {
	meanA, _ := mstats.Mean(a)
	meanB, _ := mstats.Mean(b)
	diff := meanA - meanB

	n1, n2 := len(a), len(b)
	df := n1 + n2 - 2

	var stat, p float64
	if df < 1 {
		stat, p = 0, 1.0
	} else {
		varA := sampleVariance(a, meanA)
		varB := sampleVariance(b, meanB)
		pooled := (float64(n1-1)*varA + float64(n2-1)*varB) / float64(df)
		se := math.Sqrt(pooled * (1/float64(n1) + 1/float64(n2)))
		if se == 0 {
			stat, p = 0, 1.0
		} else {
			stat = diff / se
			p = t.dist.TTestPValue(stat, df)
		}
	}

	return report.PairwiseResult{
		TestUsed:    report.TestTTest,
		Statistic:   stat,
		PValue:      p,
		Significant: p < t.alpha,
		MeanDiff:    &diff,
	}
}

// mannWhitney runs the two-sided Mann-Whitney U test and reports the
// difference of medians.
func (t *PairwiseTester) mannWhitney(a, b []float64) report.PairwiseResult {
	medianA, _ := mstats.Median(a)
	medianB, _ := mstats.Median(b)
	diff := medianA - medianB

	ranks, _ := pooledRanks([][]float64{a, b})
	var rankSumA float64
	for i := range a {
		rankSumA += ranks[i]
	}

	n1, n2 := len(a), len(b)
	u := rankSumA - float64(n1*(n1+1))/2.0
	p := t.dist.MannWhitneyPValue(u, n1, n2)

	return report.PairwiseResult{
		TestUsed:    report.TestMannWhitney,
		Statistic:   u,
		PValue:      p,
		Significant: p < t.alpha,
		MedianDiff:  &diff,
	}
}

func sampleVariance(data []float64, mean float64) float64 {
	if len(data) < 2 {
		return 0
	}
	var sum float64
	for _, x := range data {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(data)-1)
}

func pairKey(a, b cycle.Phase) string {
	return fmt.Sprintf("%s vs %s", a, b)
}

// orderedPhases lists the non-empty phases in canonical order.
func orderedPhases(groups map[cycle.Phase][]float64) []cycle.Phase {
	var phases []cycle.Phase
	for _, phase := range cycle.PhaseOrder {
		if data, ok := groups[phase]; ok && len(data) > 0 {
			phases = append(phases, phase)
		}
	}
	return phases
}
