package analysis

import (
	"math"
	"sort"

	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
)

// OmnibusTester runs a single across-all-phases test per metric, choosing
// between ANOVA and Kruskal-Wallis from the assumption checks.
type OmnibusTester struct {
	checker *AssumptionChecker
	dist    *Distributions
	alpha   float64
}

// NewOmnibusTester creates a tester with the given significance level.
func NewOmnibusTester(alpha float64) *OmnibusTester {
	return &OmnibusTester{
		checker: NewAssumptionChecker(alpha),
		dist:    NewDistributions(),
		alpha:   alpha,
	}
}

// Run tests whether any phase group differs. Fewer than two non-empty groups
// fails soft with TestUsed="None" rather than erroring.
func (t *OmnibusTester) Run(groups map[cycle.Phase][]float64) report.OmnibusResult {
	valid := nonEmptyGroups(groups)
	if len(valid) < 2 {
		return report.OmnibusResult{
			TestUsed: report.TestNone,
			Reason:   "insufficient groups with data",
		}
	}

	normality := t.checker.CheckNormality(valid)
	variance := t.checker.CheckEqualVariances(valid)

	samples := orderedSamples(valid)

	var stat, p float64
	var testUsed string
	if ChooseParametric(normality, variance) {
		stat, p = t.anova(samples)
		testUsed = report.TestANOVA
	} else {
		stat, p = t.kruskalWallis(samples)
		testUsed = report.TestKruskalWallis
	}

	return report.OmnibusResult{
		TestUsed:    testUsed,
		Statistic:   stat,
		PValue:      p,
		Significant: p < t.alpha,
		Normality:   normality,
		Variance:    variance,
	}
}

// ChooseParametric selects ANOVA only when every group tested normal
// (inevaluable groups count as non-normal) and variances are homogeneous.
func ChooseParametric(normality map[cycle.Phase]report.NormalityResult, variance report.VarianceResult) bool {
	for _, result := range normality {
		if !result.IsNormal {
			return false
		}
	}
	return variance.EqualVariances != nil && *variance.EqualVariances
}

// anova computes the one-way ANOVA F statistic and p-value.
func (t *OmnibusTester) anova(samples [][]float64) (statistic, pValue float64) {
	k := len(samples)
	total := 0
	var grandSum float64
	for _, data := range samples {
		total += len(data)
		for _, x := range data {
			grandSum += x
		}
	}
	grandMean := grandSum / float64(total)

	var between, within float64
	for _, data := range samples {
		var sum float64
		for _, x := range data {
			sum += x
		}
		mean := sum / float64(len(data))
		diff := mean - grandMean
		between += float64(len(data)) * diff * diff
		for _, x := range data {
			d := x - mean
			within += d * d
		}
	}

	df1, df2 := k-1, total-k
	if df2 <= 0 {
		return 0, 1.0
	}
	if within == 0 {
		return math.Inf(1), 0.0
	}

	statistic = (between / float64(df1)) / (within / float64(df2))
	pValue = t.dist.FTestPValue(statistic, df1, df2)
	return statistic, pValue
}

// kruskalWallis computes the H statistic with tie correction and its
// chi-square p-value.
func (t *OmnibusTester) kruskalWallis(samples [][]float64) (statistic, pValue float64) {
	k := len(samples)
	total := 0
	for _, data := range samples {
		total += len(data)
	}

	ranks, tieCorrection := pooledRanks(samples)

	n := float64(total)
	var h float64
	offset := 0
	for _, data := range samples {
		var rankSum float64
		for j := range data {
			rankSum += ranks[offset+j]
		}
		h += rankSum * rankSum / float64(len(data))
		offset += len(data)
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	if tieCorrection > 0 {
		h /= tieCorrection
	}

	statistic = h
	pValue = t.dist.KruskalWallisPValue(h, k, total)
	return statistic, pValue
}

// pooledRanks assigns average ranks over the pooled samples, returning the
// ranks in sample order plus the tie correction factor.
func pooledRanks(samples [][]float64) (ranks []float64, tieCorrection float64) {
	type indexed struct {
		value float64
		pos   int
	}

	total := 0
	for _, data := range samples {
		total += len(data)
	}

	pooled := make([]indexed, 0, total)
	pos := 0
	for _, data := range samples {
		for _, x := range data {
			pooled = append(pooled, indexed{value: x, pos: pos})
			pos++
		}
	}

	sort.Slice(pooled, func(a, b int) bool { return pooled[a].value < pooled[b].value })

	ranks = make([]float64, total)
	var tieSum float64
	i := 0
	for i < total {
		j := i
		for j < total && pooled[j].value == pooled[i].value {
			j++
		}
		// Average rank for the tie run [i, j).
		avg := float64(i+j+1) / 2.0
		for m := i; m < j; m++ {
			ranks[pooled[m].pos] = avg
		}
		tied := float64(j - i)
		tieSum += tied*tied*tied - tied
		i = j
	}

	n := float64(total)
	tieCorrection = 1 - tieSum/(n*n*n-n)
	return ranks, tieCorrection
}

// nonEmptyGroups filters out phases with no data.
func nonEmptyGroups(groups map[cycle.Phase][]float64) map[cycle.Phase][]float64 {
	valid := make(map[cycle.Phase][]float64, len(groups))
	for phase, data := range groups {
		if len(data) > 0 {
			valid[phase] = data
		}
	}
	return valid
}

// orderedSamples flattens groups into slices following the canonical phase
// order so test statistics are deterministic.
func orderedSamples(groups map[cycle.Phase][]float64) [][]float64 {
	samples := make([][]float64, 0, len(groups))
	for _, phase := range cycle.PhaseOrder {
		if data, ok := groups[phase]; ok && len(data) > 0 {
			samples = append(samples, data)
		}
	}
	return samples
}
