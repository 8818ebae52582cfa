package analysis

import (
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
)

// minNormalitySamples is the smallest group a normality test can evaluate.
const minNormalitySamples = 3

// AssumptionChecker decides the test family for a metric by testing
// per-group normality and across-group variance homogeneity.
type AssumptionChecker struct {
	dist  *Distributions
	alpha float64
}

// NewAssumptionChecker creates a checker with the given significance level.
func NewAssumptionChecker(alpha float64) *AssumptionChecker {
	return &AssumptionChecker{dist: NewDistributions(), alpha: alpha}
}

// CheckNormality tests each group for normality. Groups below the minimum
// sample size report IsNormal=false with nil statistics: they cannot be
// evaluated and are treated conservatively as non-normal.
func (c *AssumptionChecker) CheckNormality(groups map[cycle.Phase][]float64) map[cycle.Phase]report.NormalityResult {
	results := make(map[cycle.Phase]report.NormalityResult, len(groups))

	for phase, data := range groups {
		if len(data) < minNormalitySamples {
			results[phase] = report.NormalityResult{
				Statistic: nil,
				PValue:    nil,
				IsNormal:  false,
				N:         len(data),
			}
			continue
		}

		stat, p := c.normalityStatistic(data)
		results[phase] = report.NormalityResult{
			Statistic: &stat,
			PValue:    &p,
			IsNormal:  p > c.alpha,
			N:         len(data),
		}
	}

	return results
}

// CheckEqualVariances runs Levene's test (median-centered) across all
// non-empty groups. The result is undefined with fewer than two non-empty
// groups.
func (c *AssumptionChecker) CheckEqualVariances(groups map[cycle.Phase][]float64) report.VarianceResult {
	var samples [][]float64
	for _, data := range groups {
		if len(data) > 0 {
			samples = append(samples, data)
		}
	}

	if len(samples) < 2 {
		return report.VarianceResult{}
	}

	stat, p := c.levene(samples)
	equal := p > c.alpha
	return report.VarianceResult{
		Statistic:      &stat,
		PValue:         &p,
		EqualVariances: &equal,
	}
}

// levene computes the median-centered Levene statistic (Brown-Forsythe
// variant) with its F-distribution p-value.
func (c *AssumptionChecker) levene(samples [][]float64) (statistic, pValue float64) {
	k := len(samples)
	total := 0

	// Per-group absolute deviations from the group median.
	deviations := make([][]float64, k)
	groupMeans := make([]float64, k)
	var grandSum float64

	for i, data := range samples {
		median, _ := mstats.Median(data)
		z := make([]float64, len(data))
		var sum float64
		for j, x := range data {
			z[j] = math.Abs(x - median)
			sum += z[j]
		}
		deviations[i] = z
		groupMeans[i] = sum / float64(len(data))
		grandSum += sum
		total += len(data)
	}

	grandMean := grandSum / float64(total)

	var between, within float64
	for i, z := range deviations {
		diff := groupMeans[i] - grandMean
		between += float64(len(z)) * diff * diff
		for _, zj := range z {
			d := zj - groupMeans[i]
			within += d * d
		}
	}

	if within == 0 {
		return math.Inf(1), 0.0
	}

	statistic = (float64(total-k) / float64(k-1)) * (between / within)
	pValue = c.dist.FTestPValue(statistic, k-1, total-k)
	return statistic, pValue
}

// normalityStatistic runs D'Agostino's K-squared test, falling back to a
// Jarque-Bera style approximation for very small samples.
func (c *AssumptionChecker) normalityStatistic(data []float64) (statistic, pValue float64) {
	mean, _ := mstats.Mean(data)
	stdDev, _ := mstats.StandardDeviationSample(data)
	if stdDev == 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		return 0, 0
	}

	if len(data) >= 8 {
		return c.dagostinoK2(data, mean, stdDev)
	}

	// JB-style approximation from skewness and excess kurtosis.
	skew := sampleSkewness(data, mean, stdDev)
	kurt := sampleKurtosis(data, mean, stdDev) - 3

	testStat := math.Abs(skew) + math.Abs(kurt)/2
	chiDist := distuv.ChiSquared{K: 2}
	pValue = 1 - chiDist.CDF(testStat*testStat)
	return testStat, pValue
}

func (c *AssumptionChecker) dagostinoK2(data []float64, mean, stdDev float64) (statistic, pValue float64) {
	n := float64(len(data))

	g1 := sampleSkewness(data, mean, stdDev)
	g2 := sampleKurtosis(data, mean, stdDev)

	// Skewness transform to Z1 (D'Agostino).
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := (3 * (n*n + 27*n - 70) * (n + 1) * (n + 3)) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 0 {
		return 0, 1.0
	}
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	// Kurtosis transform to Z2 (Anscombe-Glynn).
	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	if v <= 0 {
		return 0, 1.0
	}
	x := (g2 - e) / math.Sqrt(v)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	if a <= 4 {
		return 0, 1.0
	}

	term := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	if den <= 0 {
		return math.Inf(1), 0.0
	}
	z2 := (term - math.Pow((1-2/a)/den, 1.0/3.0)) / math.Sqrt(2/(9*a))

	k2 := z1*z1 + z2*z2
	chi2 := distuv.ChiSquared{K: 2}
	return k2, 1 - chi2.CDF(k2)
}

// sampleSkewness computes the adjusted Fisher-Pearson skewness coefficient.
func sampleSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	var sum float64
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}

	skew := sum / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skew * correction
}

// sampleKurtosis computes bias-corrected total (not excess) kurtosis.
func sampleKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 3.0
	}

	n := float64(len(data))
	var sum float64
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}

	kurt := sum / n
	if n > 3 {
		correction := (n - 1) / ((n - 2) * (n - 3))
		kurt = kurt*correction + 6/(n+1)
	}

	return kurt + 3
}
