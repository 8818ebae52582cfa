package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides unified access to the reference distributions used
// for p-value computation.
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TTestPValue computes the two-tailed p-value for a t statistic.
func (d *Distributions) TTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// FTestPValue computes the upper-tail p-value for an F statistic (ANOVA,
// Levene).
func (d *Distributions) FTestPValue(fStatistic float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1.0
	}

	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return 1 - fDist.CDF(fStatistic)
}

// ChiSquarePValue computes the upper-tail p-value for a chi-square statistic.
func (d *Distributions) ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return 1 - chiDist.CDF(chiSquare)
}

// NormalCDF computes the standard normal cumulative distribution function.
func (d *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// MannWhitneyPValue computes the two-sided p-value for a Mann-Whitney U
// statistic via the normal approximation.
func (d *Distributions) MannWhitneyPValue(uStatistic float64, n1, n2 int) float64 {
	if n1 <= 0 || n2 <= 0 {
		return 1.0
	}

	meanU := float64(n1*n2) / 2.0
	stdU := math.Sqrt(float64(n1*n2*(n1+n2+1)) / 12.0)
	if stdU == 0 {
		return 1.0
	}

	z := (uStatistic - meanU) / stdU
	return 2 * (1 - d.NormalCDF(math.Abs(z)))
}

// KruskalWallisPValue computes the p-value for a Kruskal-Wallis H statistic
// via the chi-square approximation.
func (d *Distributions) KruskalWallisPValue(hStatistic float64, k, n int) float64 {
	if k < 2 || n < k {
		return 1.0
	}
	return d.ChiSquarePValue(hStatistic, k-1)
}
