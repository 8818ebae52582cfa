package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclelens/domain/cycle"
)

// normalFixture is the standard normal quantiles at (i-0.5)/20, a sample no
// normality test should reject.
var normalFixture = []float64{
	-1.9600, -1.4395, -1.1503, -0.9346, -0.7554,
	-0.5978, -0.4538, -0.3186, -0.1891, -0.0627,
	0.0627, 0.1891, 0.3186, 0.4538, 0.5978,
	0.7554, 0.9346, 1.1503, 1.4395, 1.9600,
}

func TestCheckNormality_AcceptsNormalSample(t *testing.T) {
	checker := NewAssumptionChecker(0.05)

	results := checker.CheckNormality(map[cycle.Phase][]float64{
		cycle.PhaseMenstrual: normalFixture,
	})

	r := results[cycle.PhaseMenstrual]
	require.NotNil(t, r.PValue)
	require.NotNil(t, r.Statistic)
	assert.True(t, r.IsNormal, "normal quantiles should pass, p=%v", *r.PValue)
	assert.Equal(t, 20, r.N)
}

func TestCheckNormality_RejectsExtremeOutlier(t *testing.T) {
	checker := NewAssumptionChecker(0.05)

	data := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}
	results := checker.CheckNormality(map[cycle.Phase][]float64{
		cycle.PhaseLuteal: data,
	})

	r := results[cycle.PhaseLuteal]
	require.NotNil(t, r.PValue)
	assert.False(t, r.IsNormal, "heavily skewed sample should fail, p=%v", *r.PValue)
	assert.Less(t, *r.PValue, 0.05)
}

func TestCheckNormality_TooFewSamples(t *testing.T) {
	checker := NewAssumptionChecker(0.05)

	results := checker.CheckNormality(map[cycle.Phase][]float64{
		cycle.PhaseOvulatory: {1.0, 2.0},
	})

	r := results[cycle.PhaseOvulatory]
	assert.Nil(t, r.Statistic)
	assert.Nil(t, r.PValue)
	assert.False(t, r.IsNormal, "inevaluable groups count as non-normal")
	assert.Equal(t, 2, r.N)
}

func TestCheckEqualVariances_DetectsHeterogeneity(t *testing.T) {
	checker := NewAssumptionChecker(0.05)

	result := checker.CheckEqualVariances(map[cycle.Phase][]float64{
		cycle.PhaseMenstrual:  {1, 2, 3, 4, 5},
		cycle.PhaseFollicular: {10, 20, 30, 40, 50},
	})

	require.NotNil(t, result.Statistic)
	require.NotNil(t, result.EqualVariances)
	assert.InDelta(t, 8.249, *result.Statistic, 0.01)
	assert.Less(t, *result.PValue, 0.05)
	assert.False(t, *result.EqualVariances)
}

func TestCheckEqualVariances_IdenticalSpread(t *testing.T) {
	checker := NewAssumptionChecker(0.05)

	result := checker.CheckEqualVariances(map[cycle.Phase][]float64{
		cycle.PhaseMenstrual:  {1, 2, 3},
		cycle.PhaseFollicular: {11, 12, 13},
	})

	require.NotNil(t, result.EqualVariances)
	assert.True(t, *result.EqualVariances)
}

func TestCheckEqualVariances_UndefinedBelowTwoGroups(t *testing.T) {
	checker := NewAssumptionChecker(0.05)

	result := checker.CheckEqualVariances(map[cycle.Phase][]float64{
		cycle.PhaseMenstrual: {1, 2, 3},
		cycle.PhaseLuteal:    {},
	})

	assert.Nil(t, result.Statistic)
	assert.Nil(t, result.PValue)
	assert.Nil(t, result.EqualVariances)
}
