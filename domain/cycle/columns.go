package cycle

// Column names as they appear in wearable export tables. The raw time columns
// are consumed during the join; everything else survives into DailyRecord
// metrics and flags.
const (
	ColCycleStartTime = "Cycle start time"
	ColCycleEndTime   = "Cycle end time"
	ColCycleTimezone  = "Cycle timezone"

	ColRecoveryScore     = "Recovery score %"
	ColRestingHR         = "Resting heart rate (bpm)"
	ColHRV               = "Heart rate variability (ms)"
	ColSkinTemp          = "Skin temp (celsius)"
	ColBloodO2           = "Blood oxygen %"
	ColDayStrain         = "Day Strain"
	ColEnergyBurned      = "Energy burned (cal)"
	ColMaxHR             = "Max HR (bpm)"
	ColAverageHR         = "Average HR (bpm)"
	ColSleepPerformance  = "Sleep performance %"
	ColRespRate          = "Respiratory rate (rpm)"
	ColSleepEfficiency   = "Sleep efficiency %"
	ColLightSleep        = "Light sleep duration (min)"
	ColDeepSleep         = "Deep (SWS) duration (min)"
	ColREMSleep          = "REM duration (min)"

	// Journal long form
	ColQuestionText = "Question text"
	ColAnsweredYes  = "Answered yes"

	// The journal question that drives cycle segmentation.
	QuestionMenstruating = "Menstruating"
)

// NumericColumns lists the metric columns coerced to float during the join.
// Coercion failures become missing values, never errors.
func NumericColumns() []string {
	return []string{
		ColRecoveryScore,
		ColRestingHR,
		ColHRV,
		ColSleepPerformance,
		ColDayStrain,
		ColSleepEfficiency,
		ColREMSleep,
		ColDeepSleep,
		ColLightSleep,
		ColSkinTemp,
		ColBloodO2,
		ColEnergyBurned,
		ColRespRate,
		ColMaxHR,
		ColAverageHR,
	}
}

// DefaultReportMetrics is the candidate metric set for the statistical report.
func DefaultReportMetrics() []string {
	return []string{
		ColRecoveryScore,
		ColRestingHR,
		ColHRV,
		ColDayStrain,
		ColSleepEfficiency,
	}
}
