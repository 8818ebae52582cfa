package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"cyclelens/domain/cycle"
	"cyclelens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Phases   PhasesConfig
	Analysis AnalysisConfig
	Overlay  OverlayConfig
	Server   ServerConfig
	Inputs   InputConfig
}

// PhasesConfig holds phase segmentation durations
type PhasesConfig struct {
	MenstrualDays int
	LutealDays    int
	OvulatoryDays int
}

// PhaseConfig converts to the domain configuration type.
func (p PhasesConfig) PhaseConfig() cycle.PhaseConfig {
	return cycle.PhaseConfig{
		MenstrualDays: p.MenstrualDays,
		LutealDays:    p.LutealDays,
		OvulatoryDays: p.OvulatoryDays,
	}
}

// AnalysisConfig holds statistical analysis settings
type AnalysisConfig struct {
	Alpha   float64 // significance threshold for every test
	Metrics []string
}

// OverlayConfig holds cycle overlay settings
type OverlayConfig struct {
	MaxCycleDays int // cycles spanning this many rows or more are excluded
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// InputConfig holds default input table paths for the CLI and server
type InputConfig struct {
	PhysiologicalPath string
	JournalPath       string
	SleepPath         string
	WorkoutsPath      string
}

// Load reads configuration from the environment (and .env when present) and
// validates it.
func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	defaults := cycle.DefaultPhaseConfig()

	config := &Config{
		Phases: PhasesConfig{
			MenstrualDays: getEnvIntOrDefault("CYCLE_MENSTRUAL_DAYS", defaults.MenstrualDays),
			LutealDays:    getEnvIntOrDefault("CYCLE_LUTEAL_DAYS", defaults.LutealDays),
			OvulatoryDays: getEnvIntOrDefault("CYCLE_OVULATORY_DAYS", defaults.OvulatoryDays),
		},
		Analysis: AnalysisConfig{
			Alpha:   getEnvFloatOrDefault("ANALYSIS_ALPHA", 0.05),
			Metrics: cycle.DefaultReportMetrics(),
		},
		Overlay: OverlayConfig{
			MaxCycleDays: getEnvIntOrDefault("OVERLAY_MAX_CYCLE_DAYS", 35),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Inputs: InputConfig{
			PhysiologicalPath: os.Getenv("PHYSIOLOGICAL_CSV"),
			JournalPath:       os.Getenv("JOURNAL_CSV"),
			SleepPath:         os.Getenv("SLEEP_CSV"),
			WorkoutsPath:      os.Getenv("WORKOUTS_CSV"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if err := config.Phases.PhaseConfig().Validate(); err != nil {
		return errors.WithCode(errors.CodeInvalidConfiguration, err)
	}
	if config.Analysis.Alpha <= 0 || config.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ANALYSIS_ALPHA must be in (0, 1)")
	}
	if config.Overlay.MaxCycleDays < 1 {
		return errors.ConfigInvalid("OVERLAY_MAX_CYCLE_DAYS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
