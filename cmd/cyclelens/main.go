package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"cyclelens/adapters/excel"
	"cyclelens/app"
	"cyclelens/domain/report"
	"cyclelens/internal/config"
	"cyclelens/internal/dataset"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cyclelens",
		Short: "Cycle-phase analytics over wearable exports",
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newOverlayCmd(),
		newOverviewCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type inputFlags struct {
	physio   string
	journal  string
	sleep    string
	workouts string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.physio, "physio", "", "Physiological cycles table, csv or xlsx (required)")
	cmd.Flags().StringVar(&f.journal, "journal", "", "Journal entries table, csv or xlsx (required)")
	cmd.Flags().StringVar(&f.sleep, "sleep", "", "Sleep table (optional)")
	cmd.Flags().StringVar(&f.workouts, "workouts", "", "Workouts table (optional)")
}

// resolve fills unset flags from configured defaults.
func (f *inputFlags) resolve(cfg *config.Config) {
	if f.physio == "" {
		f.physio = cfg.Inputs.PhysiologicalPath
	}
	if f.journal == "" {
		f.journal = cfg.Inputs.JournalPath
	}
	if f.sleep == "" {
		f.sleep = cfg.Inputs.SleepPath
	}
	if f.workouts == "" {
		f.workouts = cfg.Inputs.WorkoutsPath
	}
}

func loadInputs(f *inputFlags) (dataset.JoinInputs, error) {
	return app.LoadInputs(app.InputPaths{
		Physiological: f.physio,
		Journal:       f.journal,
		Sleep:         f.sleep,
		Workouts:      f.workouts,
	})
}

func buildDataset(f *inputFlags) (*app.Pipeline, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	f.resolve(cfg)

	pipeline, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, cfg, nil
}

func newReportCmd() *cobra.Command {
	var flags inputFlags
	var out string
	var metrics []string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run per-phase statistical comparison and export an xlsx report",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, _, err := buildDataset(&flags)
			if err != nil {
				return err
			}
			in, err := loadInputs(&flags)
			if err != nil {
				return err
			}
			ds, err := pipeline.Process(in)
			if err != nil {
				return err
			}

			rep, err := pipeline.Report(cmd.Context(), ds, metrics)
			if err != nil {
				return err
			}

			printRows("Descriptive Statistics", rep.Descriptive)
			printRows("Overall Tests", rep.Omnibus)
			printRows("Pairwise Comparisons", rep.Pairwise)

			if out != "" {
				if err := excel.NewReportWriter().Write(out, rep); err != nil {
					return err
				}
				fmt.Printf("report written to %s\n", out)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Write the report to this xlsx path")
	cmd.Flags().StringSliceVar(&metrics, "metrics", nil, "Metric columns to analyze (default: configured set)")

	return cmd
}

func newOverlayCmd() *cobra.Command {
	var flags inputFlags
	var metric string

	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Align cycles by day number for one metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, _, err := buildDataset(&flags)
			if err != nil {
				return err
			}
			in, err := loadInputs(&flags)
			if err != nil {
				return err
			}
			ds, err := pipeline.Process(in)
			if err != nil {
				return err
			}

			alignment, err := pipeline.Overlay(ds, metric)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(alignment)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&metric, "metric", "Recovery score %", "Metric column to overlay")

	return cmd
}

func newOverviewCmd() *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print per-phase metric averages and the mean cycle length",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, _, err := buildDataset(&flags)
			if err != nil {
				return err
			}
			in, err := loadInputs(&flags)
			if err != nil {
				return err
			}
			ds, err := pipeline.Process(in)
			if err != nil {
				return err
			}

			fmt.Printf("Rows: %d  Cycles: %d\n", len(ds.Records), len(ds.Cycles))
			if avg := pipeline.AverageCycleLength(ds); !math.IsNaN(avg) {
				fmt.Printf("Average cycle length: %.1f days\n", avg)
			}
			printRows("Phase Averages", pipeline.Overview(ds))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func printRows(title string, rows []report.Row) {
	fmt.Printf("\n=== %s ===\n", title)
	for _, row := range rows {
		b, err := json.Marshal(sanitize(row))
		if err != nil {
			continue
		}
		fmt.Println(string(b))
	}
}

// sanitize replaces non-finite floats so rows always marshal.
func sanitize(row report.Row) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}
