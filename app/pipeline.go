// Package app orchestrates the processing pipeline: read tables, join,
// segment, analyze, align.
package app

import (
	"context"

	"cyclelens/domain/core"
	"cyclelens/domain/cycle"
	"cyclelens/domain/report"
	"cyclelens/internal"
	"cyclelens/internal/analysis"
	"cyclelens/internal/config"
	"cyclelens/internal/dataset"
	"cyclelens/internal/overlay"
	"cyclelens/internal/segment"
)

// Pipeline wires the core engines behind one request-scoped surface. Every
// operation is a pure function of the dataset it is handed; a new request
// simply supersedes the previous result.
type Pipeline struct {
	cfg     *config.Config
	joiner  *dataset.Joiner
	builder *analysis.ReportBuilder
	aligner *overlay.Aligner
	logger  *internal.Logger
}

// New builds a pipeline from validated configuration.
func New(cfg *config.Config) (*Pipeline, error) {
	seg, err := segment.NewSegmenter(cfg.Phases.PhaseConfig())
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:     cfg,
		joiner:  dataset.NewJoiner(seg),
		builder: analysis.NewReportBuilder(cfg.Analysis.Alpha),
		aligner: overlay.NewAligner(cfg.Overlay.MaxCycleDays),
		logger:  internal.DefaultLogger,
	}, nil
}

// Process joins the input tables into the augmented per-day dataset.
func (p *Pipeline) Process(in dataset.JoinInputs) (*cycle.Dataset, error) {
	ds, err := p.joiner.Join(in)
	if err != nil {
		return nil, err
	}
	p.logger.Info("processed dataset %s: %d records, %d cycles",
		ds.ID, len(ds.Records), len(ds.Cycles))
	return ds, nil
}

// Report runs the statistical comparison over the configured metrics, or the
// given override list.
func (p *Pipeline) Report(ctx context.Context, ds *cycle.Dataset, metrics []string) (*report.StatsReport, error) {
	if len(metrics) == 0 {
		metrics = p.cfg.Analysis.Metrics
	}
	rep, err := p.builder.Build(ctx, ds, metrics)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("report %s: %d metrics analyzed", rep.ID, len(rep.Comparisons))
	return rep, nil
}

// Overlay aligns the dataset's cycles by day number for one metric.
func (p *Pipeline) Overlay(ds *cycle.Dataset, metric string) (*overlay.Alignment, error) {
	if !ds.HasMetric(metric) {
		return nil, core.ErrUnknownMetric
	}
	return p.aligner.Align(ds, metric), nil
}

// Overview returns the per-phase metric averages table.
func (p *Pipeline) Overview(ds *cycle.Dataset) []report.Row {
	return analysis.PhaseAverages(ds, p.cfg.Analysis.Metrics)
}

// AverageCycleLength exposes the mean closed-cycle length.
func (p *Pipeline) AverageCycleLength(ds *cycle.Dataset) float64 {
	return analysis.AverageCycleLength(ds)
}
