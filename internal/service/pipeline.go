package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bionicpro/device-usage-reports/internal/domain"
	"github.com/bionicpro/device-usage-reports/internal/report"
)

// RegistryExtractor fetches owner/device records in scope for a window.
type RegistryExtractor interface {
	ExtractChanged(ctx context.Context, window domain.ReportWindow) ([]domain.RegistryRecord, error)
}

// TelemetryExtractor fetches telemetry events inside a window.
type TelemetryExtractor interface {
	ExtractWindow(ctx context.Context, window domain.ReportWindow) ([]domain.TelemetryEvent, error)
}

// ReportPublisher guarantees the destination schema and writes report rows.
type ReportPublisher interface {
	EnsureSchema(ctx context.Context) error
	Publish(ctx context.Context, rows []domain.UsageReportRow) error
}

// ArchiveUploader stores a CSV snapshot of a run's published rows.
type ArchiveUploader interface {
	UploadRunArchive(ctx context.Context, key string, data []byte) (string, error)
}

// RunResult summarizes one pipeline invocation.
type RunResult struct {
	Window          domain.ReportWindow `json:"window"`
	RegistryRecords int                 `json:"registry_records"`
	TelemetryEvents int                 `json:"telemetry_events"`
	RowsPublished   int                 `json:"rows_published"`
	ArchiveURL      string              `json:"archive_url,omitempty"`
	ArchiveError    string              `json:"archive_error,omitempty"`
	Duration        time.Duration       `json:"duration"`
}

// Pipeline sequences one extract-join-aggregate-load run. It holds no retry
// logic; a failed run surfaces its stage and the invoking scheduler decides
// what to do with it.
type Pipeline struct {
	registry  RegistryExtractor
	telemetry TelemetryExtractor
	publisher ReportPublisher
	archive   ArchiveUploader // nil disables archiving
	logger    zerolog.Logger
}

func NewPipeline(registry RegistryExtractor, telemetry TelemetryExtractor, publisher ReportPublisher, archive ArchiveUploader, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		registry:  registry,
		telemetry: telemetry,
		publisher: publisher,
		archive:   archive,
		logger:    logger,
	}
}

// Run computes and publishes the usage report for the 24 hours preceding
// trigger. The two extractors run concurrently; everything downstream is
// sequential over materialized data. Nothing is published on any failure.
func (p *Pipeline) Run(ctx context.Context, trigger time.Time) (*RunResult, error) {
	started := time.Now()

	window, err := report.ResolveWindow(trigger)
	if err != nil {
		return nil, err
	}

	logger := p.logger.With().
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Str("report_date", window.ReportDate.Format("2006-01-02")).
		Logger()
	logger.Info().Msg("report run started")

	var (
		registry  []domain.RegistryRecord
		telemetry []domain.TelemetryEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		registry, err = p.registry.ExtractChanged(gctx, window)
		return err
	})
	g.Go(func() error {
		var err error
		telemetry, err = p.telemetry.ExtractWindow(gctx, window)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Str("stage", "extract").Msg("report run failed")
		return nil, err
	}
	logger.Info().Int("registry_records", len(registry)).Int("telemetry_events", len(telemetry)).Msg("extraction complete")

	rows, err := report.Aggregate(registry, telemetry, window, logger)
	if err != nil {
		logger.Error().Err(err).Str("stage", "aggregate").Msg("report run failed")
		return nil, err
	}

	if err := p.publisher.EnsureSchema(ctx); err != nil {
		logger.Error().Err(err).Str("stage", "publish").Msg("report run failed")
		return nil, err
	}
	if err := p.publisher.Publish(ctx, rows); err != nil {
		logger.Error().Err(err).Str("stage", "publish").Msg("report run failed")
		return nil, err
	}

	res := &RunResult{
		Window:          window,
		RegistryRecords: len(registry),
		TelemetryEvents: len(telemetry),
		RowsPublished:   len(rows),
	}

	// The warehouse is the report of record; a failed archive upload is
	// reported on the result but does not fail the run.
	if p.archive != nil && len(rows) > 0 {
		key := fmt.Sprintf("reports/%s/usage-%s.csv",
			window.ReportDate.Format("2006-01-02"),
			started.UTC().Format("20060102T150405Z"))
		url, err := p.archive.UploadRunArchive(ctx, key, encodeArchiveCSV(rows))
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("run archive upload failed")
			res.ArchiveError = err.Error()
		} else {
			res.ArchiveURL = url
		}
	}

	res.Duration = time.Since(started)
	logger.Info().Int("rows_published", res.RowsPublished).Dur("duration", res.Duration).Msg("report run finished")
	return res, nil
}
