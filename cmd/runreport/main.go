package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bionicpro/device-usage-reports/internal/cloud"
	"github.com/bionicpro/device-usage-reports/internal/config"
	"github.com/bionicpro/device-usage-reports/internal/database"
	"github.com/bionicpro/device-usage-reports/internal/service"
	"github.com/bionicpro/device-usage-reports/internal/warehouse"
)

func main() {
	triggerFlag := flag.String("trigger", "", "trigger instant (RFC3339); defaults to now UTC")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	trigger := time.Now().UTC()
	if *triggerFlag != "" {
		t, err := time.Parse(time.RFC3339, *triggerFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("-trigger must be RFC3339")
		}
		trigger = t
	}

	registryDB, err := database.ConnectRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("registry db connect failed")
	}
	defer registryDB.Close()

	telemetryDB, err := database.ConnectTelemetry()
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry db connect failed")
	}
	defer telemetryDB.Close()

	exec, err := warehouse.NewExecutor()
	if err != nil {
		log.Fatal().Err(err).Msg("warehouse executor init failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var archive service.ArchiveUploader
	if config.UseCloudServices() {
		s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client init failed")
		}
		archive = s3c
	}

	svcs := service.New(registryDB, telemetryDB, exec, archive, log.Logger)

	res, err := svcs.Pipeline.Run(ctx, trigger)
	if err != nil {
		log.Fatal().Err(err).Msg("report run failed")
	}
	log.Info().
		Int("rows_published", res.RowsPublished).
		Str("report_date", res.Window.ReportDate.Format("2006-01-02")).
		Msg("report run complete")
}
