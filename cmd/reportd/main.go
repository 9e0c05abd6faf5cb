package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bionicpro/device-usage-reports/internal/cloud"
	"github.com/bionicpro/device-usage-reports/internal/config"
	"github.com/bionicpro/device-usage-reports/internal/database"
	httpHandlers "github.com/bionicpro/device-usage-reports/internal/http"
	"github.com/bionicpro/device-usage-reports/internal/service"
	"github.com/bionicpro/device-usage-reports/internal/warehouse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
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

	var archive service.ArchiveUploader
	if config.UseCloudServices() {
		s3c, err := cloud.NewS3Client(context.Background(), config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client init failed")
		}
		archive = s3c
	}

	svcs := service.New(registryDB, telemetryDB, exec, archive, log.Logger)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	if addr == "" {
		addr = ":8080"
	}
	log.Info().Str("addr", addr).Msg("report api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
