package service

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/bionicpro/device-usage-reports/internal/config"
	"github.com/bionicpro/device-usage-reports/internal/repository"
	"github.com/bionicpro/device-usage-reports/internal/warehouse"
)

type Services struct {
	Pipeline *Pipeline
}

// New wires the pipeline against live stores. archive may be nil when cloud
// services are disabled.
func New(registryDB, telemetryDB *sqlx.DB, exec warehouse.StatementExecutor, archive ArchiveUploader, logger zerolog.Logger) *Services {
	publisher := warehouse.NewPublisher(exec, config.PublishMaxRowsPerStmt(), logger)
	return &Services{
		Pipeline: NewPipeline(
			repository.NewRegistryRepo(registryDB),
			repository.NewTelemetryRepo(telemetryDB),
			publisher,
			archive,
			logger,
		),
	}
}
