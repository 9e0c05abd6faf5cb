package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bionicpro/device-usage-reports/internal/domain"
)

type TelemetryRepo struct {
	db *sqlx.DB
}

func NewTelemetryRepo(db *sqlx.DB) *TelemetryRepo { return &TelemetryRepo{db: db} }

const telemetryQuery = `
SELECT device_id::text    AS device_id,
       timestamp,
       sensor_payload,
       actuator_commands,
       battery_level::text AS battery_level
FROM telemetry_events
WHERE timestamp >= $1 AND timestamp < $2
ORDER BY device_id, timestamp`

// ExtractWindow returns every telemetry event with start <= timestamp < end,
// ordered by (device_id, timestamp). An empty result is a valid window.
func (r *TelemetryRepo) ExtractWindow(ctx context.Context, window domain.ReportWindow) ([]domain.TelemetryEvent, error) {
	var out []domain.TelemetryEvent
	if err := r.db.SelectContext(ctx, &out, telemetryQuery, window.Start, window.End); err != nil {
		return nil, &ExtractionError{Source: "telemetry", Err: err}
	}
	return out, nil
}
