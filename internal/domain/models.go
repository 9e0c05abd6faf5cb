package domain

import (
	"database/sql"
	"time"
)

// RegistryRecord is one owner/device pairing from the registry store.
// Device fields are null for owners that have no device yet.
type RegistryRecord struct {
	OwnerID         string         `db:"owner_id" json:"owner_id"`
	OwnerEmail      string         `db:"owner_email" json:"owner_email"`
	OwnerName       string         `db:"owner_name" json:"owner_name"`
	DeviceID        sql.NullString `db:"device_id" json:"device_id"`
	DeviceModel     sql.NullString `db:"device_model" json:"device_model"`
	ManufactureDate sql.NullTime   `db:"manufacture_date" json:"manufacture_date"`
}

// TelemetryEvent is one raw telemetry row. Sensor payload and actuator
// commands arrive as stored JSON; battery_level is carried as stored text so
// a bad value poisons only that reading, not the whole extract.
type TelemetryEvent struct {
	DeviceID         string         `db:"device_id" json:"device_id"`
	Timestamp        time.Time      `db:"timestamp" json:"timestamp"`
	SensorPayload    []byte         `db:"sensor_payload" json:"sensor_payload"`
	ActuatorCommands []byte         `db:"actuator_commands" json:"actuator_commands"`
	BatteryLevel     sql.NullString `db:"battery_level" json:"battery_level"`
}

// UsageReportRow is the published report entity, uniquely identified by
// (OwnerID, DeviceID, ReportDate).
type UsageReportRow struct {
	OwnerID           string    `json:"owner_id"`
	DeviceID          string    `json:"device_id"`
	ReportDate        time.Time `json:"report_date"`
	UsageCount        uint32    `json:"usage_count"`
	TotalUsageMinutes uint32    `json:"total_usage_minutes"`
	AvgBatteryLevel   float64   `json:"avg_battery_level"`
	CommandsExecuted  uint32    `json:"commands_executed"`
	LastActivity      time.Time `json:"last_activity"`
	PeriodStart       time.Time `json:"period_start"`
	PeriodEnd         time.Time `json:"period_end"`
}

// ReportWindow is the half-open interval [Start, End) a run reports on,
// plus the report date its rows are keyed by.
type ReportWindow struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ReportDate time.Time `json:"report_date"`
}
