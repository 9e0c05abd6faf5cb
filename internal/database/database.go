package database

import (
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

// ConnectRegistry opens the device-registry store.
func ConnectRegistry() (*sqlx.DB, error) {
	return sqlx.Connect("pgx", viper.GetString("REGISTRY_DB_DSN"))
}

// ConnectTelemetry opens the telemetry store. The two stores are independent
// and a run holds one connection to each.
func ConnectTelemetry() (*sqlx.DB, error) {
	return sqlx.Connect("pgx", viper.GetString("TELEMETRY_DB_DSN"))
}
