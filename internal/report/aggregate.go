package report

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bionicpro/device-usage-reports/internal/domain"
)

// MinutesPerUsageEvent converts an event count into usage minutes. Each
// telemetry event stands for a fixed 5-minute usage slot. This is a known
// approximation inherited from the reporting domain, not a measured
// duration; do not replace it with session inference without domain sign-off.
const MinutesPerUsageEvent = 5

// Aggregate correlates registry records with telemetry by device id and
// computes one UsageReportRow per (owner, device) pairing that has at least
// one usable event in the window.
//
// Registry rows without a device are dropped. Devices with no telemetry emit
// no row. Telemetry for devices absent from the registry extract is ignored.
// A device appearing under several owners emits one row per pairing.
func Aggregate(registry []domain.RegistryRecord, telemetry []domain.TelemetryEvent, window domain.ReportWindow, logger zerolog.Logger) ([]domain.UsageReportRow, error) {
	if window.Start.IsZero() || window.End.IsZero() {
		return nil, &StructuralError{Reason: "window is unset"}
	}
	if window.End.Before(window.Start) {
		return nil, &StructuralError{Reason: "window end precedes window start"}
	}

	byDevice := make(map[string][]domain.TelemetryEvent)
	for _, ev := range telemetry {
		byDevice[ev.DeviceID] = append(byDevice[ev.DeviceID], ev)
	}

	var rows []domain.UsageReportRow
	for _, rec := range registry {
		if !rec.DeviceID.Valid || rec.DeviceID.String == "" {
			continue
		}
		deviceID := rec.DeviceID.String
		events := byDevice[deviceID]
		if len(events) == 0 {
			continue
		}

		var (
			usageCount int
			commands   int
			batterySum float64
			batteryN   int
			first      time.Time
			last       time.Time
		)
		for _, ev := range events {
			n, err := countCommands(ev.ActuatorCommands)
			if err != nil {
				logger.Warn().
					Str("device_id", deviceID).
					Time("timestamp", ev.Timestamp).
					Err(err).
					Msg("skipping telemetry event with undecodable actuator commands")
				continue
			}
			usageCount++
			if n > 0 {
				commands++
			}
			if level, ok := batteryLevel(ev.BatteryLevel, deviceID, logger); ok {
				batterySum += level
				batteryN++
			}
			if first.IsZero() || ev.Timestamp.Before(first) {
				first = ev.Timestamp
			}
			if ev.Timestamp.After(last) {
				last = ev.Timestamp
			}
		}
		if usageCount == 0 {
			continue
		}

		// 0.0 is the explicit no-readings sentinel, not a missing value.
		avgBattery := 0.0
		if batteryN > 0 {
			avgBattery = math.Round(batterySum/float64(batteryN)*100) / 100
		}

		rows = append(rows, domain.UsageReportRow{
			OwnerID:           rec.OwnerID,
			DeviceID:          deviceID,
			ReportDate:        window.ReportDate,
			UsageCount:        uint32(usageCount),
			TotalUsageMinutes: uint32(usageCount * MinutesPerUsageEvent),
			AvgBatteryLevel:   avgBattery,
			CommandsExecuted:  uint32(commands),
			LastActivity:      last,
			PeriodStart:       first,
			PeriodEnd:         last,
		})
	}
	return rows, nil
}

// countCommands decodes the stored actuator command list. A null or empty
// payload is an empty list; anything that is not a JSON array is a
// record-level anomaly and the caller skips the event.
func countCommands(raw []byte) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}
	var cmds []json.RawMessage
	if err := json.Unmarshal(trimmed, &cmds); err != nil {
		return 0, err
	}
	return len(cmds), nil
}

// batteryLevel parses a stored battery reading. Null readings and
// unparseable values are excluded from the average; only the latter is
// worth a log line.
func batteryLevel(v sql.NullString, deviceID string, logger zerolog.Logger) (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	level, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil {
		logger.Warn().
			Str("device_id", deviceID).
			Str("battery_level", v.String).
			Msg("unparseable battery level treated as null")
		return 0, false
	}
	return level, true
}
