package service

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/bionicpro/device-usage-reports/internal/domain"
)

var archiveHeader = []string{
	"owner_id", "device_id", "report_date", "usage_count",
	"total_usage_minutes", "avg_battery_level", "commands_executed",
	"last_activity", "period_start", "period_end",
}

// encodeArchiveCSV renders published rows as CSV for the S3 snapshot.
func encodeArchiveCSV(rows []domain.UsageReportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(archiveHeader)
	for _, r := range rows {
		_ = w.Write([]string{
			r.OwnerID,
			r.DeviceID,
			r.ReportDate.Format("2006-01-02"),
			strconv.FormatUint(uint64(r.UsageCount), 10),
			strconv.FormatUint(uint64(r.TotalUsageMinutes), 10),
			strconv.FormatFloat(r.AvgBatteryLevel, 'f', 2, 64),
			strconv.FormatUint(uint64(r.CommandsExecuted), 10),
			r.LastActivity.UTC().Format("2006-01-02 15:04:05"),
			r.PeriodStart.UTC().Format("2006-01-02 15:04:05"),
			r.PeriodEnd.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
	return buf.Bytes()
}
