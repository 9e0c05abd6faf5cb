package warehouse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bionicpro/device-usage-reports/internal/domain"
)

const TableName = "user_device_usage_reports"

// Partitioned by month and ordered by the idempotency key so re-runs for a
// report_date land on the same physical range. MergeTree does not enforce
// key uniqueness; at-most-once per report_date is the invoker's contract.
const createTableStmt = `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
    owner_id String,
    device_id String,
    report_date Date,
    usage_count UInt32,
    total_usage_minutes UInt32,
    avg_battery_level Float32,
    commands_executed UInt32,
    last_activity DateTime,
    period_start DateTime,
    period_end DateTime,
    created_at DateTime DEFAULT now()
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(report_date)
ORDER BY (owner_id, device_id, report_date)`

const insertPrefix = `INSERT INTO ` + TableName +
	` (owner_id, device_id, report_date, usage_count, total_usage_minutes,` +
	` avg_battery_level, commands_executed, last_activity, period_start, period_end) VALUES `

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

// Publisher guarantees the destination schema and bulk-writes report rows.
type Publisher struct {
	exec    StatementExecutor
	maxRows int
	logger  zerolog.Logger
}

// NewPublisher wraps exec. maxRowsPerStmt bounds statement size; values <= 0
// fall back to 10000, which a normal daily run never reaches, so the run
// emits a single bulk insert.
func NewPublisher(exec StatementExecutor, maxRowsPerStmt int, logger zerolog.Logger) *Publisher {
	if maxRowsPerStmt <= 0 {
		maxRowsPerStmt = 10000
	}
	return &Publisher{exec: exec, maxRows: maxRowsPerStmt, logger: logger}
}

// EnsureSchema creates the destination table if absent. Safe to call every
// run.
func (p *Publisher) EnsureSchema(ctx context.Context) error {
	if err := p.exec.Execute(ctx, createTableStmt); err != nil {
		return &PublishError{Stage: "schema", Err: err}
	}
	return nil
}

// Publish bulk-inserts the row set. An empty set is a no-op and never
// reaches the store. Any statement failure returns a PublishError and the
// batch is considered uncommitted.
func (p *Publisher) Publish(ctx context.Context, rows []domain.UsageReportRow) error {
	if len(rows) == 0 {
		p.logger.Info().Msg("no report rows to publish")
		return nil
	}
	stmts := insertStatements(rows, p.maxRows)
	for _, stmt := range stmts {
		if err := p.exec.Execute(ctx, stmt); err != nil {
			return &PublishError{Stage: "insert", Err: err}
		}
	}
	p.logger.Info().Int("rows", len(rows)).Int("statements", len(stmts)).Msg("report rows published")
	return nil
}

func insertStatements(rows []domain.UsageReportRow, maxRows int) []string {
	var stmts []string
	for start := 0; start < len(rows); start += maxRows {
		end := min(start+maxRows, len(rows))
		var b strings.Builder
		b.WriteString(insertPrefix)
		for i, row := range rows[start:end] {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(rowValues(row))
		}
		stmts = append(stmts, b.String())
	}
	return stmts
}

func rowValues(r domain.UsageReportRow) string {
	return fmt.Sprintf("('%s', '%s', '%s', %d, %d, %s, %d, '%s', '%s', '%s')",
		escapeString(r.OwnerID),
		escapeString(r.DeviceID),
		r.ReportDate.Format(dateFormat),
		r.UsageCount,
		r.TotalUsageMinutes,
		strconv.FormatFloat(r.AvgBatteryLevel, 'f', -1, 64),
		r.CommandsExecuted,
		r.LastActivity.UTC().Format(dateTimeFormat),
		r.PeriodStart.UTC().Format(dateTimeFormat),
		r.PeriodEnd.UTC().Format(dateTimeFormat))
}

// escapeString doubles single quotes per the target's string-literal syntax.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
