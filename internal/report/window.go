package report

import (
	"errors"
	"time"

	"github.com/bionicpro/device-usage-reports/internal/domain"
)

// ResolveWindow derives the reporting window from a trigger instant: the 24
// hours strictly preceding the trigger, reported under the prior day's date.
// Pure; the trigger is taken as UTC.
func ResolveWindow(trigger time.Time) (domain.ReportWindow, error) {
	if trigger.IsZero() {
		return domain.ReportWindow{}, errors.New("report: zero trigger instant")
	}
	t := trigger.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return domain.ReportWindow{
		Start:      t.Add(-24 * time.Hour),
		End:        t,
		ReportDate: day.AddDate(0, 0, -1),
	}, nil
}
