package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	trigger := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(trigger)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 14, 2, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, trigger, w.End)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), w.ReportDate)
}

func TestResolveWindow_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	trigger := time.Date(2024, 3, 15, 2, 0, 0, 0, loc) // 2024-03-14T21:00Z

	w, err := ResolveWindow(trigger)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, w.End.Location())
	assert.Equal(t, time.Date(2024, 3, 14, 21, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), w.ReportDate)
}

func TestResolveWindow_MonthBoundary(t *testing.T) {
	w, err := ResolveWindow(time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), w.ReportDate)
}

func TestResolveWindow_ZeroTrigger(t *testing.T) {
	_, err := ResolveWindow(time.Time{})
	assert.Error(t, err)
}
