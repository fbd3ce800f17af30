package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/opencfp/schedule-engine/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestScheduleDaysParisEvent(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	start := time.Date(2025, time.June, 10, 9, 0, 0, 0, paris)
	end := time.Date(2025, time.June, 12, 18, 0, 0, 0, paris)

	days := ScheduleDays(start, end, paris)

	require.Len(t, days, 3)
	assert.True(t, days[0].Equal(time.Date(2025, time.June, 10, 0, 0, 0, 0, paris)))
	assert.True(t, days[1].Equal(time.Date(2025, time.June, 11, 0, 0, 0, 0, paris)))
	assert.True(t, days[2].Equal(time.Date(2025, time.June, 12, 0, 0, 0, 0, paris)))
}

func TestScheduleDaysSingleDay(t *testing.T) {
	start := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC)

	days := ScheduleDays(start, end, time.UTC)
	require.Len(t, days, 1)
	assert.True(t, days[0].Equal(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)))
}

func TestScheduleDaysAcrossDSTTransition(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// Spans the 2025-03-30 spring-forward: day count is calendar days,
	// not elapsed-hours / 24.
	start := time.Date(2025, time.March, 29, 9, 0, 0, 0, paris)
	end := time.Date(2025, time.March, 31, 18, 0, 0, 0, paris)

	days := ScheduleDays(start, end, paris)

	require.Len(t, days, 3)
	for i, day := range days {
		assert.Equal(t, 0, day.Hour(), "day %d must start at local midnight", i)
	}
}

func TestScheduleDaysInvertedSpan(t *testing.T) {
	start := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, ScheduleDays(start, end, time.UTC))
}

func TestDisplayedDays(t *testing.T) {
	days := ScheduleDays(
		time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
		time.UTC,
	)
	require.Len(t, days, 5)

	// Absent end defaults to a single-day view.
	single, err := DisplayedDays(days, DayRange{Start: 2})
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.True(t, single[0].Equal(days[2]))

	sub, err := DisplayedDays(days, DayRange{Start: 1, End: intPtr(3)})
	require.NoError(t, err)
	require.Len(t, sub, 3)
	assert.True(t, sub[0].Equal(days[1]))
	assert.True(t, sub[2].Equal(days[3]))
}

func TestDisplayedDaysValidatesOrdinals(t *testing.T) {
	days := ScheduleDays(
		time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		time.UTC,
	)

	_, err := DisplayedDays(days, DayRange{Start: 3})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = DisplayedDays(days, DayRange{Start: -1})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = DisplayedDays(days, DayRange{Start: 2, End: intPtr(1)})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = DisplayedDays(days, DayRange{Start: 0, End: intPtr(3)})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestNewWindowValidatesInvariants(t *testing.T) {
	eventStart := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	eventEnd := time.Date(2025, time.June, 12, 18, 0, 0, 0, time.UTC)

	window, err := NewWindow(eventStart, eventEnd, eventStart, eventEnd, 480, 1080)
	require.NoError(t, err)
	startMinute, endMinute := window.MinuteWindow()
	assert.Equal(t, 480, startMinute)
	assert.Equal(t, 1080, endMinute)

	_, err = NewWindow(eventStart, eventEnd, eventStart.Add(-time.Hour), eventEnd, 480, 1080)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation), "display before event start")

	_, err = NewWindow(eventStart, eventEnd, eventStart, eventEnd.Add(time.Hour), 480, 1080)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation), "display past event end")

	_, err = NewWindow(eventStart, eventEnd, eventStart, eventEnd, 1080, 480)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation), "inverted minute window")

	_, err = NewWindow(eventStart, eventEnd, eventStart, eventEnd, 0, 1500)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation), "minutes past 1439")

	_, err = NewWindow(eventEnd, eventStart, eventEnd, eventStart, 0, 1439)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation), "inverted event span")
}
