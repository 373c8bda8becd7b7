package store

import (
	"testing"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryDailyAndWeekly(t *testing.T) {
	env := newTestEnv(t)
	// Wednesday May 15 2024; the week started Monday May 13.
	now := dayAt(2024, time.May, 15, 18)

	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Total: 10, LastUpdated: dayAt(2024, time.May, 15, 12)})
	env.seedOrder(t, models.Order{Status: models.StatusEntregada, IsPaid: true, Total: 5, LastUpdated: dayAt(2024, time.May, 15, 14)})
	env.seedOrder(t, models.Order{Status: models.StatusCancelada, Archived: true, Total: 3, LastUpdated: dayAt(2024, time.May, 15, 9)})
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Total: 8, LastUpdated: dayAt(2024, time.May, 13, 10)})
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Total: 7, LastUpdated: dayAt(2024, time.May, 10, 10)})
	// Unpaid active orders never count.
	env.seedOrder(t, models.Order{Status: models.StatusPendiente, Total: 99, LastUpdated: dayAt(2024, time.May, 15, 11)})
	env.seedOrder(t, models.Order{Status: models.StatusEntregada, Total: 42, LastUpdated: dayAt(2024, time.May, 15, 11)})

	summary, err := env.reports.Summary(now)
	require.NoError(t, err)

	assert.Equal(t, 18.0, summary.DailyTotal)
	assert.Equal(t, 3, summary.DailyCount)
	assert.Equal(t, 26.0, summary.WeeklyTotal)
	assert.Equal(t, 4, summary.WeeklyCount)
}

func TestSummaryExcludesFutureOrders(t *testing.T) {
	env := newTestEnv(t)
	now := dayAt(2024, time.May, 15, 18)

	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Total: 10, LastUpdated: dayAt(2024, time.May, 15, 12)})
	// A restored backup can carry timestamps past the current week; those
	// belong to history, not to this week's figure.
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Total: 50, LastUpdated: dayAt(2024, time.May, 25, 12)})

	summary, err := env.reports.Summary(now)
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.DailyTotal)
	assert.Equal(t, 10.0, summary.WeeklyTotal)
	assert.Equal(t, 1, summary.WeeklyCount)
}

func TestHistoricalBuckets(t *testing.T) {
	env := newTestEnv(t)

	// Two days in March 2024, one in February.
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 10, LastUpdated: dayAt(2024, time.March, 4, 12)})
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 6, LastUpdated: dayAt(2024, time.March, 4, 15)})
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 4, LastUpdated: dayAt(2024, time.March, 20, 12)})
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 9, LastUpdated: dayAt(2024, time.February, 10, 12)})
	// A record without a usable date stays out of the breakdown.
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 1})

	months, err := env.reports.Historical()
	require.NoError(t, err)
	require.Len(t, months, 2)

	march := months[0]
	assert.Equal(t, 2024, march.Year)
	assert.Equal(t, 3, march.Month)
	assert.Equal(t, "marzo", march.Label)
	assert.Equal(t, 20.0, march.Total)

	feb := months[1]
	assert.Equal(t, 2, feb.Month)
	assert.Equal(t, 9.0, feb.Total)

	// Weeks newest-first: March 20 falls in a later week than March 4.
	require.Len(t, march.Weeks, 2)
	assert.Greater(t, march.Weeks[0].Week, march.Weeks[1].Week)
	assert.Equal(t, 4.0, march.Weeks[0].Total)
	assert.Equal(t, 16.0, march.Weeks[1].Total)

	// Orders within a day are newest-first.
	day := march.Weeks[1].Days[0]
	require.Len(t, day.Orders, 2)
	assert.True(t, day.Orders[0].LastUpdated.After(day.Orders[1].LastUpdated))
	assert.Equal(t, 16.0, day.Total)
}

func TestHistoricalDeduplicatesById(t *testing.T) {
	env := newTestEnv(t)
	order := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Total: 12, LastUpdated: dayAt(2024, time.June, 1, 12)})

	months, err := env.reports.Historical()
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, 12.0, months[0].Total)

	// Archiving the same order must not double-count it.
	require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("archived", true).Error)
	months, err = env.reports.Historical()
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, 12.0, months[0].Total)
}

func TestClearArchivedMonth(t *testing.T) {
	env := newTestEnv(t)
	march := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 10, LastUpdated: dayAt(2024, time.March, 12, 12)})
	april := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 5, LastUpdated: dayAt(2024, time.April, 2, 12)})
	undated := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, Total: 1})

	removed, err := env.reports.ClearArchivedMonth("2024-3", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := env.orders.Archived()
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, o := range remaining {
		ids[o.ID] = true
	}
	assert.False(t, ids[march.ID])
	assert.True(t, ids[april.ID])
	// A record with no usable date is never swept away with a month.
	assert.True(t, ids[undated.ID])
}

func TestClearArchivedMonthBadKeys(t *testing.T) {
	env := newTestEnv(t)

	for _, key := range []string{"", "2024", "marzo-2024", "2024-0", "2024-13", "x-3"} {
		_, err := env.reports.ClearArchivedMonth(key, "c")
		assert.ErrorIs(t, err, ErrBadMonthKey, "key %q", key)
	}
}

func TestClearArchived(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, Archived: true, LastUpdated: dayAt(2024, time.March, 12, 12)})
	env.seedOrder(t, models.Order{Status: models.StatusCancelada, Archived: true, LastUpdated: dayAt(2024, time.April, 1, 12)})
	active := env.seedOrder(t, models.Order{Status: models.StatusPendiente, LastUpdated: dayAt(2024, time.April, 2, 12)})

	require.NoError(t, env.reports.ClearArchived("c"))

	archived, err := env.orders.Archived()
	require.NoError(t, err)
	assert.Empty(t, archived)

	remaining, err := env.orders.Active()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, active.ID, remaining[0].ID)
}
