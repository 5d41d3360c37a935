package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/content-publishing-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordDays appends n events on day i for i = 1..days
func (f *fixture) recordDays(days int) {
	for i := 1; i <= days; i++ {
		for n := 0; n < i; n++ {
			f.views.Events = append(f.views.Events, models.ViewEvent{Date: fmt.Sprintf("2024-01-%02d", i)})
		}
	}
}

func TestPageViewService_RecentViewSeries(t *testing.T) {
	tests := []struct {
		name       string
		days       int
		wantDates  []string
		wantCounts []int
	}{
		{
			name: "nine days keeps the seven most recent in ascending order",
			days: 9,
			wantDates: []string{
				"2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06",
				"2024-01-07", "2024-01-08", "2024-01-09",
			},
			wantCounts: []int{3, 4, 5, 6, 7, 8, 9},
		},
		{
			name:       "three days returns only those",
			days:       3,
			wantDates:  []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			wantCounts: []int{1, 2, 3},
		},
		{
			name:       "no events",
			days:       0,
			wantDates:  []string{},
			wantCounts: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.recordDays(tt.days)

			series, err := f.svc.PageView.RecentViewSeries(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantDates, series.Dates)
			assert.Equal(t, tt.wantCounts, series.Counts)
		})
	}
}

func TestPageViewService_NoZeroFill(t *testing.T) {
	f := newFixture(t)
	f.views.Events = []models.ViewEvent{
		{Date: "2024-01-01"},
		{Date: "2024-01-10"},
		{Date: "2024-01-10"},
	}

	series, err := f.svc.PageView.RecentViewSeries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-10"}, series.Dates)
	assert.Equal(t, []int{1, 2}, series.Counts)
}

func TestPageViewService_RecordVisit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)

	require.NoError(t, f.svc.PageView.RecordVisit(ctx, day))
	require.NoError(t, f.svc.PageView.RecordVisit(ctx, day))

	series, err := f.svc.PageView.RecentViewSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-29"}, series.Dates)
	assert.Equal(t, []int{2}, series.Counts)
}

func TestPageViewService_RecordVisitUsesUTCDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 23:30 in New York on Feb 29 is already Mar 1 in UTC
	newYork := time.FixedZone("EST", -5*60*60)
	require.NoError(t, f.svc.PageView.RecordVisit(ctx, time.Date(2024, 2, 29, 23, 30, 0, 0, newYork)))
	// 00:30 in Tokyo on Mar 2 is still Mar 1 in UTC
	tokyo := time.FixedZone("JST", 9*60*60)
	require.NoError(t, f.svc.PageView.RecordVisit(ctx, time.Date(2024, 3, 2, 0, 30, 0, 0, tokyo)))

	require.Len(t, f.views.Events, 2)
	assert.Equal(t, "2024-03-01", f.views.Events[0].Date)
	assert.Equal(t, "2024-03-01", f.views.Events[1].Date)
}
