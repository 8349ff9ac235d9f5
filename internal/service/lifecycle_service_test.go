package service

import (
	"context"
	"testing"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Completing a day that holds the last unplaced subtopic of an entry flips
// it to done with the full topic minutes completed.
func TestCompleteDayFinishesEntry(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedSetup(t, "2026-03-02", "2026-04-01", 120)

	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(3, 10)))
	weeks := NewWeekService(env.uow)
	_, err := weeks.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)
	require.Equal(t, domain.QueueInProgress, env.getEntry(t, "Q0001").State)

	svc := NewLifecycleService(env.uow)
	result, err := svc.CompleteDay(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, result.EntriesTouched)
	assert.Equal(t, 30, result.CompletedMin)
	assert.Equal(t, "2026-03-03", result.NextDay)

	e := env.getEntry(t, "Q0001")
	assert.Equal(t, domain.QueueDone, e.State)
	assert.Equal(t, 30, e.CompletedMin)
	assert.Empty(t, e.ScheduledDates)

	// The day is sealed and its slices are marked completed.
	w := env.getWeek(t, "2026-03-02")
	assert.True(t, w.DoneDays["2026-03-02"])
	for _, s := range w.Assigned["2026-03-02"] {
		assert.True(t, s.Completed)
	}
}

// Completing the same day twice is an idempotent no-op: nothing is counted
// twice and the pointer does not move again.
func TestCompleteDayIdempotent(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedSetup(t, "2026-03-02", "2026-04-01", 120)

	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(2, 10)))
	weeks := NewWeekService(env.uow)
	_, err := weeks.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)

	svc := NewLifecycleService(env.uow)
	first, err := svc.CompleteDay(ctx, "2026-03-02")
	require.NoError(t, err)
	require.False(t, first.AlreadyDone)

	second, err := svc.CompleteDay(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.True(t, second.AlreadyDone)
	assert.Equal(t, 0, second.CompletedMin)

	assert.Equal(t, 20, env.getEntry(t, "Q0001").CompletedMin)
}

// The current-day pointer only moves forward: completing an older day after
// a newer one never rewinds the plan.
func TestCompleteDayPointerNeverRewinds(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedSetup(t, "2026-03-02", "2026-04-01", 120)

	svc := NewLifecycleService(env.uow)
	_, err := svc.CompleteDay(ctx, "2026-03-04")
	require.NoError(t, err)
	meta, err := env.meta.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", meta.CurrentDay)

	_, err = svc.CompleteDay(ctx, "2026-03-02")
	require.NoError(t, err)
	meta, err = env.meta.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", meta.CurrentDay)
}

// Completing the last day of a week opens the next week with all 7 days
// carrying the default daily budget, and the pointer lands on its first day.
func TestCompleteLastDayOfWeekCreatesNextWeek(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedSetup(t, "2026-03-02", "2026-04-01", 75)

	svc := NewLifecycleService(env.uow)
	result, err := svc.CompleteDay(ctx, "2026-03-08") // Sunday
	require.NoError(t, err)
	assert.True(t, result.NewWeekCreated)
	assert.Equal(t, "2026-03-09", result.NextDay)

	next := env.getWeek(t, "2026-03-09")
	assert.Len(t, next.DayCaps, 7)
	for _, day := range domain.WeekDays("2026-03-09") {
		assert.Equal(t, 75, next.DayCaps[day])
	}

	meta, err := env.meta.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", meta.CurrentDay)
}

// Completing a mid-week day does not create a new week.
func TestCompleteMidWeekDayDoesNotCreateWeek(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedSetup(t, "2026-03-02", "2026-04-01", 120)

	svc := NewLifecycleService(env.uow)
	result, err := svc.CompleteDay(ctx, "2026-03-04")
	require.NoError(t, err)
	assert.False(t, result.NewWeekCreated)

	_, err = env.weeks.Get(ctx, "2026-03-09")
	require.Error(t, err)
}
