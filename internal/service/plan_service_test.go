package service

import (
	"context"
	"errors"
	"testing"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSetup(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	svc := NewPlanService(env.meta, env.uow)
	meta, err := svc.Setup(ctx, "2026-03-02", "2026-04-01", 90)
	require.NoError(t, err)
	assert.True(t, meta.HasCompletedSetup)
	assert.Equal(t, "2026-03-02", meta.CurrentDay)
	assert.Equal(t, 29, meta.AvailableStudyDays())

	// The first week exists immediately.
	w := env.getWeek(t, "2026-03-02")
	assert.Equal(t, 90, w.DefaultDailyMin)
}

func TestPlanSetupValidation(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewPlanService(env.meta, env.uow)

	_, err := svc.Setup(ctx, "bad", "2026-04-01", 90)
	require.Error(t, err)
	_, err = svc.Setup(ctx, "2026-03-02", "bad", 90)
	require.Error(t, err)
	_, err = svc.Setup(ctx, "2026-04-01", "2026-03-02", 90)
	require.Error(t, err)
	_, err = svc.Setup(ctx, "2026-03-02", "2026-03-02", 90)
	require.Error(t, err)
	_, err = svc.Setup(ctx, "2026-03-02", "2026-04-01", 0)
	require.Error(t, err)
}

// Re-running setup adjusts the window but keeps an already-advanced pointer.
func TestPlanSetupKeepsPointer(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewPlanService(env.meta, env.uow)

	_, err := svc.Setup(ctx, "2026-03-02", "2026-04-01", 90)
	require.NoError(t, err)

	lifecycle := NewLifecycleService(env.uow)
	_, err = lifecycle.CompleteDay(ctx, "2026-03-02")
	require.NoError(t, err)

	meta, err := svc.Setup(ctx, "2026-03-02", "2026-05-01", 60)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", meta.CurrentDay)
	assert.Equal(t, 60, meta.DailyMin)
}

func TestPlanResetClearsEverything(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	svc := NewPlanService(env.meta, env.uow)
	_, err := svc.Setup(ctx, "2026-03-02", "2026-04-01", 90)
	require.NoError(t, err)

	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(2, 10)))
	weeks := NewWeekService(env.uow)
	_, err = weeks.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	meta, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, meta.HasCompletedSetup)
	assert.Empty(t, meta.CurrentDay)

	count, err := env.queue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = env.weeks.Get(ctx, "2026-03-02")
	require.Error(t, err)
}

// A mid-transaction failure rolls the whole queue build back: no partial
// queue is left behind.
func TestQueueBuildRollsBackOnFailure(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedTopicTree(t, "anatomy", "ch1", "t1", 2)

	boom := errors.New("boom")
	failing := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: boom}
	svc := NewQueueService(env.queue, failing)

	_, err := svc.Build(ctx)
	require.ErrorIs(t, err, boom)

	count, err := env.queue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDayBudgetRequiresSetup(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewDayBudgetService(env.items, env.meta, 2)

	_, err := svc.Allocate(context.Background(), DayBudgetRequest{})
	require.ErrorIs(t, err, ErrSetupIncomplete)
}

// Day budgets derive section weights from chapter counts and honor locks.
func TestDayBudgetAllocate(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedSetup(t, "2026-03-02", "2026-03-12", 120) // 9 study days

	env.seedItem(t, domain.LevelChapter, "anatomy", "a1", "", "Thorax", 1, 0)
	env.seedItem(t, domain.LevelChapter, "anatomy", "a2", "", "Abdomen", 2, 0)
	env.seedItem(t, domain.LevelChapter, "biochem", "b1", "", "Metabolism", 1, 0)

	svc := NewDayBudgetService(env.items, env.meta, 2)
	result, err := svc.Allocate(ctx, DayBudgetRequest{
		LockedDays: map[string]int{"biochem": 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Budgets["biochem"])
	assert.Equal(t, 6, result.Budgets["anatomy"])
	assert.Equal(t, 0, result.Dropped["anatomy"])
	assert.Len(t, result.Days, 9)
}
