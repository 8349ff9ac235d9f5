package service

import (
	"context"
	"testing"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestGetOrInitCreatesFullWeek(t *testing.T) {
	env := newServiceEnv(t)
	env.seedSetup(t, "2026-03-02", "2026-04-01", 90)

	svc := NewWeekService(env.uow)
	w, err := svc.GetOrInit(context.Background(), "2026-03-04")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", w.WeekKey)
	assert.Len(t, w.DayCaps, 7)
	for _, day := range domain.WeekDays("2026-03-02") {
		assert.Equal(t, 90, w.DayCaps[day])
	}
}

// A topic with three 10-minute subtopics against a 25-minute day: the first
// two fit, the third stays unplaced, and the entry moves to in progress.
func TestScheduleTopicPartialFit(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(3, 10)))

	svc := NewWeekService(env.uow)
	_, err := svc.PatchDay(ctx, "2026-03-02", intPtr(25), nil)
	require.NoError(t, err)

	result, err := svc.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, result.PlacedSub)
	assert.Equal(t, 20, result.PlacedMin)

	e := env.getEntry(t, "Q0001")
	assert.Equal(t, domain.QueueInProgress, e.State)
	assert.Equal(t, 20, e.ScheduledMin)
	require.Len(t, e.UnplacedSubtopics(), 1)
	assert.Equal(t, 2, e.UnplacedSubtopics()[0].SubIdx)
}

// Scheduling onto an off day is a benign no-op with a reason, not an error.
func TestScheduleTopicOffDayNoop(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(2, 10)))

	svc := NewWeekService(env.uow)
	_, err := svc.PatchDay(ctx, "2026-03-02", nil, boolPtr(true))
	require.NoError(t, err)

	result, err := svc.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)
	assert.False(t, result.Placed())
	assert.Contains(t, result.Reason, "off day")
	assert.Equal(t, domain.QueueQueued, env.getEntry(t, "Q0001").State)
}

// A whole-topic entry without subtopics is placed in one piece, or not at
// all when the day cannot hold it.
func TestScheduleWholeTopic(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithMinutes(45)))

	svc := NewWeekService(env.uow)
	_, err := svc.PatchDay(ctx, "2026-03-02", intPtr(40), nil)
	require.NoError(t, err)

	result, err := svc.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)
	assert.False(t, result.Placed())

	result, err = svc.ScheduleTopic(ctx, "2026-03-03", "Q0001")
	require.NoError(t, err)
	assert.Equal(t, []int{domain.WholeTopicIdx}, result.PlacedSub)
	assert.Equal(t, 45, result.PlacedMin)
	assert.Equal(t, domain.QueueInProgress, env.getEntry(t, "Q0001").State)
}

func TestScheduleSubtopicRejectsDoublePlacement(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(2, 10)))

	svc := NewWeekService(env.uow)
	_, err := svc.ScheduleSubtopic(ctx, "2026-03-02", "Q0001", 0)
	require.NoError(t, err)

	_, err = svc.ScheduleSubtopic(ctx, "2026-03-03", "Q0001", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already scheduled")

	_, err = svc.ScheduleSubtopic(ctx, "2026-03-03", "Q0001", 7)
	require.Error(t, err)
}

// Single-subtopic placement refuses entries that are no longer schedulable,
// so a removed entry can never acquire calendar slices.
func TestScheduleSubtopicSkipsRemovedEntry(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	removed := testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(2, 10), testutil.WithState(domain.QueueRemoved))
	env.seedEntry(t, removed)

	svc := NewWeekService(env.uow)
	result, err := svc.ScheduleSubtopic(ctx, "2026-03-02", "Q0001", 0)
	require.NoError(t, err)
	assert.False(t, result.Placed())
	assert.Contains(t, result.Reason, "removed")

	e := env.getEntry(t, "Q0001")
	assert.Empty(t, e.ScheduledDates)
	assert.Equal(t, domain.QueueRemoved, e.State)
}

func TestPatchDayPreconditions(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(3, 10)))

	svc := NewWeekService(env.uow)
	_, err := svc.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)

	// Cap below the 30 minutes already scheduled is rejected.
	_, err = svc.PatchDay(ctx, "2026-03-02", intPtr(20), nil)
	require.Error(t, err)

	// Marking a day with work as off is rejected.
	_, err = svc.PatchDay(ctx, "2026-03-02", nil, boolPtr(true))
	require.Error(t, err)

	// Raising the cap is fine.
	w, err := svc.PatchDay(ctx, "2026-03-02", intPtr(200), nil)
	require.NoError(t, err)
	assert.Equal(t, 200, w.DayCaps["2026-03-02"])
}

// Packing spreads the remaining subtopics across the week in day order,
// skipping off days.
func TestScheduleTopicPackSkipsOffDays(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(6, 10)))

	svc := NewWeekService(env.uow)
	// Two subtopics fit per day.
	for _, day := range domain.WeekDays("2026-03-02") {
		_, err := svc.PatchDay(ctx, day, intPtr(20), nil)
		require.NoError(t, err)
	}
	_, err := svc.PatchDay(ctx, "2026-03-03", nil, boolPtr(true))
	require.NoError(t, err)

	result, err := svc.ScheduleTopicPack(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)
	assert.Len(t, result.PlacedSub, 6)
	assert.Equal(t, []string{"2026-03-02", "2026-03-04", "2026-03-05"}, result.Days)

	e := env.getEntry(t, "Q0001")
	assert.Equal(t, []int{0, 1}, e.ScheduledDates["2026-03-02"])
	assert.Empty(t, e.ScheduledDates["2026-03-03"])
	assert.Equal(t, []int{4, 5}, e.ScheduledDates["2026-03-05"])
}

// Auto-fill drains the queue into the week's free capacity without ever
// exceeding any day's cap, preferring started entries over fresh ones.
func TestAutoFillRespectsCapacityAndOrdering(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedSetup(t, "2026-03-02", "2026-04-01", 30)

	started := testutil.NewQueueEntry("Q0002", testutil.WithSubtopics(3, 10))
	started.CompletedSub[0] = true
	started.State = domain.QueueInProgress
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(4, 10)))
	env.seedEntry(t, started)

	svc := NewWeekService(env.uow)
	result, err := svc.AutoFill(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 2, result.EntriesTouched)

	w := env.getWeek(t, "2026-03-02")
	for _, day := range domain.WeekDays("2026-03-02") {
		assert.LessOrEqual(t, w.UsedMin(day), w.DayCaps[day], "day %s over capacity", day)
	}

	// The in-progress entry's remaining subtopics were placed first: both
	// land on the first day, before the fresh entry gets a turn.
	inProgress := env.getEntry(t, "Q0002")
	assert.Empty(t, inProgress.UnplacedSubtopics())
	assert.Len(t, w.SlicesForEntry("2026-03-02", "Q0002"), 2)
	assert.Len(t, w.SlicesForEntry("2026-03-02", "Q0001"), 1)
}

// Moving a topic forward clears its slices from the day and re-places them
// on later days, spilling into the next week when this one has no room.
func TestMoveTopicForwardSpillsIntoNextWeek(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(2, 10)))
	blocker := testutil.NewQueueEntry("Q0002", testutil.WithSubtopics(12, 10))
	env.seedEntry(t, blocker)

	svc := NewWeekService(env.uow)
	// Saturday placement; Sunday is the only later day this week.
	_, err := svc.ScheduleTopic(ctx, "2026-03-07", "Q0001")
	require.NoError(t, err)
	// Fill Sunday completely so the move has to spill.
	_, err = svc.PatchDay(ctx, "2026-03-08", intPtr(120), nil)
	require.NoError(t, err)
	_, err = svc.ScheduleTopic(ctx, "2026-03-08", "Q0002")
	require.NoError(t, err)

	result, err := svc.MoveTopicForward(ctx, "2026-03-07", "Q0001")
	require.NoError(t, err)
	require.True(t, result.Placed())
	assert.Equal(t, []string{"2026-03-09"}, result.Days)

	e := env.getEntry(t, "Q0001")
	assert.Empty(t, e.ScheduledDates["2026-03-07"])
	assert.Equal(t, []int{0, 1}, e.ScheduledDates["2026-03-09"])

	next := env.getWeek(t, "2026-03-09")
	assert.Len(t, next.Assigned["2026-03-09"], 2)
}

// Moving a topic forward re-places only the work displaced from that day;
// subtopics that were never scheduled stay in the backlog.
func TestMoveTopicForwardMovesOnlyDisplacedWork(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.seedEntry(t, testutil.NewQueueEntry("Q0001", testutil.WithSubtopics(3, 10)))

	svc := NewWeekService(env.uow)
	// Monday holds subtopics 0 and 1; subtopic 2 never gets a day.
	_, err := svc.PatchDay(ctx, "2026-03-02", intPtr(25), nil)
	require.NoError(t, err)
	_, err = svc.ScheduleTopic(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)

	result, err := svc.MoveTopicForward(ctx, "2026-03-02", "Q0001")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, result.PlacedSub)
	assert.Equal(t, []string{"2026-03-03"}, result.Days)

	e := env.getEntry(t, "Q0001")
	assert.Equal(t, 20, e.ScheduledMin)
	assert.Empty(t, e.ScheduledDates["2026-03-02"])
	assert.Equal(t, []int{0, 1}, e.ScheduledDates["2026-03-03"])
	require.Len(t, e.UnplacedSubtopics(), 1)
	assert.Equal(t, 2, e.UnplacedSubtopics()[0].SubIdx)
}
