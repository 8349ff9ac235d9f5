package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlice(weekKey, day, entrySeq string, subIdx *int, minutes int) *domain.ScheduleSlice {
	return &domain.ScheduleSlice{
		ID:          uuid.New().String(),
		WeekKey:     weekKey,
		Day:         day,
		EntrySeq:    entrySeq,
		TopicID:     "top-1",
		SubIdx:      subIdx,
		Minutes:     minutes,
		Section:     "anatomy",
		ChapterID:   "ch-1",
		ChapterName: "Chapter One",
		Title:       "Some subtopic",
		Status:      domain.SliceScheduled,
	}
}

func TestWeekRepoCreateGetRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekRepo(database)
	ctx := context.Background()

	w := testutil.NewWeekPlan("2026-03-02", 120,
		testutil.WithDayCap("2026-03-04", 60),
		testutil.WithOffDay("2026-03-08"))
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.Get(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 120, got.DefaultDailyMin)
	assert.Len(t, got.DayCaps, 7)
	assert.Equal(t, 60, got.DayCaps["2026-03-04"])
	assert.Equal(t, 120, got.DayCaps["2026-03-03"])
	assert.True(t, got.OffDays["2026-03-08"])
	assert.False(t, got.DoneDays["2026-03-02"])
}

func TestWeekRepoGetNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekRepo(database)

	_, err := repo.Get(context.Background(), "2026-03-02")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWeekRepoSetDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewWeekPlan("2026-03-02", 120)))
	require.NoError(t, repo.SetDay(ctx, "2026-03-02", "2026-03-03", 90, true, false))

	got, err := repo.Get(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 90, got.DayCaps["2026-03-03"])
	assert.True(t, got.OffDays["2026-03-03"])

	err = repo.SetDay(ctx, "2026-03-02", "2026-04-01", 90, false, false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWeekRepoSlicesRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewWeekPlan("2026-03-02", 120)))

	idx := 2
	require.NoError(t, repo.InsertSlice(ctx, testSlice("2026-03-02", "2026-03-03", "Q0001", &idx, 10)))
	require.NoError(t, repo.InsertSlice(ctx, testSlice("2026-03-02", "2026-03-03", "Q0001", nil, 45)))

	got, err := repo.Get(ctx, "2026-03-02")
	require.NoError(t, err)
	slices := got.Assigned["2026-03-03"]
	require.Len(t, slices, 2)
	assert.Equal(t, 55, got.UsedMin("2026-03-03"))

	var withIdx, wholeTopic int
	for _, s := range slices {
		if s.SubIdx != nil {
			withIdx++
			assert.Equal(t, 2, *s.SubIdx)
		} else {
			wholeTopic++
		}
	}
	assert.Equal(t, 1, withIdx)
	assert.Equal(t, 1, wholeTopic)
}

func TestWeekRepoDeleteEntrySlicesSkipsCompleted(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewWeekPlan("2026-03-02", 120)))

	idx0, idx1 := 0, 1
	done := testSlice("2026-03-02", "2026-03-03", "Q0001", &idx0, 10)
	done.Completed = true
	done.Status = domain.SliceCompleted
	require.NoError(t, repo.InsertSlice(ctx, done))
	require.NoError(t, repo.InsertSlice(ctx, testSlice("2026-03-02", "2026-03-03", "Q0001", &idx1, 10)))

	require.NoError(t, repo.DeleteEntrySlices(ctx, "2026-03-02", "2026-03-03", "Q0001"))

	got, err := repo.Get(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, got.Assigned["2026-03-03"], 1)
	assert.True(t, got.Assigned["2026-03-03"][0].Completed)
}

func TestWeekRepoCompleteDaySlices(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewWeekPlan("2026-03-02", 120)))
	idx := 0
	require.NoError(t, repo.InsertSlice(ctx, testSlice("2026-03-02", "2026-03-03", "Q0001", &idx, 10)))

	completedAt := time.Now().UTC().Format(time.RFC3339)
	require.NoError(t, repo.CompleteDaySlices(ctx, "2026-03-02", "2026-03-03", completedAt))

	got, err := repo.Get(ctx, "2026-03-02")
	require.NoError(t, err)
	s := got.Assigned["2026-03-03"][0]
	assert.True(t, s.Completed)
	assert.Equal(t, domain.SliceCompleted, s.Status)
	assert.Equal(t, 100, s.PercentComplete)
	require.NotNil(t, s.CompletedAt)
}
