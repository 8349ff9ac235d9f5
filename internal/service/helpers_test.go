package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
	"github.com/njovanovic/studyplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

type serviceEnv struct {
	db    *sql.DB
	uow   db.UnitOfWork
	queue *repository.SQLiteQueueRepo
	weeks *repository.SQLiteWeekRepo
	items *repository.SQLiteStudyItemRepo
	meta  *repository.SQLitePlanMetaRepo
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &serviceEnv{
		db:    database,
		uow:   testutil.NewTestUoW(database),
		queue: repository.NewSQLiteQueueRepo(database),
		weeks: repository.NewSQLiteWeekRepo(database),
		items: repository.NewSQLiteStudyItemRepo(database),
		meta:  repository.NewSQLitePlanMetaRepo(database),
	}
}

// seedItem writes one study item directly into the projection.
func (env *serviceEnv) seedItem(t *testing.T, level domain.Level, section, id, parentID, name string, order, minutes int) {
	t.Helper()
	err := env.items.Upsert(context.Background(), &domain.StudyItem{
		Section:      section,
		ItemID:       id,
		Level:        level,
		ParentID:     parentID,
		Name:         name,
		Order:        order,
		Category:     domain.CategoryGood,
		EstimatedMin: minutes,
		UpdatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
}

// seedTopicTree seeds a chapter with one topic and n atomic subtopics.
func (env *serviceEnv) seedTopicTree(t *testing.T, section, chapterID, topicID string, nSubs int) {
	t.Helper()
	env.seedItem(t, domain.LevelChapter, section, chapterID, "", "Chapter "+chapterID, 1, 0)
	env.seedItem(t, domain.LevelTopic, section, topicID, chapterID, "Topic "+topicID, 1, 0)
	for i := 0; i < nSubs; i++ {
		env.seedItem(t, domain.LevelSubtopic, section, topicID+"-s"+string(rune('a'+i)), topicID,
			"Sub "+string(rune('a'+i)), i+1, domain.SubtopicAtomicMin)
	}
}

// seedEntry writes a queue entry straight into the store.
func (env *serviceEnv) seedEntry(t *testing.T, e *domain.QueueEntry) {
	t.Helper()
	require.NoError(t, env.queue.Create(context.Background(), e))
}

// seedSetup configures plan meta the way PlanService.Setup would.
func (env *serviceEnv) seedSetup(t *testing.T, startDate, examDate string, dailyMin int) {
	t.Helper()
	require.NoError(t, env.meta.Save(context.Background(), &domain.PlanMeta{
		ID:                domain.DefaultPlanMetaID,
		StartDate:         startDate,
		ExamDate:          examDate,
		DailyMin:          dailyMin,
		CurrentDay:        startDate,
		HasCompletedSetup: true,
		UpdatedAt:         time.Now().UTC(),
	}))
}

func (env *serviceEnv) getEntry(t *testing.T, seq string) *domain.QueueEntry {
	t.Helper()
	e, err := env.queue.Get(context.Background(), seq)
	require.NoError(t, err)
	return e
}

func (env *serviceEnv) getWeek(t *testing.T, weekKey string) *domain.WeekPlan {
	t.Helper()
	w, err := env.weeks.Get(context.Background(), weekKey)
	require.NoError(t, err)
	return w
}
