package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
)

// fallbackDailyMin is used when a week must be created before plan setup
// has recorded a daily budget.
const fallbackDailyMin = 120

// txRepos bundles the transaction-scoped repositories the scheduling
// operations work with.
type txRepos struct {
	queue *repository.SQLiteQueueRepo
	weeks *repository.SQLiteWeekRepo
	meta  *repository.SQLitePlanMetaRepo
	items *repository.SQLiteStudyItemRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		queue: repository.NewSQLiteQueueRepo(tx),
		weeks: repository.NewSQLiteWeekRepo(tx),
		meta:  repository.NewSQLitePlanMetaRepo(tx),
		items: repository.NewSQLiteStudyItemRepo(tx),
	}
}

// getOrInitWeek loads the week plan, creating it with all 7 days carrying
// the learner's default daily budget when it does not exist yet.
func getOrInitWeek(ctx context.Context, r txRepos, weekKey string, now time.Time) (*domain.WeekPlan, bool, error) {
	w, err := r.weeks.Get(ctx, weekKey)
	if err == nil {
		return w, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	dailyMin := fallbackDailyMin
	if meta, metaErr := r.meta.Get(ctx); metaErr == nil && meta.DailyMin > 0 {
		dailyMin = meta.DailyMin
	}
	w = domain.NewWeekPlan(weekKey, dailyMin, now)
	if err := r.weeks.Create(ctx, w); err != nil {
		return nil, false, err
	}
	return w, true, nil
}

// placeSubtopics writes slices for the given subtopics on day and records
// the placement on the entry. The caller has already verified capacity.
func placeSubtopics(ctx context.Context, r txRepos, w *domain.WeekPlan, e *domain.QueueEntry, day string, subs []domain.Subtopic) error {
	for _, st := range subs {
		idx := st.SubIdx
		slice := &domain.ScheduleSlice{
			ID:          uuid.New().String(),
			WeekKey:     w.WeekKey,
			Day:         day,
			EntrySeq:    e.Seq,
			TopicID:     e.TopicID,
			SubIdx:      &idx,
			SubID:       st.ItemID,
			Minutes:     st.Minutes,
			Section:     e.Section,
			ChapterID:   e.ChapterID,
			ChapterName: e.ChapterName,
			Title:       st.Name,
			Status:      domain.SliceScheduled,
		}
		if err := r.weeks.InsertSlice(ctx, slice); err != nil {
			return err
		}
		w.Assigned[day] = append(w.Assigned[day], *slice)
		e.ScheduledDates[day] = append(e.ScheduledDates[day], st.SubIdx)
	}
	return nil
}

// placeWholeTopic writes a single whole-topic slice for an entry without
// subtopics.
func placeWholeTopic(ctx context.Context, r txRepos, w *domain.WeekPlan, e *domain.QueueEntry, day string) error {
	slice := &domain.ScheduleSlice{
		ID:          uuid.New().String(),
		WeekKey:     w.WeekKey,
		Day:         day,
		EntrySeq:    e.Seq,
		TopicID:     e.TopicID,
		Minutes:     e.Minutes,
		Section:     e.Section,
		ChapterID:   e.ChapterID,
		ChapterName: e.ChapterName,
		Title:       e.TopicName,
		Status:      domain.SliceScheduled,
	}
	if err := r.weeks.InsertSlice(ctx, slice); err != nil {
		return err
	}
	w.Assigned[day] = append(w.Assigned[day], *slice)
	e.ScheduledDates[day] = append(e.ScheduledDates[day], domain.WholeTopicIdx)
	return nil
}

// saveEntry refreshes derived fields and persists the entry.
func saveEntry(ctx context.Context, r txRepos, e *domain.QueueEntry) error {
	e.RecomputeMinutes()
	e.DeriveState()
	e.UpdatedAt = time.Now().UTC()
	return r.queue.Save(ctx, e)
}

// subIdxList flattens placed subtopics into their indices.
func subIdxList(subs []domain.Subtopic) []int {
	idxs := make([]int, len(subs))
	for i, st := range subs {
		idxs[i] = st.SubIdx
	}
	return idxs
}
