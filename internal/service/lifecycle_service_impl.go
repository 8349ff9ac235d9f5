package service

import (
	"context"
	"errors"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
)

type lifecycleService struct {
	uow db.UnitOfWork
	obs UseCaseObserver
}

// NewLifecycleService creates a LifecycleService.
func NewLifecycleService(uow db.UnitOfWork, observers ...UseCaseObserver) LifecycleService {
	return &lifecycleService{uow: uow, obs: useCaseObserverOrNoop(observers)}
}

// CompleteDay finalizes one calendar day: every slice on it is marked
// completed, the owning queue entries absorb the completion, the day is
// sealed, and the plan's current-day pointer advances. Completing a day
// twice is an idempotent no-op.
func (s *lifecycleService) CompleteDay(ctx context.Context, day string) (result *CompleteDayResult, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{"day": day}
		if result != nil {
			fields["already_done"] = result.AlreadyDone
			fields["completed_min"] = result.CompletedMin
		}
		observe(ctx, s.obs, "day_complete", start, err, fields)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		now := time.Now().UTC()
		weekKey := domain.WeekKeyFor(day)
		w, _, err := getOrInitWeek(ctx, r, weekKey, now)
		if err != nil {
			return err
		}
		if w.DoneDays[day] {
			result = &CompleteDayResult{Day: day, AlreadyDone: true}
			return nil
		}

		res := &CompleteDayResult{Day: day}
		for _, seq := range entrySeqsOnDay(w, day) {
			e, err := r.queue.Get(ctx, seq)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return err
			}
			completed := s.completeEntryDay(e, day)
			if completed == 0 {
				continue
			}
			if err := saveEntry(ctx, r, e); err != nil {
				return err
			}
			res.EntriesTouched++
			res.CompletedMin += completed
		}

		if err := r.weeks.CompleteDaySlices(ctx, weekKey, day, now.Format(time.RFC3339)); err != nil {
			return err
		}
		if err := r.weeks.SetDay(ctx, weekKey, day, w.DayCaps[day], w.OffDays[day], true); err != nil {
			return err
		}

		next := domain.NextDay(day)
		res.NextDay = next
		if err := s.advancePointer(ctx, r, next, now); err != nil {
			return err
		}

		// Completing the last day of a week opens the next one so the
		// pointer always lands on an existing day.
		if day == domain.LastDayOfWeek(weekKey) {
			_, created, err := getOrInitWeek(ctx, r, domain.WeekKeyFor(next), now)
			if err != nil {
				return err
			}
			res.NewWeekCreated = created
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// completeEntryDay moves the entry's placements on day into its completed
// set and returns the minutes completed.
func (s *lifecycleService) completeEntryDay(e *domain.QueueEntry, day string) int {
	idxs := e.ScheduledDates[day]
	if len(idxs) == 0 {
		return 0
	}
	completed := 0
	for _, idx := range idxs {
		if idx == domain.WholeTopicIdx {
			completed += e.Minutes
			e.State = domain.QueueDone
			continue
		}
		if st, ok := e.SubtopicByIdx(idx); ok {
			completed += st.Minutes
		}
		e.CompletedSub[idx] = true
	}
	delete(e.ScheduledDates, day)
	return completed
}

// advancePointer moves the current-day pointer to next, but only forward:
// completing an older day never rewinds the plan.
func (s *lifecycleService) advancePointer(ctx context.Context, r txRepos, next string, now time.Time) error {
	meta, err := r.meta.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if meta.CurrentDay != "" && domain.DaysBetween(meta.CurrentDay, next) <= 0 {
		return nil
	}
	meta.CurrentDay = next
	meta.UpdatedAt = now
	return r.meta.Save(ctx, meta)
}

// entrySeqsOnDay lists the distinct entries with slices on day, in slice
// order.
func entrySeqsOnDay(w *domain.WeekPlan, day string) []string {
	seen := make(map[string]bool)
	var seqs []string
	for _, sl := range w.Assigned[day] {
		if !seen[sl.EntrySeq] {
			seen[sl.EntrySeq] = true
			seqs = append(seqs, sl.EntrySeq)
		}
	}
	return seqs
}
