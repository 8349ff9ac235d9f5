package service

import (
	"context"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/scheduler"
)

type weekService struct {
	uow db.UnitOfWork
	obs UseCaseObserver
}

// NewWeekService creates a WeekService.
func NewWeekService(uow db.UnitOfWork, observers ...UseCaseObserver) WeekService {
	return &weekService{uow: uow, obs: useCaseObserverOrNoop(observers)}
}

func (s *weekService) GetOrInit(ctx context.Context, day string) (*domain.WeekPlan, error) {
	var week *domain.WeekPlan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		w, _, err := getOrInitWeek(ctx, r, domain.WeekKeyFor(day), time.Now().UTC())
		if err != nil {
			return err
		}
		week = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return week, nil
}

func (s *weekService) PatchDay(ctx context.Context, day string, capMin *int, off *bool) (week *domain.WeekPlan, err error) {
	start := time.Now()
	defer func() { observe(ctx, s.obs, "week_patch_day", start, err, map[string]any{"day": day}) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		w, _, err := getOrInitWeek(ctx, r, domain.WeekKeyFor(day), time.Now().UTC())
		if err != nil {
			return err
		}
		if w.DoneDays[day] {
			return fmt.Errorf("day %s is already completed", day)
		}

		newCap := w.DayCaps[day]
		newOff := w.OffDays[day]
		if capMin != nil {
			if *capMin < 0 {
				return fmt.Errorf("capacity must not be negative, got %d", *capMin)
			}
			if used := w.UsedMin(day); *capMin < used {
				return fmt.Errorf("capacity %d below the %d minutes already scheduled on %s", *capMin, used, day)
			}
			newCap = *capMin
		}
		if off != nil {
			if *off && len(w.Assigned[day]) > 0 {
				return fmt.Errorf("day %s has scheduled work, unschedule it before marking the day off", day)
			}
			newOff = *off
		}

		if err := r.weeks.SetDay(ctx, w.WeekKey, day, newCap, newOff, w.DoneDays[day]); err != nil {
			return err
		}
		w.DayCaps[day] = newCap
		if newOff {
			w.OffDays[day] = true
		} else {
			delete(w.OffDays, day)
		}
		week = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return week, nil
}

func (s *weekService) ScheduleTopic(ctx context.Context, day, seq string) (result *PlaceResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.obs, "week_schedule_topic", start, err, map[string]any{"day": day, "seq": seq})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		res, err := s.scheduleTopicOnDay(ctx, r, day, seq)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// scheduleTopicOnDay places as much of the entry as fits on one day: a
// greedy front-to-back run of its unplaced subtopics, or the whole topic
// for entries without a breakdown. Benign obstacles (off day, no room,
// nothing left) come back as reasons, not errors.
func (s *weekService) scheduleTopicOnDay(ctx context.Context, r txRepos, day, seq string) (*PlaceResult, error) {
	e, err := r.queue.Get(ctx, seq)
	if err != nil {
		return nil, err
	}
	if e.State == domain.QueueRemoved || e.State == domain.QueueDone {
		return &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("entry is %s", e.State)}, nil
	}

	w, _, err := getOrInitWeek(ctx, r, domain.WeekKeyFor(day), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if w.OffDays[day] {
		return &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("%s is an off day", day)}, nil
	}
	if w.DoneDays[day] {
		return &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("%s is already completed", day)}, nil
	}
	remaining := w.RemainingMin(day)

	if len(e.Subtopics) == 0 {
		if len(e.ScheduledDates) > 0 {
			return &PlaceResult{EntrySeq: seq, Reason: "topic is already scheduled"}, nil
		}
		if e.Minutes > remaining {
			return &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("no capacity on %s for %d minutes", day, e.Minutes)}, nil
		}
		if err := placeWholeTopic(ctx, r, w, e, day); err != nil {
			return nil, err
		}
		if err := saveEntry(ctx, r, e); err != nil {
			return nil, err
		}
		return &PlaceResult{EntrySeq: seq, PlacedSub: []int{domain.WholeTopicIdx}, PlacedMin: e.Minutes, Days: []string{day}}, nil
	}

	unplaced := e.UnplacedSubtopics()
	if len(unplaced) == 0 {
		return &PlaceResult{EntrySeq: seq, Reason: "nothing left to place"}, nil
	}
	picked := scheduler.GreedyFill(unplaced, remaining)
	if len(picked) == 0 {
		return &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("no capacity on %s", day)}, nil
	}
	if err := placeSubtopics(ctx, r, w, e, day, picked); err != nil {
		return nil, err
	}
	if err := saveEntry(ctx, r, e); err != nil {
		return nil, err
	}
	return &PlaceResult{
		EntrySeq:  seq,
		PlacedSub: subIdxList(picked),
		PlacedMin: scheduler.Minutes(picked),
		Days:      []string{day},
	}, nil
}

func (s *weekService) ScheduleSubtopic(ctx context.Context, day, seq string, subIdx int) (result *PlaceResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.obs, "week_schedule_subtopic", start, err, map[string]any{"day": day, "seq": seq, "sub_idx": subIdx})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		e, err := r.queue.Get(ctx, seq)
		if err != nil {
			return err
		}
		if e.State == domain.QueueRemoved || e.State == domain.QueueDone {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("entry is %s", e.State)}
			return nil
		}
		st, ok := e.SubtopicByIdx(subIdx)
		if !ok {
			return fmt.Errorf("entry %s has no subtopic %d", seq, subIdx)
		}
		if e.CompletedSub[subIdx] {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("subtopic %d is already completed", subIdx)}
			return nil
		}
		if placedOn := e.ScheduledDayOf(subIdx); placedOn != "" {
			return fmt.Errorf("subtopic %d is already scheduled on %s", subIdx, placedOn)
		}

		w, _, err := getOrInitWeek(ctx, r, domain.WeekKeyFor(day), time.Now().UTC())
		if err != nil {
			return err
		}
		if w.OffDays[day] {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("%s is an off day", day)}
			return nil
		}
		if w.DoneDays[day] {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("%s is already completed", day)}
			return nil
		}
		if !scheduler.Fits(st, w.RemainingMin(day)) {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("no capacity on %s for %d minutes", day, st.Minutes)}
			return nil
		}

		if err := placeSubtopics(ctx, r, w, e, day, []domain.Subtopic{st}); err != nil {
			return err
		}
		if err := saveEntry(ctx, r, e); err != nil {
			return err
		}
		result = &PlaceResult{EntrySeq: seq, PlacedSub: []int{subIdx}, PlacedMin: st.Minutes, Days: []string{day}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *weekService) ScheduleTopicPack(ctx context.Context, startDay, seq string) (result *PlaceResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.obs, "week_schedule_pack", start, err, map[string]any{"start_day": startDay, "seq": seq})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		e, err := r.queue.Get(ctx, seq)
		if err != nil {
			return err
		}
		if e.State == domain.QueueRemoved || e.State == domain.QueueDone {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("entry is %s", e.State)}
			return nil
		}

		w, _, err := getOrInitWeek(ctx, r, domain.WeekKeyFor(startDay), time.Now().UTC())
		if err != nil {
			return err
		}

		res := &PlaceResult{EntrySeq: seq}
		placed, err := s.packIntoWeek(ctx, r, w, e, startDay, nil, res)
		if err != nil {
			return err
		}
		if placed {
			if err := saveEntry(ctx, r, e); err != nil {
				return err
			}
		} else if res.Reason == "" {
			res.Reason = "nothing left to place"
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// packIntoWeek spreads the entry's remaining work over the week's days from
// startDay onward, skipping off and completed days. Whole-topic entries take
// the first day with enough room. A non-nil only set restricts placement to
// those subtopic indices.
func (s *weekService) packIntoWeek(ctx context.Context, r txRepos, w *domain.WeekPlan, e *domain.QueueEntry, startDay string, only map[int]bool, res *PlaceResult) (bool, error) {
	placedAny := false
	for day := startDay; w.ContainsDay(day); day = domain.NextDay(day) {
		if w.OffDays[day] || w.DoneDays[day] {
			continue
		}
		remaining := w.RemainingMin(day)

		if len(e.Subtopics) == 0 {
			if len(e.ScheduledDates) > 0 {
				res.Reason = "topic is already scheduled"
				return placedAny, nil
			}
			if e.Minutes > remaining {
				continue
			}
			if err := placeWholeTopic(ctx, r, w, e, day); err != nil {
				return placedAny, err
			}
			res.PlacedSub = append(res.PlacedSub, domain.WholeTopicIdx)
			res.PlacedMin += e.Minutes
			res.Days = append(res.Days, day)
			return true, nil
		}

		unplaced := restrictSubtopics(e.UnplacedSubtopics(), only)
		if len(unplaced) == 0 {
			break
		}
		picked := scheduler.GreedyFill(unplaced, remaining)
		if len(picked) == 0 {
			continue
		}
		if err := placeSubtopics(ctx, r, w, e, day, picked); err != nil {
			return placedAny, err
		}
		res.PlacedSub = append(res.PlacedSub, subIdxList(picked)...)
		res.PlacedMin += scheduler.Minutes(picked)
		res.Days = append(res.Days, day)
		placedAny = true
	}
	if left := len(restrictSubtopics(e.UnplacedSubtopics(), only)); left > 0 && placedAny {
		res.Reason = fmt.Sprintf("%d subtopics did not fit this week", left)
	}
	return placedAny, nil
}

// restrictSubtopics keeps the subtopics whose index is in the set; a nil set
// means no restriction.
func restrictSubtopics(subs []domain.Subtopic, only map[int]bool) []domain.Subtopic {
	if only == nil {
		return subs
	}
	var out []domain.Subtopic
	for _, st := range subs {
		if only[st.SubIdx] {
			out = append(out, st)
		}
	}
	return out
}

func (s *weekService) AutoFill(ctx context.Context, day string) (result *AutoFillResult, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{"day": day}
		if result != nil {
			fields["placed_min"] = result.PlacedMin
			fields["entries"] = result.EntriesTouched
		}
		observe(ctx, s.obs, "week_autofill", start, err, fields)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		weekKey := domain.WeekKeyFor(day)
		w, _, err := getOrInitWeek(ctx, r, weekKey, time.Now().UTC())
		if err != nil {
			return err
		}

		// Fill only from the plan's current day forward; days already
		// behind the pointer are history.
		fillFrom := weekKey
		if meta, metaErr := r.meta.Get(ctx); metaErr == nil && meta.CurrentDay != "" {
			if domain.DaysBetween(fillFrom, meta.CurrentDay) > 0 {
				fillFrom = meta.CurrentDay
			}
		}

		candidates, err := s.autoFillCandidates(ctx, r)
		if err != nil {
			return err
		}

		res := &AutoFillResult{WeekKey: weekKey}
		touched := make(map[string]bool)
		for _, e := range candidates {
			for d := fillFrom; w.ContainsDay(d); d = domain.NextDay(d) {
				if w.OffDays[d] || w.DoneDays[d] {
					continue
				}
				remaining := w.RemainingMin(d)
				if remaining == 0 {
					continue
				}

				if len(e.Subtopics) == 0 {
					if len(e.ScheduledDates) > 0 || e.Minutes > remaining {
						continue
					}
					if err := placeWholeTopic(ctx, r, w, e, d); err != nil {
						return err
					}
					res.PlacedSub++
					res.PlacedMin += e.Minutes
					touched[e.Seq] = true
					break
				}

				picked := scheduler.GreedyFill(e.UnplacedSubtopics(), remaining)
				if len(picked) == 0 {
					continue
				}
				if err := placeSubtopics(ctx, r, w, e, d, picked); err != nil {
					return err
				}
				res.PlacedSub += len(picked)
				res.PlacedMin += scheduler.Minutes(picked)
				touched[e.Seq] = true
			}
			if touched[e.Seq] {
				if err := saveEntry(ctx, r, e); err != nil {
					return err
				}
			}
		}
		res.EntriesTouched = len(touched)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// autoFillCandidates returns entries with work left to place: in-progress
// entries first so started topics finish before new ones begin, each group
// in queue order.
func (s *weekService) autoFillCandidates(ctx context.Context, r txRepos) ([]*domain.QueueEntry, error) {
	inProgress := domain.QueueInProgress
	started, err := r.queue.List(ctx, &inProgress)
	if err != nil {
		return nil, err
	}
	queued := domain.QueueQueued
	fresh, err := r.queue.List(ctx, &queued)
	if err != nil {
		return nil, err
	}
	return append(started, fresh...), nil
}

func (s *weekService) MoveTopicForward(ctx context.Context, day, seq string) (result *PlaceResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.obs, "week_move_topic", start, err, map[string]any{"day": day, "seq": seq})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		e, err := r.queue.Get(ctx, seq)
		if err != nil {
			return err
		}
		moved := e.ScheduledDates[day]
		if len(moved) == 0 {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("entry has no work on %s", day)}
			return nil
		}

		weekKey := domain.WeekKeyFor(day)
		w, _, err := getOrInitWeek(ctx, r, weekKey, time.Now().UTC())
		if err != nil {
			return err
		}
		if w.DoneDays[day] {
			result = &PlaceResult{EntrySeq: seq, Reason: fmt.Sprintf("%s is already completed", day)}
			return nil
		}

		if err := r.weeks.DeleteEntrySlices(ctx, weekKey, day, seq); err != nil {
			return err
		}
		var keep []domain.ScheduleSlice
		for _, sl := range w.Assigned[day] {
			if sl.EntrySeq != seq {
				keep = append(keep, sl)
			}
		}
		w.Assigned[day] = keep
		delete(e.ScheduledDates, day)

		// Only the displaced work moves; subtopics that were never on the
		// calendar stay off it.
		only := make(map[int]bool, len(moved))
		for _, idx := range moved {
			only[idx] = true
		}

		res := &PlaceResult{EntrySeq: seq}
		if _, err := s.packIntoWeek(ctx, r, w, e, domain.NextDay(day), only, res); err != nil {
			return err
		}

		// Work that did not fit in this week spills into the next one,
		// creating it on demand.
		if s.hasWorkToPlace(e, only) {
			nextWeek, _, err := getOrInitWeek(ctx, r, domain.AddDays(weekKey, 7), time.Now().UTC())
			if err != nil {
				return err
			}
			res.Reason = ""
			if _, err := s.packIntoWeek(ctx, r, nextWeek, e, nextWeek.WeekKey, only, res); err != nil {
				return err
			}
		}

		if err := saveEntry(ctx, r, e); err != nil {
			return err
		}
		if !res.Placed() && res.Reason == "" {
			res.Reason = "no capacity in the next two weeks"
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *weekService) hasWorkToPlace(e *domain.QueueEntry, only map[int]bool) bool {
	if len(e.Subtopics) == 0 {
		return len(e.ScheduledDates) == 0 && e.State != domain.QueueDone
	}
	return len(restrictSubtopics(e.UnplacedSubtopics(), only)) > 0
}
