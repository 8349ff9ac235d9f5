package service

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
	"github.com/njovanovic/studyplan/internal/scheduler"
)

type queueService struct {
	queue repository.QueueRepo
	uow   db.UnitOfWork
	obs   UseCaseObserver

	// frontSeq feeds FrontKey's sub-millisecond jitter. Monotonic, so two
	// promotions in the same millisecond keep their relative order.
	frontSeq atomic.Int64
}

// NewQueueService creates a QueueService.
func NewQueueService(queue repository.QueueRepo, uow db.UnitOfWork, observers ...UseCaseObserver) QueueService {
	return &queueService{
		queue: queue,
		uow:   uow,
		obs:   useCaseObserverOrNoop(observers),
	}
}

func (s *queueService) Build(ctx context.Context) (result *BuildResult, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{}
		if result != nil {
			fields["created"] = result.Created
			fields["skipped"] = result.Skipped
		}
		observe(ctx, s.obs, "queue_build", start, err, fields)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)

		count, err := r.queue.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			result = &BuildResult{Skipped: true}
			return nil
		}

		chapters, err := r.items.ListByLevel(ctx, domain.LevelChapter)
		if err != nil {
			return err
		}
		sort.SliceStable(chapters, func(a, b int) bool {
			if chapters[a].Section != chapters[b].Section {
				return chapters[a].Section < chapters[b].Section
			}
			return chapters[a].Order < chapters[b].Order
		})

		now := time.Now().UTC()
		created := 0
		for _, ch := range chapters {
			children, err := r.items.ListChildren(ctx, ch.Section, ch.ItemID)
			if err != nil {
				return err
			}
			var topics []*domain.StudyItem
			for _, c := range children {
				if c.Level == domain.LevelTopic {
					topics = append(topics, c)
				}
			}
			sort.SliceStable(topics, func(a, b int) bool {
				if topics[a].Order != topics[b].Order {
					return topics[a].Order < topics[b].Order
				}
				return topics[a].Name < topics[b].Name
			})

			for _, topic := range topics {
				entry, err := s.buildEntry(ctx, r, ch, topic, created+1, now)
				if err != nil {
					return err
				}
				if err := r.queue.Create(ctx, entry); err != nil {
					return err
				}
				created++
			}
		}
		result = &BuildResult{Created: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// buildEntry assembles one queue entry from a topic and its subtopics.
// Subtopic indices are assigned here, once, in (order, name) order; they
// are the permanent addresses every scheduling operation uses afterwards.
func (s *queueService) buildEntry(ctx context.Context, r txRepos, chapter, topic *domain.StudyItem, seqNum int, now time.Time) (*domain.QueueEntry, error) {
	children, err := r.items.ListChildren(ctx, topic.Section, topic.ItemID)
	if err != nil {
		return nil, err
	}
	var subItems []*domain.StudyItem
	for _, c := range children {
		if c.Level == domain.LevelSubtopic {
			subItems = append(subItems, c)
		}
	}
	sort.SliceStable(subItems, func(a, b int) bool {
		if subItems[a].Order != subItems[b].Order {
			return subItems[a].Order < subItems[b].Order
		}
		return subItems[a].Name < subItems[b].Name
	})

	subtopics := make([]domain.Subtopic, len(subItems))
	subTotal := 0
	for i, si := range subItems {
		subtopics[i] = domain.Subtopic{
			SubIdx:  i,
			ItemID:  si.ItemID,
			Name:    si.Name,
			Minutes: si.EstimatedMin,
		}
		subTotal += si.EstimatedMin
	}

	minutes := topic.EstimatedMin
	if minutes <= 0 {
		minutes = subTotal
	}

	return &domain.QueueEntry{
		Seq:            domain.FormatSeq(seqNum),
		SortKey:        int64(seqNum),
		Section:        topic.Section,
		ChapterID:      chapter.ItemID,
		ChapterName:    chapter.Name,
		TopicID:        topic.ItemID,
		TopicName:      topic.Name,
		Minutes:        minutes,
		Subtopics:      subtopics,
		ScheduledDates: map[string][]int{},
		CompletedSub:   map[int]bool{},
		State:          domain.QueueQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *queueService) List(ctx context.Context, state *domain.QueueState) ([]*domain.QueueEntry, error) {
	return s.queue.List(ctx, state)
}

func (s *queueService) Get(ctx context.Context, seq string) (*domain.QueueEntry, error) {
	return s.queue.Get(ctx, seq)
}

func (s *queueService) Grouped(ctx context.Context) ([]SectionGroup, error) {
	entries, err := s.queue.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	var groups []SectionGroup
	sectionIdx := make(map[string]int)
	for _, e := range entries {
		if e.State == domain.QueueRemoved {
			continue
		}
		si, ok := sectionIdx[e.Section]
		if !ok {
			si = len(groups)
			sectionIdx[e.Section] = si
			groups = append(groups, SectionGroup{Section: e.Section})
		}

		chapters := groups[si].Chapters
		ci := -1
		for i := range chapters {
			if chapters[i].ChapterID == e.ChapterID {
				ci = i
				break
			}
		}
		if ci == -1 {
			chapters = append(chapters, ChapterGroup{ChapterID: e.ChapterID, ChapterName: e.ChapterName})
			ci = len(chapters) - 1
		}
		chapters[ci].Topics = append(chapters[ci].Topics, e)
		groups[si].Chapters = chapters
	}
	return groups, nil
}

func (s *queueService) Remove(ctx context.Context, seq string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.obs, "queue_remove", start, err, map[string]any{"seq": seq}) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		e, err := r.queue.Get(ctx, seq)
		if err != nil {
			return err
		}
		if e.State != domain.QueueQueued || len(e.ScheduledDates) > 0 {
			return fmt.Errorf("removing entry %s: %w", seq, ErrEntryBusy)
		}
		e.State = domain.QueueRemoved
		e.UpdatedAt = time.Now().UTC()
		return r.queue.Save(ctx, e)
	})
	return err
}

func (s *queueService) Promote(ctx context.Context, seq string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.obs, "queue_promote", start, err, map[string]any{"seq": seq}) }()

	jitter := s.frontSeq.Add(1)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		e, err := r.queue.Get(ctx, seq)
		if err != nil {
			return err
		}
		e.SortKey = scheduler.FrontKey(time.Now(), jitter)
		e.UpdatedAt = time.Now().UTC()
		return r.queue.Save(ctx, e)
	})
	return err
}

func (s *queueService) Demote(ctx context.Context, seq string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.obs, "queue_demote", start, err, map[string]any{"seq": seq}) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		e, err := r.queue.Get(ctx, seq)
		if err != nil {
			return err
		}
		max, err := r.queue.MaxSortKey(ctx)
		if err != nil {
			return err
		}
		e.SortKey = scheduler.BackKey(max)
		e.UpdatedAt = time.Now().UTC()
		return r.queue.Save(ctx, e)
	})
	return err
}

func (s *queueService) Unschedule(ctx context.Context, seq string) (result *PlaceResult, err error) {
	start := time.Now()
	defer func() { observe(ctx, s.obs, "queue_unschedule", start, err, map[string]any{"seq": seq}) }()

	jitter := s.frontSeq.Add(1)
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

		var removed []int
		var days []string
		for day, idxs := range e.ScheduledDates {
			removed = append(removed, idxs...)
			days = append(days, day)
		}
		sort.Ints(removed)
		sort.Strings(days)

		if err := r.weeks.DeleteEntrySlicesEverywhere(ctx, seq); err != nil {
			return err
		}
		e.ScheduledDates = map[string][]int{}
		e.RecomputeMinutes()
		e.State = domain.QueueQueued
		e.SortKey = scheduler.FrontKey(time.Now(), jitter)
		e.UpdatedAt = time.Now().UTC()
		if err := r.queue.Save(ctx, e); err != nil {
			return err
		}

		result = &PlaceResult{EntrySeq: seq, PlacedSub: removed, Days: days, Reason: "returned to queue"}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
