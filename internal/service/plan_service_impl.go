package service

import (
	"context"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
)

type planService struct {
	meta repository.PlanMetaRepo
	uow  db.UnitOfWork
	obs  UseCaseObserver
}

// NewPlanService creates a PlanService.
func NewPlanService(meta repository.PlanMetaRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PlanService {
	return &planService{meta: meta, uow: uow, obs: useCaseObserverOrNoop(observers)}
}

func (s *planService) Setup(ctx context.Context, startDate, examDate string, dailyMin int) (meta *domain.PlanMeta, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.obs, "plan_setup", start, err, map[string]any{"start": startDate, "exam": examDate})
	}()

	if _, err := domain.ParseDay(startDate); err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	if _, err := domain.ParseDay(examDate); err != nil {
		return nil, fmt.Errorf("invalid exam date %q: %w", examDate, err)
	}
	if domain.DaysBetween(startDate, examDate) <= 0 {
		return nil, fmt.Errorf("exam date %s must be after start date %s", examDate, startDate)
	}
	if dailyMin <= 0 {
		return nil, fmt.Errorf("daily minutes must be positive, got %d", dailyMin)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		m, err := r.meta.Get(ctx)
		if err != nil {
			return err
		}
		m.StartDate = startDate
		m.ExamDate = examDate
		m.DailyMin = dailyMin
		if m.CurrentDay == "" {
			m.CurrentDay = startDate
		}
		m.HasCompletedSetup = true
		m.UpdatedAt = time.Now().UTC()
		if err := r.meta.Save(ctx, m); err != nil {
			return err
		}

		// The first week exists from setup so day operations always have
		// a week to land in.
		if _, _, err := getOrInitWeek(ctx, r, domain.WeekKeyFor(startDate), time.Now().UTC()); err != nil {
			return err
		}
		meta = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *planService) Get(ctx context.Context) (*domain.PlanMeta, error) {
	return s.meta.Get(ctx)
}

func (s *planService) Reset(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.obs, "plan_reset", start, err, nil) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if err := r.weeks.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.queue.DeleteAll(ctx); err != nil {
			return err
		}
		return r.meta.Reset(ctx)
	})
	return err
}
