package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
	"github.com/njovanovic/studyplan/internal/scheduler"
)

type dayBudgetService struct {
	items repository.StudyItemRepo
	meta  repository.PlanMetaRepo
	// defaultMaxPerDay bounds chapters per study day when the request
	// does not say otherwise.
	defaultMaxPerDay int
	obs              UseCaseObserver
}

// NewDayBudgetService creates a DayBudgetService.
func NewDayBudgetService(items repository.StudyItemRepo, meta repository.PlanMetaRepo, defaultMaxPerDay int, observers ...UseCaseObserver) DayBudgetService {
	if defaultMaxPerDay <= 0 {
		defaultMaxPerDay = 2
	}
	return &dayBudgetService{items: items, meta: meta, defaultMaxPerDay: defaultMaxPerDay, obs: useCaseObserverOrNoop(observers)}
}

// Allocate runs the proportional day-budget planner over the current
// curriculum projection. Section weights default to their chapter counts;
// the request can lock individual sections to fixed day counts.
func (s *dayBudgetService) Allocate(ctx context.Context, req DayBudgetRequest) (result *scheduler.PlanResult, err error) {
	start := time.Now()
	defer func() { observe(ctx, s.obs, "days_allocate", start, err, nil) }()

	meta, err := s.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !meta.HasCompletedSetup || meta.StartDate == "" || meta.ExamDate == "" {
		return nil, fmt.Errorf("day budgets need a start and exam date: %w", ErrSetupIncomplete)
	}

	sections, err := s.sectionInputs(ctx, req.LockedDays)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no chapters to allocate days for")
	}

	maxPerDay := req.MaxPerDay
	if maxPerDay <= 0 {
		maxPerDay = s.defaultMaxPerDay
	}

	return scheduler.Plan(scheduler.PlanRequest{
		StartDate: meta.StartDate,
		ExamDate:  meta.ExamDate,
		MaxPerDay: maxPerDay,
		Sections:  sections,
	})
}

func (s *dayBudgetService) sectionInputs(ctx context.Context, locked map[string]int) ([]scheduler.SectionInput, error) {
	chapters, err := s.items.ListByLevel(ctx, domain.LevelChapter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(chapters, func(a, b int) bool {
		if chapters[a].Section != chapters[b].Section {
			return chapters[a].Section < chapters[b].Section
		}
		return chapters[a].Order < chapters[b].Order
	})

	var sections []scheduler.SectionInput
	idx := make(map[string]int)
	for _, ch := range chapters {
		si, ok := idx[ch.Section]
		if !ok {
			si = len(sections)
			idx[ch.Section] = si
			sec := scheduler.SectionInput{Name: ch.Section}
			if days, locked := locked[ch.Section]; locked {
				d := days
				sec.LockedDays = &d
			}
			sections = append(sections, sec)
		}
		sections[si].Chapters = append(sections[si].Chapters, scheduler.ChapterInput{
			ID:       ch.ItemID,
			Name:     ch.Name,
			Category: ch.Category,
			Order:    ch.Order,
		})
	}
	// A section's default weight is simply how many chapters it carries.
	for i := range sections {
		sections[i].DefaultDays = len(sections[i].Chapters)
	}
	return sections, nil
}
