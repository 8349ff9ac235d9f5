package service

import (
	"context"
	"errors"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/scheduler"
)

// ErrEntryBusy is returned when a queue entry cannot be removed because it
// still has scheduled work or is in progress. Callers must unschedule it
// first.
var ErrEntryBusy = errors.New("queue entry has scheduled or in-progress work")

// ErrSetupIncomplete is returned by operations that need a configured plan.
var ErrSetupIncomplete = errors.New("study plan setup is not complete")

// BuildResult reports the outcome of the one-time queue bootstrap.
type BuildResult struct {
	Created int
	Skipped bool
}

// PlaceResult is the outcome of a placement operation. A placement that
// could not put anything on the calendar for a benign reason (off day,
// no capacity, nothing left to place) is a successful no-op carrying the
// reason, not an error.
type PlaceResult struct {
	EntrySeq  string
	PlacedSub []int
	PlacedMin int
	Days      []string
	Reason    string
}

// Placed reports whether the operation put any work on the calendar.
func (r *PlaceResult) Placed() bool {
	return len(r.PlacedSub) > 0
}

// AutoFillResult summarizes an auto-fill pass over a week.
type AutoFillResult struct {
	WeekKey        string
	EntriesTouched int
	PlacedSub      int
	PlacedMin      int
}

// CompleteDayResult summarizes finalizing a day.
type CompleteDayResult struct {
	Day            string
	AlreadyDone    bool
	EntriesTouched int
	CompletedMin   int
	NextDay        string
	NewWeekCreated bool
}

// TopicGroup is one topic entry inside the hierarchical queue view.
type TopicGroup struct {
	Entry *domain.QueueEntry
}

// ChapterGroup groups a chapter's queued topics for display.
type ChapterGroup struct {
	ChapterID   string
	ChapterName string
	Topics      []*domain.QueueEntry
}

// SectionGroup groups queue entries by section and chapter for display.
type SectionGroup struct {
	Section  string
	Chapters []ChapterGroup
}

type QueueService interface {
	// Build bootstraps the queue from the study-item projection. It is a
	// one-time operation: a non-empty queue is left untouched.
	Build(ctx context.Context) (*BuildResult, error)
	List(ctx context.Context, state *domain.QueueState) ([]*domain.QueueEntry, error)
	Get(ctx context.Context, seq string) (*domain.QueueEntry, error)
	Grouped(ctx context.Context) ([]SectionGroup, error)
	// Remove marks an entry removed. Only queued entries with no
	// scheduled work can be removed.
	Remove(ctx context.Context, seq string) error
	// Promote sends an entry to the front of the queue.
	Promote(ctx context.Context, seq string) error
	// Demote sends an entry to the back of the queue.
	Demote(ctx context.Context, seq string) error
	// Unschedule removes every slice of the entry from the calendar,
	// returns it to the queued state, and re-inserts it at the front.
	Unschedule(ctx context.Context, seq string) (*PlaceResult, error)
}

type WeekService interface {
	// GetOrInit loads the week containing day, creating it with all 7
	// days pre-populated when it does not exist yet.
	GetOrInit(ctx context.Context, day string) (*domain.WeekPlan, error)
	// PatchDay adjusts a day's capacity or off flag.
	PatchDay(ctx context.Context, day string, capMin *int, off *bool) (*domain.WeekPlan, error)
	ScheduleTopic(ctx context.Context, day, seq string) (*PlaceResult, error)
	ScheduleSubtopic(ctx context.Context, day, seq string, subIdx int) (*PlaceResult, error)
	// ScheduleTopicPack places an entry's remaining subtopics across the
	// week starting at startDay, skipping off days.
	ScheduleTopicPack(ctx context.Context, startDay, seq string) (*PlaceResult, error)
	AutoFill(ctx context.Context, day string) (*AutoFillResult, error)
	// MoveTopicForward pushes an entry's slices from day to later days,
	// spilling into the next week when this one ends.
	MoveTopicForward(ctx context.Context, day, seq string) (*PlaceResult, error)
}

type LifecycleService interface {
	CompleteDay(ctx context.Context, day string) (*CompleteDayResult, error)
}

type PlanService interface {
	Setup(ctx context.Context, startDate, examDate string, dailyMin int) (*domain.PlanMeta, error)
	Get(ctx context.Context) (*domain.PlanMeta, error)
	// Reset deletes all week and queue documents and returns plan meta
	// to its unconfigured state. Destructive and never reachable from a
	// scheduling operation.
	Reset(ctx context.Context) error
}

// DayBudgetRequest carries the caller-controlled knobs of the legacy
// proportional planner; section inputs are derived from the study-item
// projection.
type DayBudgetRequest struct {
	LockedDays map[string]int
	MaxPerDay  int
}

type DayBudgetService interface {
	Allocate(ctx context.Context, req DayBudgetRequest) (*scheduler.PlanResult, error)
}
