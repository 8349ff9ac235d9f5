package repository

import (
	"context"

	"github.com/njovanovic/studyplan/internal/domain"
)

type CurriculumRepo interface {
	Upsert(ctx context.Context, n *domain.CurriculumNode) error
	Get(ctx context.Context, section, nodeID string) (*domain.CurriculumNode, error)
	Delete(ctx context.Context, section, nodeID string) error
	ListByLevel(ctx context.Context, level domain.Level) ([]*domain.CurriculumNode, error)
	ListChildren(ctx context.Context, section, parentID string) ([]*domain.CurriculumNode, error)
}

type StudyItemRepo interface {
	Upsert(ctx context.Context, item *domain.StudyItem) error
	Get(ctx context.Context, section, itemID string) (*domain.StudyItem, error)
	Delete(ctx context.Context, section, itemID string) error
	ListByLevel(ctx context.Context, level domain.Level) ([]*domain.StudyItem, error)
	ListChildren(ctx context.Context, section, parentID string) ([]*domain.StudyItem, error)
	UpdateMinutes(ctx context.Context, section, itemID string, minutes int) error
}

type QueueRepo interface {
	// Create inserts the entry together with its subtopic rows.
	Create(ctx context.Context, e *domain.QueueEntry) error
	Get(ctx context.Context, seq string) (*domain.QueueEntry, error)
	// List returns entries ordered by sort key; state nil means all states.
	List(ctx context.Context, state *domain.QueueState) ([]*domain.QueueEntry, error)
	Count(ctx context.Context) (int, error)
	// Save rewrites the entry row plus its scheduled and completed index
	// sets to match the in-memory entry.
	Save(ctx context.Context, e *domain.QueueEntry) error
	MaxSortKey(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type WeekRepo interface {
	// Get loads a full week: day rows and assigned slices.
	Get(ctx context.Context, weekKey string) (*domain.WeekPlan, error)
	Create(ctx context.Context, w *domain.WeekPlan) error
	// SetDay updates one day's cap/off/done flags.
	SetDay(ctx context.Context, weekKey, day string, capMin int, off, done bool) error
	InsertSlice(ctx context.Context, s *domain.ScheduleSlice) error
	// DeleteEntrySlices removes the entry's slices from one day of one week.
	DeleteEntrySlices(ctx context.Context, weekKey, day, entrySeq string) error
	// DeleteEntrySlicesEverywhere removes every slice of the entry across
	// all weeks.
	DeleteEntrySlicesEverywhere(ctx context.Context, entrySeq string) error
	// CompleteDaySlices marks every slice on the day completed.
	CompleteDaySlices(ctx context.Context, weekKey, day string, completedAt string) error
	DeleteAll(ctx context.Context) error
}

type PlanMetaRepo interface {
	Get(ctx context.Context) (*domain.PlanMeta, error)
	Save(ctx context.Context, m *domain.PlanMeta) error
	Reset(ctx context.Context) error
}
