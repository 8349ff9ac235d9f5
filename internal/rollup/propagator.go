package rollup

import (
	"context"
	"errors"
	"fmt"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
)

// Propagator keeps the study-item projection and its duration rollups
// correct as curriculum nodes change. Each event is handled in one
// transaction: mirror the changed node, then recompute only the affected
// parent topic and chapter instead of the whole tree.
type Propagator struct {
	uow db.UnitOfWork

	atomicMin int
	floorMin  int
}

// NewPropagator creates a Propagator with the given duration constants.
func NewPropagator(uow db.UnitOfWork, atomicMin, floorMin int) *Propagator {
	return &Propagator{uow: uow, atomicMin: atomicMin, floorMin: floorMin}
}

// HandleNodeEvent applies one curriculum change notification.
func (p *Propagator) HandleNodeEvent(ctx context.Context, ev domain.NodeEvent) error {
	node := ev.Node()
	if node == nil {
		return fmt.Errorf("node event carries no snapshot")
	}

	return p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteStudyItemRepo(tx)

		if ev.Kind == domain.NodeDeleted {
			if err := items.Delete(ctx, node.Section, node.ID); err != nil {
				return err
			}
		} else {
			item := domain.ItemFromNode(node)
			if node.Level == domain.LevelSubtopic {
				// Subtopics are atomic units regardless of what the editor wrote.
				item.EstimatedMin = p.atomicMin
			}
			if err := items.Upsert(ctx, item); err != nil {
				return err
			}
		}

		switch node.Level {
		case domain.LevelSubtopic:
			return p.recomputeParents(ctx, items, ev, true)
		case domain.LevelTopic:
			if ev.Kind != domain.NodeDeleted {
				if err := p.recomputeTopic(ctx, items, node.Section, node.ID); err != nil {
					return err
				}
			}
			return p.recomputeParents(ctx, items, ev, false)
		case domain.LevelChapter:
			// Rename/reparent only: the mirror write above is enough.
			return nil
		default:
			return fmt.Errorf("unknown curriculum level %q", node.Level)
		}
	})
}

// recomputeParents refreshes the rollups above the changed node. On a move
// both the old and new parent chains are recomputed. parentIsTopic is true
// for subtopic events (parent = topic, grandparent = chapter); topic events
// roll straight into their chapter.
func (p *Propagator) recomputeParents(ctx context.Context, items *repository.SQLiteStudyItemRepo, ev domain.NodeEvent, parentIsTopic bool) error {
	parents := make(map[string]bool)
	section := ev.Node().Section
	if ev.After != nil && ev.After.ParentID != "" {
		parents[ev.After.ParentID] = true
	}
	if ev.Before != nil && ev.Before.ParentID != "" {
		parents[ev.Before.ParentID] = true
	}

	for parentID := range parents {
		if parentIsTopic {
			if err := p.recomputeTopic(ctx, items, section, parentID); err != nil {
				return err
			}
			topic, err := items.Get(ctx, section, parentID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return err
			}
			if topic.ParentID != "" {
				if err := p.recomputeChapter(ctx, items, section, topic.ParentID); err != nil {
					return err
				}
			}
		} else {
			if err := p.recomputeChapter(ctx, items, section, parentID); err != nil {
				return err
			}
		}
	}
	return nil
}

// recomputeTopic sets a topic's minutes to max(sum of subtopics, floor).
// Topics without subtopics keep their own estimate.
func (p *Propagator) recomputeTopic(ctx context.Context, items *repository.SQLiteStudyItemRepo, section, topicID string) error {
	children, err := items.ListChildren(ctx, section, topicID)
	if err != nil {
		return err
	}
	sum, count := 0, 0
	for _, c := range children {
		if c.Level == domain.LevelSubtopic {
			sum += c.EstimatedMin
			count++
		}
	}
	if count == 0 {
		return nil
	}
	minutes := sum
	if minutes < p.floorMin {
		minutes = p.floorMin
	}

	topic, err := items.Get(ctx, section, topicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if topic.EstimatedMin == minutes {
		return nil
	}
	return items.UpdateMinutes(ctx, section, topicID, minutes)
}

// recomputeChapter sets a chapter's minutes to the sum of its topics.
func (p *Propagator) recomputeChapter(ctx context.Context, items *repository.SQLiteStudyItemRepo, section, chapterID string) error {
	children, err := items.ListChildren(ctx, section, chapterID)
	if err != nil {
		return err
	}
	sum := 0
	for _, c := range children {
		if c.Level == domain.LevelTopic {
			sum += c.EstimatedMin
		}
	}

	chapter, err := items.Get(ctx, section, chapterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if chapter.EstimatedMin == sum {
		return nil
	}
	return items.UpdateMinutes(ctx, section, chapterID, sum)
}
