package curriculum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
)

// Store is the curriculum-node boundary: node reads and writes plus
// change notifications. The content editor is the real owner of this data;
// the scheduler consumes it through exactly this surface.
type Store struct {
	nodes    repository.CurriculumRepo
	uow      db.UnitOfWork
	notifier *Notifier
}

// NewStore creates a Store.
func NewStore(nodes repository.CurriculumRepo, uow db.UnitOfWork, notifier *Notifier) *Store {
	return &Store{nodes: nodes, uow: uow, notifier: notifier}
}

// SaveNode creates or updates a node and notifies subscribers with
// before/after snapshots.
func (s *Store) SaveNode(ctx context.Context, n *domain.CurriculumNode) error {
	if !domain.ValidLevels[string(n.Level)] {
		return fmt.Errorf("invalid curriculum level %q", n.Level)
	}
	now := time.Now().UTC()
	n.UpdatedAt = now

	var before *domain.CurriculumNode
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteCurriculumRepo(tx)
		existing, err := txNodes.Get(ctx, n.Section, n.ID)
		switch {
		case err == nil:
			before = existing
			n.CreatedAt = existing.CreatedAt
		case errors.Is(err, repository.ErrNotFound):
			n.CreatedAt = now
		default:
			return err
		}
		return txNodes.Upsert(ctx, n)
	})
	if err != nil {
		return err
	}

	kind := domain.NodeCreated
	if before != nil {
		kind = domain.NodeUpdated
	}
	return s.notifier.Dispatch(ctx, domain.NodeEvent{Kind: kind, Before: before, After: n})
}

// DeleteNode removes a node and notifies subscribers with the final
// snapshot.
func (s *Store) DeleteNode(ctx context.Context, section, nodeID string) error {
	var before *domain.CurriculumNode
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteCurriculumRepo(tx)
		existing, err := txNodes.Get(ctx, section, nodeID)
		if err != nil {
			return err
		}
		before = existing
		return txNodes.Delete(ctx, section, nodeID)
	})
	if err != nil {
		return err
	}
	return s.notifier.Dispatch(ctx, domain.NodeEvent{Kind: domain.NodeDeleted, Before: before})
}

// GetNode reads one node.
func (s *Store) GetNode(ctx context.Context, section, nodeID string) (*domain.CurriculumNode, error) {
	return s.nodes.Get(ctx, section, nodeID)
}

// ListByLevel reads all nodes of one level across sections.
func (s *Store) ListByLevel(ctx context.Context, level domain.Level) ([]*domain.CurriculumNode, error) {
	return s.nodes.ListByLevel(ctx, level)
}

// ListChildren reads a node's direct children.
func (s *Store) ListChildren(ctx context.Context, section, parentID string) ([]*domain.CurriculumNode, error) {
	return s.nodes.ListChildren(ctx, section, parentID)
}
