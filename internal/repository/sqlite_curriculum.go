package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
)

// curriculumColumns is the canonical SELECT column list for curriculum_nodes.
const curriculumColumns = `section, node_id, level, parent_id, name, ord,
		category, foundational, estimated_min, created_at, updated_at`

// SQLiteCurriculumRepo implements CurriculumRepo over a DBTX, so it works
// both directly against the database and inside a transaction.
type SQLiteCurriculumRepo struct {
	db db.DBTX
}

// NewSQLiteCurriculumRepo creates a new SQLiteCurriculumRepo.
func NewSQLiteCurriculumRepo(conn db.DBTX) *SQLiteCurriculumRepo {
	return &SQLiteCurriculumRepo{db: conn}
}

func (r *SQLiteCurriculumRepo) Upsert(ctx context.Context, n *domain.CurriculumNode) error {
	query := `INSERT INTO curriculum_nodes (section, node_id, level, parent_id, name, ord,
			category, foundational, estimated_min, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(section, node_id) DO UPDATE SET
			level = excluded.level, parent_id = excluded.parent_id,
			name = excluded.name, ord = excluded.ord,
			category = excluded.category, foundational = excluded.foundational,
			estimated_min = excluded.estimated_min, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		n.Section,
		n.ID,
		string(n.Level),
		n.ParentID,
		n.Name,
		n.Order,
		string(n.Category),
		boolToInt(n.Foundational),
		n.EstimatedMin,
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting curriculum node: %w", err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) Get(ctx context.Context, section, nodeID string) (*domain.CurriculumNode, error) {
	query := `SELECT ` + curriculumColumns + ` FROM curriculum_nodes WHERE section = ? AND node_id = ?`
	row := r.db.QueryRowContext(ctx, query, section, nodeID)
	return r.scanNode(row)
}

func (r *SQLiteCurriculumRepo) Delete(ctx context.Context, section, nodeID string) error {
	query := `DELETE FROM curriculum_nodes WHERE section = ? AND node_id = ?`
	if _, err := r.db.ExecContext(ctx, query, section, nodeID); err != nil {
		return fmt.Errorf("deleting curriculum node: %w", err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) ListByLevel(ctx context.Context, level domain.Level) ([]*domain.CurriculumNode, error) {
	query := `SELECT ` + curriculumColumns + ` FROM curriculum_nodes
		WHERE level = ? ORDER BY section, ord, name`
	rows, err := r.db.QueryContext(ctx, query, string(level))
	if err != nil {
		return nil, fmt.Errorf("listing curriculum nodes by level: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteCurriculumRepo) ListChildren(ctx context.Context, section, parentID string) ([]*domain.CurriculumNode, error) {
	query := `SELECT ` + curriculumColumns + ` FROM curriculum_nodes
		WHERE section = ? AND parent_id = ? ORDER BY ord, name`
	rows, err := r.db.QueryContext(ctx, query, section, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing curriculum children: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteCurriculumRepo) scanNode(row *sql.Row) (*domain.CurriculumNode, error) {
	var n domain.CurriculumNode
	var levelStr, categoryStr, createdAtStr, updatedAtStr string
	var foundationalInt int

	err := row.Scan(&n.Section, &n.ID, &levelStr, &n.ParentID, &n.Name, &n.Order,
		&categoryStr, &foundationalInt, &n.EstimatedMin, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("curriculum node: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning curriculum node: %w", err)
	}
	return r.populateNode(&n, levelStr, categoryStr, createdAtStr, updatedAtStr, foundationalInt)
}

func (r *SQLiteCurriculumRepo) scanNodes(rows *sql.Rows) ([]*domain.CurriculumNode, error) {
	var nodes []*domain.CurriculumNode
	for rows.Next() {
		var n domain.CurriculumNode
		var levelStr, categoryStr, createdAtStr, updatedAtStr string
		var foundationalInt int

		err := rows.Scan(&n.Section, &n.ID, &levelStr, &n.ParentID, &n.Name, &n.Order,
			&categoryStr, &foundationalInt, &n.EstimatedMin, &createdAtStr, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning curriculum node row: %w", err)
		}
		node, err := r.populateNode(&n, levelStr, categoryStr, createdAtStr, updatedAtStr, foundationalInt)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating curriculum nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteCurriculumRepo) populateNode(
	n *domain.CurriculumNode,
	levelStr, categoryStr, createdAtStr, updatedAtStr string,
	foundationalInt int,
) (*domain.CurriculumNode, error) {
	n.Level = domain.Level(levelStr)
	n.Category = domain.Category(categoryStr)
	n.Foundational = intToBool(foundationalInt)

	var parseErr error
	n.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	n.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return n, nil
}
