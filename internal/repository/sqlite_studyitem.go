package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
)

// studyItemColumns is the canonical SELECT column list for study_items.
const studyItemColumns = `section, item_id, level, parent_id, name, ord,
		category, foundational, estimated_min, updated_at`

// SQLiteStudyItemRepo implements StudyItemRepo over a DBTX.
type SQLiteStudyItemRepo struct {
	db db.DBTX
}

// NewSQLiteStudyItemRepo creates a new SQLiteStudyItemRepo.
func NewSQLiteStudyItemRepo(conn db.DBTX) *SQLiteStudyItemRepo {
	return &SQLiteStudyItemRepo{db: conn}
}

func (r *SQLiteStudyItemRepo) Upsert(ctx context.Context, item *domain.StudyItem) error {
	query := `INSERT INTO study_items (section, item_id, level, parent_id, name, ord,
			category, foundational, estimated_min, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(section, item_id) DO UPDATE SET
			level = excluded.level, parent_id = excluded.parent_id,
			name = excluded.name, ord = excluded.ord,
			category = excluded.category, foundational = excluded.foundational,
			estimated_min = excluded.estimated_min, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		item.Section,
		item.ItemID,
		string(item.Level),
		item.ParentID,
		item.Name,
		item.Order,
		string(item.Category),
		boolToInt(item.Foundational),
		item.EstimatedMin,
		item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting study item: %w", err)
	}
	return nil
}

func (r *SQLiteStudyItemRepo) Get(ctx context.Context, section, itemID string) (*domain.StudyItem, error) {
	query := `SELECT ` + studyItemColumns + ` FROM study_items WHERE section = ? AND item_id = ?`
	row := r.db.QueryRowContext(ctx, query, section, itemID)
	return r.scanItem(row)
}

func (r *SQLiteStudyItemRepo) Delete(ctx context.Context, section, itemID string) error {
	query := `DELETE FROM study_items WHERE section = ? AND item_id = ?`
	if _, err := r.db.ExecContext(ctx, query, section, itemID); err != nil {
		return fmt.Errorf("deleting study item: %w", err)
	}
	return nil
}

func (r *SQLiteStudyItemRepo) ListByLevel(ctx context.Context, level domain.Level) ([]*domain.StudyItem, error) {
	query := `SELECT ` + studyItemColumns + ` FROM study_items
		WHERE level = ? ORDER BY section, ord, item_id`
	rows, err := r.db.QueryContext(ctx, query, string(level))
	if err != nil {
		return nil, fmt.Errorf("listing study items by level: %w", err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

func (r *SQLiteStudyItemRepo) ListChildren(ctx context.Context, section, parentID string) ([]*domain.StudyItem, error) {
	query := `SELECT ` + studyItemColumns + ` FROM study_items
		WHERE section = ? AND parent_id = ? ORDER BY ord, item_id`
	rows, err := r.db.QueryContext(ctx, query, section, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing study item children: %w", err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

func (r *SQLiteStudyItemRepo) UpdateMinutes(ctx context.Context, section, itemID string, minutes int) error {
	query := `UPDATE study_items SET estimated_min = ?, updated_at = ? WHERE section = ? AND item_id = ?`
	_, err := r.db.ExecContext(ctx, query, minutes, time.Now().UTC().Format(time.RFC3339), section, itemID)
	if err != nil {
		return fmt.Errorf("updating study item minutes: %w", err)
	}
	return nil
}

func (r *SQLiteStudyItemRepo) scanItem(row *sql.Row) (*domain.StudyItem, error) {
	var it domain.StudyItem
	var levelStr, categoryStr, updatedAtStr string
	var foundationalInt int

	err := row.Scan(&it.Section, &it.ItemID, &levelStr, &it.ParentID, &it.Name, &it.Order,
		&categoryStr, &foundationalInt, &it.EstimatedMin, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("study item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning study item: %w", err)
	}
	return r.populateItem(&it, levelStr, categoryStr, updatedAtStr, foundationalInt)
}

func (r *SQLiteStudyItemRepo) scanItems(rows *sql.Rows) ([]*domain.StudyItem, error) {
	var items []*domain.StudyItem
	for rows.Next() {
		var it domain.StudyItem
		var levelStr, categoryStr, updatedAtStr string
		var foundationalInt int

		err := rows.Scan(&it.Section, &it.ItemID, &levelStr, &it.ParentID, &it.Name, &it.Order,
			&categoryStr, &foundationalInt, &it.EstimatedMin, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning study item row: %w", err)
		}
		item, err := r.populateItem(&it, levelStr, categoryStr, updatedAtStr, foundationalInt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study items: %w", err)
	}
	return items, nil
}

func (r *SQLiteStudyItemRepo) populateItem(
	it *domain.StudyItem,
	levelStr, categoryStr, updatedAtStr string,
	foundationalInt int,
) (*domain.StudyItem, error) {
	it.Level = domain.Level(levelStr)
	it.Category = domain.Category(categoryStr)
	it.Foundational = intToBool(foundationalInt)

	var parseErr error
	it.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return it, nil
}
