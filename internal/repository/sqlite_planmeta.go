package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
)

// SQLitePlanMetaRepo implements PlanMetaRepo over a DBTX. There is exactly
// one plan meta row, seeded by the migrations.
type SQLitePlanMetaRepo struct {
	db db.DBTX
}

// NewSQLitePlanMetaRepo creates a new SQLitePlanMetaRepo.
func NewSQLitePlanMetaRepo(conn db.DBTX) *SQLitePlanMetaRepo {
	return &SQLitePlanMetaRepo{db: conn}
}

func (r *SQLitePlanMetaRepo) Get(ctx context.Context) (*domain.PlanMeta, error) {
	var m domain.PlanMeta
	var setupInt int
	var updatedAtStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, start_date, exam_date, daily_min, current_day, has_completed_setup, updated_at
		 FROM plan_meta WHERE id = ?`, domain.DefaultPlanMetaID).
		Scan(&m.ID, &m.StartDate, &m.ExamDate, &m.DailyMin, &m.CurrentDay, &setupInt, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan meta: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan meta: %w", err)
	}
	m.HasCompletedSetup = intToBool(setupInt)
	if updatedAtStr != "" {
		if m.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
	}
	return &m, nil
}

func (r *SQLitePlanMetaRepo) Save(ctx context.Context, m *domain.PlanMeta) error {
	query := `INSERT INTO plan_meta (id, start_date, exam_date, daily_min, current_day, has_completed_setup, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date, exam_date = excluded.exam_date,
			daily_min = excluded.daily_min, current_day = excluded.current_day,
			has_completed_setup = excluded.has_completed_setup, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		domain.DefaultPlanMetaID,
		m.StartDate,
		m.ExamDate,
		m.DailyMin,
		m.CurrentDay,
		boolToInt(m.HasCompletedSetup),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving plan meta: %w", err)
	}
	return nil
}

func (r *SQLitePlanMetaRepo) Reset(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE plan_meta SET start_date = '', exam_date = '', daily_min = 120,
			current_day = '', has_completed_setup = 0, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), domain.DefaultPlanMetaID)
	if err != nil {
		return fmt.Errorf("resetting plan meta: %w", err)
	}
	return nil
}
