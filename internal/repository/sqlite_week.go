package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
)

// sliceColumns is the canonical SELECT column list for slices.
const sliceColumns = `id, week_key, day, entry_seq, topic_id, sub_idx, sub_id,
		minutes, section, chapter_id, chapter_name, title,
		completed, status, completed_at, percent_complete`

// SQLiteWeekRepo implements WeekRepo over a DBTX.
type SQLiteWeekRepo struct {
	db db.DBTX
}

// NewSQLiteWeekRepo creates a new SQLiteWeekRepo.
func NewSQLiteWeekRepo(conn db.DBTX) *SQLiteWeekRepo {
	return &SQLiteWeekRepo{db: conn}
}

func (r *SQLiteWeekRepo) Get(ctx context.Context, weekKey string) (*domain.WeekPlan, error) {
	var w domain.WeekPlan
	var createdAtStr, updatedAtStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT week_key, default_daily_min, created_at, updated_at FROM week_plans WHERE week_key = ?`,
		weekKey).Scan(&w.WeekKey, &w.DefaultDailyMin, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("week plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning week plan: %w", err)
	}
	if w.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if w.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	w.DayCaps = make(map[string]int, 7)
	w.OffDays = make(map[string]bool, 7)
	w.DoneDays = make(map[string]bool, 7)
	w.Assigned = make(map[string][]domain.ScheduleSlice, 7)

	dayRows, err := r.db.QueryContext(ctx,
		`SELECT day, cap_min, off, done FROM week_days WHERE week_key = ? ORDER BY day`, weekKey)
	if err != nil {
		return nil, fmt.Errorf("listing week days: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var day string
		var capMin, offInt, doneInt int
		if err := dayRows.Scan(&day, &capMin, &offInt, &doneInt); err != nil {
			return nil, fmt.Errorf("scanning week day: %w", err)
		}
		w.DayCaps[day] = capMin
		if intToBool(offInt) {
			w.OffDays[day] = true
		}
		if intToBool(doneInt) {
			w.DoneDays[day] = true
		}
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating week days: %w", err)
	}

	sliceRows, err := r.db.QueryContext(ctx,
		`SELECT `+sliceColumns+` FROM slices WHERE week_key = ? ORDER BY day, id`, weekKey)
	if err != nil {
		return nil, fmt.Errorf("listing slices: %w", err)
	}
	defer sliceRows.Close()
	for sliceRows.Next() {
		s, err := r.scanSlice(sliceRows)
		if err != nil {
			return nil, err
		}
		w.Assigned[s.Day] = append(w.Assigned[s.Day], *s)
	}
	if err := sliceRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slices: %w", err)
	}

	return &w, nil
}

func (r *SQLiteWeekRepo) Create(ctx context.Context, w *domain.WeekPlan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO week_plans (week_key, default_daily_min, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		w.WeekKey, w.DefaultDailyMin,
		w.CreatedAt.Format(time.RFC3339), w.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting week plan: %w", err)
	}
	for _, day := range domain.WeekDays(w.WeekKey) {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO week_days (week_key, day, cap_min, off, done) VALUES (?, ?, ?, ?, ?)`,
			w.WeekKey, day, w.DayCaps[day], boolToInt(w.OffDays[day]), boolToInt(w.DoneDays[day])); err != nil {
			return fmt.Errorf("inserting week day: %w", err)
		}
	}
	return nil
}

func (r *SQLiteWeekRepo) SetDay(ctx context.Context, weekKey, day string, capMin int, off, done bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE week_days SET cap_min = ?, off = ?, done = ? WHERE week_key = ? AND day = ?`,
		capMin, boolToInt(off), boolToInt(done), weekKey, day)
	if err != nil {
		return fmt.Errorf("updating week day: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("week day %s/%s: %w", weekKey, day, ErrNotFound)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE week_plans SET updated_at = ? WHERE week_key = ?`,
		time.Now().UTC().Format(time.RFC3339), weekKey); err != nil {
		return fmt.Errorf("touching week plan: %w", err)
	}
	return nil
}

func (r *SQLiteWeekRepo) InsertSlice(ctx context.Context, s *domain.ScheduleSlice) error {
	query := `INSERT INTO slices (` + sliceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.WeekKey,
		s.Day,
		s.EntrySeq,
		s.TopicID,
		nullableIntToValue(s.SubIdx),
		s.SubID,
		s.Minutes,
		s.Section,
		s.ChapterID,
		s.ChapterName,
		s.Title,
		boolToInt(s.Completed),
		string(s.Status),
		nullableTimeToString(s.CompletedAt, time.RFC3339),
		s.PercentComplete,
	)
	if err != nil {
		return fmt.Errorf("inserting slice: %w", err)
	}
	return nil
}

func (r *SQLiteWeekRepo) DeleteEntrySlices(ctx context.Context, weekKey, day, entrySeq string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM slices WHERE week_key = ? AND day = ? AND entry_seq = ? AND completed = 0`,
		weekKey, day, entrySeq)
	if err != nil {
		return fmt.Errorf("deleting entry slices: %w", err)
	}
	return nil
}

func (r *SQLiteWeekRepo) DeleteEntrySlicesEverywhere(ctx context.Context, entrySeq string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM slices WHERE entry_seq = ? AND completed = 0`, entrySeq)
	if err != nil {
		return fmt.Errorf("deleting entry slices everywhere: %w", err)
	}
	return nil
}

func (r *SQLiteWeekRepo) CompleteDaySlices(ctx context.Context, weekKey, day string, completedAt string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE slices SET completed = 1, status = 'completed', completed_at = ?, percent_complete = 100
		 WHERE week_key = ? AND day = ? AND completed = 0`,
		completedAt, weekKey, day)
	if err != nil {
		return fmt.Errorf("completing day slices: %w", err)
	}
	return nil
}

func (r *SQLiteWeekRepo) DeleteAll(ctx context.Context) error {
	for _, table := range []string{"slices", "week_days", "week_plans"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (r *SQLiteWeekRepo) scanSlice(rows *sql.Rows) (*domain.ScheduleSlice, error) {
	var s domain.ScheduleSlice
	var subIdx sql.NullInt64
	var statusStr string
	var completedInt int
	var completedAtStr sql.NullString

	err := rows.Scan(&s.ID, &s.WeekKey, &s.Day, &s.EntrySeq, &s.TopicID, &subIdx, &s.SubID,
		&s.Minutes, &s.Section, &s.ChapterID, &s.ChapterName, &s.Title,
		&completedInt, &statusStr, &completedAtStr, &s.PercentComplete)
	if err != nil {
		return nil, fmt.Errorf("scanning slice: %w", err)
	}

	if subIdx.Valid {
		v := int(subIdx.Int64)
		s.SubIdx = &v
	}
	s.Completed = intToBool(completedInt)
	s.Status = domain.SliceStatus(statusStr)
	s.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
	return &s, nil
}
