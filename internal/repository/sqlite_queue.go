package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
)

// queueColumns is the canonical SELECT column list for queue_entries.
const queueColumns = `seq, sort_key, section, chapter_id, chapter_name,
		topic_id, topic_name, minutes, scheduled_min, completed_min, state,
		created_at, updated_at`

// SQLiteQueueRepo implements QueueRepo over a DBTX. Loading an entry also
// loads its subtopics, scheduled-date set, and completed-index set.
type SQLiteQueueRepo struct {
	db db.DBTX
}

// NewSQLiteQueueRepo creates a new SQLiteQueueRepo.
func NewSQLiteQueueRepo(conn db.DBTX) *SQLiteQueueRepo {
	return &SQLiteQueueRepo{db: conn}
}

func (r *SQLiteQueueRepo) Create(ctx context.Context, e *domain.QueueEntry) error {
	query := `INSERT INTO queue_entries (seq, sort_key, section, chapter_id, chapter_name,
			topic_id, topic_name, minutes, scheduled_min, completed_min, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.Seq,
		e.SortKey,
		e.Section,
		e.ChapterID,
		e.ChapterName,
		e.TopicID,
		e.TopicName,
		e.Minutes,
		e.ScheduledMin,
		e.CompletedMin,
		string(e.State),
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting queue entry: %w", err)
	}

	for _, st := range e.Subtopics {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO queue_subtopics (entry_seq, sub_idx, item_id, name, minutes) VALUES (?, ?, ?, ?, ?)`,
			e.Seq, st.SubIdx, st.ItemID, st.Name, st.Minutes); err != nil {
			return fmt.Errorf("inserting queue subtopic: %w", err)
		}
	}
	return nil
}

func (r *SQLiteQueueRepo) Get(ctx context.Context, seq string) (*domain.QueueEntry, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_entries WHERE seq = ?`
	row := r.db.QueryRowContext(ctx, query, seq)
	e, err := r.scanEntry(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *SQLiteQueueRepo) List(ctx context.Context, state *domain.QueueState) ([]*domain.QueueEntry, error) {
	var rows *sql.Rows
	var err error
	if state != nil {
		query := `SELECT ` + queueColumns + ` FROM queue_entries WHERE state = ? ORDER BY sort_key, seq`
		rows, err = r.db.QueryContext(ctx, query, string(*state))
	} else {
		query := `SELECT ` + queueColumns + ` FROM queue_entries ORDER BY sort_key, seq`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("listing queue entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.QueueEntry
	for rows.Next() {
		e, err := r.scanEntryFromRows(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating queue entries: %w", err)
	}

	for _, e := range entries {
		if err := r.loadDetails(ctx, e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *SQLiteQueueRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting queue entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteQueueRepo) Save(ctx context.Context, e *domain.QueueEntry) error {
	query := `UPDATE queue_entries SET sort_key = ?, minutes = ?, scheduled_min = ?,
			completed_min = ?, state = ?, updated_at = ?
		WHERE seq = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.SortKey,
		e.Minutes,
		e.ScheduledMin,
		e.CompletedMin,
		string(e.State),
		e.UpdatedAt.Format(time.RFC3339),
		e.Seq,
	)
	if err != nil {
		return fmt.Errorf("updating queue entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("queue entry %s: %w", e.Seq, ErrNotFound)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM queue_scheduled WHERE entry_seq = ?`, e.Seq); err != nil {
		return fmt.Errorf("clearing scheduled set: %w", err)
	}
	for day, idxs := range e.ScheduledDates {
		for _, idx := range idxs {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO queue_scheduled (entry_seq, sub_idx, day) VALUES (?, ?, ?)`,
				e.Seq, idx, day); err != nil {
				return fmt.Errorf("inserting scheduled index: %w", err)
			}
		}
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM queue_completed WHERE entry_seq = ?`, e.Seq); err != nil {
		return fmt.Errorf("clearing completed set: %w", err)
	}
	for idx := range e.CompletedSub {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO queue_completed (entry_seq, sub_idx) VALUES (?, ?)`,
			e.Seq, idx); err != nil {
			return fmt.Errorf("inserting completed index: %w", err)
		}
	}
	return nil
}

func (r *SQLiteQueueRepo) MaxSortKey(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(sort_key) FROM queue_entries`).Scan(&max); err != nil {
		return 0, fmt.Errorf("reading max sort key: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Int64, nil
}

func (r *SQLiteQueueRepo) DeleteAll(ctx context.Context) error {
	for _, table := range []string{"queue_scheduled", "queue_completed", "queue_subtopics", "queue_entries"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (r *SQLiteQueueRepo) scanEntry(row *sql.Row) (*domain.QueueEntry, error) {
	var e domain.QueueEntry
	var stateStr, createdAtStr, updatedAtStr string

	err := row.Scan(&e.Seq, &e.SortKey, &e.Section, &e.ChapterID, &e.ChapterName,
		&e.TopicID, &e.TopicName, &e.Minutes, &e.ScheduledMin, &e.CompletedMin,
		&stateStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("queue entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning queue entry: %w", err)
	}
	return r.populateEntry(&e, stateStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteQueueRepo) scanEntryFromRows(rows *sql.Rows) (*domain.QueueEntry, error) {
	var e domain.QueueEntry
	var stateStr, createdAtStr, updatedAtStr string

	err := rows.Scan(&e.Seq, &e.SortKey, &e.Section, &e.ChapterID, &e.ChapterName,
		&e.TopicID, &e.TopicName, &e.Minutes, &e.ScheduledMin, &e.CompletedMin,
		&stateStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("scanning queue entry row: %w", err)
	}
	return r.populateEntry(&e, stateStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteQueueRepo) populateEntry(e *domain.QueueEntry, stateStr, createdAtStr, updatedAtStr string) (*domain.QueueEntry, error) {
	e.State = domain.QueueState(stateStr)

	var parseErr error
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	e.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return e, nil
}

// loadDetails attaches subtopics and the scheduled/completed sets.
func (r *SQLiteQueueRepo) loadDetails(ctx context.Context, e *domain.QueueEntry) error {
	subRows, err := r.db.QueryContext(ctx,
		`SELECT sub_idx, item_id, name, minutes FROM queue_subtopics WHERE entry_seq = ? ORDER BY sub_idx`, e.Seq)
	if err != nil {
		return fmt.Errorf("listing subtopics: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		var st domain.Subtopic
		if err := subRows.Scan(&st.SubIdx, &st.ItemID, &st.Name, &st.Minutes); err != nil {
			return fmt.Errorf("scanning subtopic: %w", err)
		}
		e.Subtopics = append(e.Subtopics, st)
	}
	if err := subRows.Err(); err != nil {
		return fmt.Errorf("iterating subtopics: %w", err)
	}

	e.ScheduledDates = make(map[string][]int)
	schedRows, err := r.db.QueryContext(ctx,
		`SELECT sub_idx, day FROM queue_scheduled WHERE entry_seq = ? ORDER BY day, sub_idx`, e.Seq)
	if err != nil {
		return fmt.Errorf("listing scheduled indices: %w", err)
	}
	defer schedRows.Close()
	for schedRows.Next() {
		var idx int
		var day string
		if err := schedRows.Scan(&idx, &day); err != nil {
			return fmt.Errorf("scanning scheduled index: %w", err)
		}
		e.ScheduledDates[day] = append(e.ScheduledDates[day], idx)
	}
	if err := schedRows.Err(); err != nil {
		return fmt.Errorf("iterating scheduled indices: %w", err)
	}
	if len(e.ScheduledDates) == 0 {
		e.ScheduledDates = map[string][]int{}
	}

	e.CompletedSub = make(map[int]bool)
	compRows, err := r.db.QueryContext(ctx,
		`SELECT sub_idx FROM queue_completed WHERE entry_seq = ?`, e.Seq)
	if err != nil {
		return fmt.Errorf("listing completed indices: %w", err)
	}
	defer compRows.Close()
	for compRows.Next() {
		var idx int
		if err := compRows.Scan(&idx); err != nil {
			return fmt.Errorf("scanning completed index: %w", err)
		}
		e.CompletedSub[idx] = true
	}
	if err := compRows.Err(); err != nil {
		return fmt.Errorf("iterating completed indices: %w", err)
	}
	return nil
}
