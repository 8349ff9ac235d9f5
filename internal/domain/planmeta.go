package domain

import "time"

// PlanMeta is the single per-learner planning record: the study window,
// the default daily budget, and the pointer to the next actionable day.
type PlanMeta struct {
	ID                string
	StartDate         string
	ExamDate          string
	DailyMin          int
	CurrentDay        string
	HasCompletedSetup bool
	UpdatedAt         time.Time
}

// DefaultPlanMetaID is the row key for the single plan meta record.
const DefaultPlanMetaID = "default"

// AvailableStudyDays counts the days usable for study between start and
// exam; the exam day itself is excluded.
func (m *PlanMeta) AvailableStudyDays() int {
	d := DaysBetween(m.StartDate, m.ExamDate) - 1
	if d < 0 {
		return 0
	}
	return d
}
