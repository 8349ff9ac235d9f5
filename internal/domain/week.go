package domain

import "time"

// ScheduleSlice is the placement of one subtopic (or a whole topic when
// SubIdx is nil) on one calendar day.
type ScheduleSlice struct {
	ID          string
	WeekKey     string
	Day         string
	EntrySeq    string
	TopicID     string
	SubIdx      *int
	SubID       string
	Minutes     int
	Section     string
	ChapterID   string
	ChapterName string
	Title       string

	Completed       bool
	Status          SliceStatus
	CompletedAt     *time.Time
	PercentComplete int
}

// WeekPlan is one ISO week of the study calendar. All 7 days exist from
// the moment the week is created.
type WeekPlan struct {
	WeekKey         string
	DefaultDailyMin int
	DayCaps         map[string]int
	OffDays         map[string]bool
	DoneDays        map[string]bool
	Assigned        map[string][]ScheduleSlice
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewWeekPlan initializes a week with every day carrying the default
// daily-minutes budget.
func NewWeekPlan(weekKey string, defaultDailyMin int, now time.Time) *WeekPlan {
	w := &WeekPlan{
		WeekKey:         weekKey,
		DefaultDailyMin: defaultDailyMin,
		DayCaps:         make(map[string]int, 7),
		OffDays:         make(map[string]bool, 7),
		DoneDays:        make(map[string]bool, 7),
		Assigned:        make(map[string][]ScheduleSlice, 7),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, day := range WeekDays(weekKey) {
		w.DayCaps[day] = defaultDailyMin
	}
	return w
}

// ContainsDay reports whether day falls inside this week.
func (w *WeekPlan) ContainsDay(day string) bool {
	diff := DaysBetween(w.WeekKey, day)
	return diff >= 0 && diff < 7
}

// UsedMin sums the minutes of slices already assigned to day.
func (w *WeekPlan) UsedMin(day string) int {
	used := 0
	for _, s := range w.Assigned[day] {
		used += s.Minutes
	}
	return used
}

// RemainingMin is the schedulable capacity left on day: zero for off days,
// never negative.
func (w *WeekPlan) RemainingMin(day string) int {
	if w.OffDays[day] {
		return 0
	}
	rem := w.DayCaps[day] - w.UsedMin(day)
	if rem < 0 {
		return 0
	}
	return rem
}

// SlicesForEntry returns the slices on day belonging to the given entry.
func (w *WeekPlan) SlicesForEntry(day, seq string) []ScheduleSlice {
	var out []ScheduleSlice
	for _, s := range w.Assigned[day] {
		if s.EntrySeq == seq {
			out = append(out, s)
		}
	}
	return out
}
