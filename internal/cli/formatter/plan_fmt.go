package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/scheduler"
)

// FormatPlanMeta renders the plan overview.
func FormatPlanMeta(m *domain.PlanMeta) string {
	var b strings.Builder
	b.WriteString(Header("Study plan"))
	b.WriteString("\n")
	if !m.HasCompletedSetup {
		b.WriteString(Dim("Setup incomplete. Run \"studyplan plan setup\" to begin.") + "\n")
		return b.String()
	}
	b.WriteString(RenderKeyValues([][2]string{
		{"Start", m.StartDate},
		{"Exam", m.ExamDate},
		{"Study days", fmt.Sprintf("%d", m.AvailableStudyDays())},
		{"Daily budget", FormatMinutes(m.DailyMin)},
		{"Current day", m.CurrentDay},
	}))
	return b.String()
}

// FormatDayBudget renders the proportional day-budget allocation: per-section
// budgets, the dated chapter assignments, and anything dropped.
func FormatDayBudget(r *scheduler.PlanResult) string {
	var b strings.Builder
	b.WriteString(Header("Day budgets"))
	b.WriteString("\n")

	sections := make([]string, 0, len(r.Budgets))
	for sec := range r.Budgets {
		sections = append(sections, sec)
	}
	sort.Strings(sections)
	pairs := make([][2]string, 0, len(sections))
	for _, sec := range sections {
		val := fmt.Sprintf("%d days", r.Budgets[sec])
		if dropped := r.Dropped[sec]; dropped > 0 {
			val += " " + StyleRed.Render(fmt.Sprintf("(%d chapters dropped)", dropped))
		}
		pairs = append(pairs, [2]string{sec, val})
	}
	b.WriteString(RenderKeyValues(pairs))

	if len(r.Days) > 0 {
		b.WriteString("\n")
		headers := []string{"DATE", "SECTION", "CHAPTERS"}
		rows := make([][]string, 0, len(r.Days))
		for _, day := range r.Days {
			rows = append(rows, []string{day.Date, day.Section, chapterLabels(day.Chapters)})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	return b.String()
}

func chapterLabels(chapters []scheduler.ChapterAssignment) string {
	parts := make([]string, 0, len(chapters))
	for _, ca := range chapters {
		label := ca.Chapter.Name
		if ca.Label != "" {
			label += " " + Dim("("+ca.Label+")")
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}
