package formatter

import (
	"fmt"
	"strings"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/service"
)

// FormatWeek renders the 7-day calendar of one week plan.
func FormatWeek(w *domain.WeekPlan, currentDay string) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Week of %s", w.WeekKey)))
	b.WriteString("\n")

	for _, day := range domain.WeekDays(w.WeekKey) {
		b.WriteString(formatDayLine(w, day, day == currentDay))
		for _, sl := range w.Assigned[day] {
			marker := Dim("·")
			if sl.Completed {
				marker = StyleGreen.Render("✓")
			}
			b.WriteString(fmt.Sprintf("    %s %s %s %s\n",
				marker, Dim(sl.EntrySeq), Truncate(sl.Title, 44), Dim(FormatMinutes(sl.Minutes))))
		}
	}
	return b.String()
}

func formatDayLine(w *domain.WeekPlan, day string, isCurrent bool) string {
	weekday := dayOfWeek(day)
	label := fmt.Sprintf("%s %s", day, weekday)
	if isCurrent {
		label = StyleBold.Render(label) + " " + StylePurple.Render("← today")
	}

	switch {
	case w.OffDays[day]:
		return fmt.Sprintf("  %s  %s\n", label, Dim("off"))
	case w.DoneDays[day]:
		return fmt.Sprintf("  %s  %s\n", label, StyleGreen.Render("done"))
	default:
		used := w.UsedMin(day)
		capMin := w.DayCaps[day]
		usage := fmt.Sprintf("%s / %s", FormatMinutes(used), FormatMinutes(capMin))
		style := StyleBlue
		if capMin > 0 && used >= capMin {
			style = StyleYellow
		}
		return fmt.Sprintf("  %s  %s\n", label, style.Render(usage))
	}
}

func dayOfWeek(day string) string {
	t, err := domain.ParseDay(day)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}

// FormatAutoFill renders the result of an auto-fill pass.
func FormatAutoFill(r *service.AutoFillResult) string {
	if r.PlacedSub == 0 {
		return Dim("Nothing to fill: the week is at capacity or the queue is drained.") + "\n"
	}
	return StyleGreen.Render("✓ ") + fmt.Sprintf("filled %s across %d entries (%d slices) in week %s\n",
		FormatMinutes(r.PlacedMin), r.EntriesTouched, r.PlacedSub, r.WeekKey)
}

// FormatCompleteDay renders the result of finalizing a day.
func FormatCompleteDay(r *service.CompleteDayResult) string {
	if r.AlreadyDone {
		return Dim(fmt.Sprintf("%s was already completed.", r.Day)) + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✓ "))
	b.WriteString(fmt.Sprintf("completed %s: %s across %d entries\n",
		r.Day, FormatMinutes(r.CompletedMin), r.EntriesTouched))
	b.WriteString(Dim(fmt.Sprintf("  next study day: %s\n", r.NextDay)))
	if r.NewWeekCreated {
		b.WriteString(Dim("  opened a new week\n"))
	}
	return b.String()
}
