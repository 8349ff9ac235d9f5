package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/service"
)

// FormatQueueList renders the flat queue table in sort-key order.
func FormatQueueList(entries []*domain.QueueEntry) string {
	if len(entries) == 0 {
		return Dim("Queue is empty. Run \"studyplan queue build\" after importing a curriculum.") + "\n"
	}

	headers := []string{"SEQ", "SECTION", "CHAPTER", "TOPIC", "EST", "PROGRESS", "STATE"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Seq,
			e.Section,
			Truncate(e.ChapterName, 24),
			Truncate(e.TopicName, 32),
			FormatMinutes(e.Minutes),
			FormatProgress(e.CompletedMin, e.Minutes),
			StateIndicator(e.State),
		})
	}
	return RenderTable(headers, rows)
}

// FormatQueueGrouped renders the hierarchical section → chapter → topic view.
func FormatQueueGrouped(groups []service.SectionGroup) string {
	if len(groups) == 0 {
		return Dim("Queue is empty.") + "\n"
	}

	var b strings.Builder
	for gi, g := range groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(g.Section))
		b.WriteString("\n")
		for _, ch := range g.Chapters {
			b.WriteString(Bold(ch.ChapterName))
			b.WriteString("\n")
			for _, e := range ch.Topics {
				b.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
					Dim(e.Seq),
					Truncate(e.TopicName, 40),
					Dim(FormatMinutes(e.Minutes)),
					StateIndicator(e.State)))
			}
		}
	}
	return b.String()
}

// FormatQueueEntry renders one entry in full: header, placements, and the
// subtopic breakdown.
func FormatQueueEntry(e *domain.QueueEntry) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s %s", e.Seq, e.TopicName)))
	b.WriteString("\n")
	b.WriteString(RenderKeyValues([][2]string{
		{"Section", e.Section},
		{"Chapter", e.ChapterName},
		{"Estimate", FormatMinutes(e.Minutes)},
		{"Progress", FormatProgress(e.CompletedMin, e.Minutes)},
		{"State", StateIndicator(e.State)},
	}))

	if len(e.ScheduledDates) > 0 {
		days := make([]string, 0, len(e.ScheduledDates))
		for day := range e.ScheduledDates {
			days = append(days, day)
		}
		sort.Strings(days)
		b.WriteString("\n")
		b.WriteString(Bold("Scheduled"))
		b.WriteString("\n")
		for _, day := range days {
			b.WriteString(fmt.Sprintf("  %s  %s\n", day, subtopicNames(e, e.ScheduledDates[day])))
		}
	}

	if len(e.Subtopics) > 0 {
		b.WriteString("\n")
		b.WriteString(Bold("Subtopics"))
		b.WriteString("\n")
		for _, st := range e.Subtopics {
			marker := Dim("·")
			if e.CompletedSub[st.SubIdx] {
				marker = StyleGreen.Render("✓")
			} else if e.ScheduledDayOf(st.SubIdx) != "" {
				marker = StyleYellow.Render("◆")
			}
			b.WriteString(fmt.Sprintf("  %s [%d] %s %s\n",
				marker, st.SubIdx, st.Name, Dim(FormatMinutes(st.Minutes))))
		}
	}
	return b.String()
}

func subtopicNames(e *domain.QueueEntry, idxs []int) string {
	parts := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		if idx == domain.WholeTopicIdx {
			parts = append(parts, "whole topic")
			continue
		}
		if st, ok := e.SubtopicByIdx(idx); ok {
			parts = append(parts, st.Name)
		} else {
			parts = append(parts, fmt.Sprintf("[%d]", idx))
		}
	}
	return Dim(strings.Join(parts, ", "))
}

// FormatPlaceResult renders the outcome of a scheduling operation.
func FormatPlaceResult(r *service.PlaceResult) string {
	if !r.Placed() {
		reason := r.Reason
		if reason == "" {
			reason = "nothing placed"
		}
		return StyleYellow.Render("∅ ") + reason + "\n"
	}
	msg := fmt.Sprintf("%s placed %s on %s",
		r.EntrySeq, FormatMinutes(r.PlacedMin), strings.Join(r.Days, ", "))
	out := StyleGreen.Render("✓ ") + msg + "\n"
	if r.Reason != "" {
		out += Dim("  " + r.Reason + "\n")
	}
	return out
}
