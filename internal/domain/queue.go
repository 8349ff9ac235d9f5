package domain

import (
	"fmt"
	"time"
)

// Subtopic is one schedulable unit inside a queue entry. SubIdx is assigned
// once when the queue is built and is the permanent address used by every
// scheduling operation.
type Subtopic struct {
	SubIdx  int
	ItemID  string
	Name    string
	Minutes int
}

// QueueEntry is one schedulable topic with its subtopic breakdown, tracked
// independently of any particular day. Entries are globally ordered by
// SortKey (smaller = scheduled sooner).
type QueueEntry struct {
	Seq         string
	SortKey     int64
	Section     string
	ChapterID   string
	ChapterName string
	TopicID     string
	TopicName   string
	Minutes     int
	Subtopics   []Subtopic

	// ScheduledDates maps a day key to the subtopic indices placed on that
	// day. A given SubIdx appears on at most one day.
	ScheduledDates map[string][]int
	CompletedSub   map[int]bool

	ScheduledMin int
	CompletedMin int
	State        QueueState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WholeTopicIdx marks a whole-topic placement inside ScheduledDates for
// entries that have no subtopic breakdown. It never collides with real
// subtopic indices, which start at 0.
const WholeTopicIdx = -1

// FormatSeq renders the zero-padded stable queue identifier.
func FormatSeq(n int) string {
	return fmt.Sprintf("Q%04d", n)
}

// SubtopicByIdx looks up a subtopic by its permanent index.
func (e *QueueEntry) SubtopicByIdx(idx int) (Subtopic, bool) {
	for _, st := range e.Subtopics {
		if st.SubIdx == idx {
			return st, true
		}
	}
	return Subtopic{}, false
}

// PlacedSub reports every subtopic index that is either scheduled on some
// day or already completed.
func (e *QueueEntry) PlacedSub() map[int]bool {
	placed := make(map[int]bool, len(e.Subtopics))
	for _, idxs := range e.ScheduledDates {
		for _, idx := range idxs {
			placed[idx] = true
		}
	}
	for idx := range e.CompletedSub {
		placed[idx] = true
	}
	return placed
}

// UnplacedSubtopics returns the subtopics with no placement yet, in SubIdx
// order. Scheduling always consumes this list front to back.
func (e *QueueEntry) UnplacedSubtopics() []Subtopic {
	placed := e.PlacedSub()
	var out []Subtopic
	for _, st := range e.Subtopics {
		if !placed[st.SubIdx] {
			out = append(out, st)
		}
	}
	return out
}

// ScheduledDayOf returns the day a subtopic index is currently placed on,
// or "" when it is unscheduled.
func (e *QueueEntry) ScheduledDayOf(idx int) string {
	for day, idxs := range e.ScheduledDates {
		for _, i := range idxs {
			if i == idx {
				return day
			}
		}
	}
	return ""
}

// AllSubCompleted reports whether every subtopic index is in CompletedSub.
// Entries without subtopics are never "all completed" through this path;
// they complete as whole topics.
func (e *QueueEntry) AllSubCompleted() bool {
	if len(e.Subtopics) == 0 {
		return false
	}
	for _, st := range e.Subtopics {
		if !e.CompletedSub[st.SubIdx] {
			return false
		}
	}
	return true
}

// RecomputeMinutes refreshes ScheduledMin and CompletedMin from the
// current placement and completion sets.
func (e *QueueEntry) RecomputeMinutes() {
	scheduled := 0
	for _, idxs := range e.ScheduledDates {
		for _, idx := range idxs {
			if idx == WholeTopicIdx {
				scheduled += e.Minutes
				continue
			}
			if st, ok := e.SubtopicByIdx(idx); ok {
				scheduled += st.Minutes
			}
		}
	}
	completed := 0
	if len(e.Subtopics) == 0 {
		if e.State == QueueDone {
			completed = e.Minutes
		}
	} else {
		for idx := range e.CompletedSub {
			if st, ok := e.SubtopicByIdx(idx); ok {
				completed += st.Minutes
			}
		}
	}
	e.ScheduledMin = scheduled
	e.CompletedMin = completed
}

// DeriveState recomputes the queue state from placement and completion:
// done when everything is completed, in progress when anything is scheduled
// or partially completed, queued otherwise. Removed entries stay removed.
func (e *QueueEntry) DeriveState() {
	if e.State == QueueRemoved {
		return
	}
	switch {
	case e.AllSubCompleted() || (len(e.Subtopics) == 0 && e.State == QueueDone):
		e.State = QueueDone
	case len(e.ScheduledDates) > 0 || len(e.CompletedSub) > 0:
		e.State = QueueInProgress
	default:
		e.State = QueueQueued
	}
}
