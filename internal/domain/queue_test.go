package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subEntry(minutes ...int) *QueueEntry {
	e := &QueueEntry{
		Seq:            "Q0001",
		SortKey:        1,
		State:          QueueQueued,
		ScheduledDates: map[string][]int{},
		CompletedSub:   map[int]bool{},
	}
	total := 0
	for i, m := range minutes {
		e.Subtopics = append(e.Subtopics, Subtopic{SubIdx: i, Minutes: m})
		total += m
	}
	e.Minutes = total
	return e
}

func TestUnplacedSubtopicsSkipsScheduledAndCompleted(t *testing.T) {
	e := subEntry(10, 10, 10, 10)
	e.ScheduledDates["2026-03-02"] = []int{1}
	e.CompletedSub[3] = true

	unplaced := e.UnplacedSubtopics()
	require.Len(t, unplaced, 2)
	assert.Equal(t, 0, unplaced[0].SubIdx)
	assert.Equal(t, 2, unplaced[1].SubIdx)
}

func TestScheduledDayOf(t *testing.T) {
	e := subEntry(10, 10)
	e.ScheduledDates["2026-03-02"] = []int{1}

	assert.Equal(t, "2026-03-02", e.ScheduledDayOf(1))
	assert.Equal(t, "", e.ScheduledDayOf(0))
}

func TestRecomputeMinutes(t *testing.T) {
	e := subEntry(10, 20, 30)
	e.ScheduledDates["2026-03-02"] = []int{0, 1}
	e.CompletedSub[2] = true

	e.RecomputeMinutes()
	assert.Equal(t, 30, e.ScheduledMin)
	assert.Equal(t, 30, e.CompletedMin)
}

func TestRecomputeMinutesWholeTopic(t *testing.T) {
	e := &QueueEntry{
		Seq:            "Q0002",
		Minutes:        45,
		State:          QueueQueued,
		ScheduledDates: map[string][]int{"2026-03-02": {WholeTopicIdx}},
		CompletedSub:   map[int]bool{},
	}

	e.RecomputeMinutes()
	assert.Equal(t, 45, e.ScheduledMin)
	assert.Equal(t, 0, e.CompletedMin)

	e.ScheduledDates = map[string][]int{}
	e.State = QueueDone
	e.RecomputeMinutes()
	assert.Equal(t, 45, e.CompletedMin)
}

func TestDeriveState(t *testing.T) {
	e := subEntry(10, 10)
	e.DeriveState()
	assert.Equal(t, QueueQueued, e.State)

	e.ScheduledDates["2026-03-02"] = []int{0}
	e.DeriveState()
	assert.Equal(t, QueueInProgress, e.State)

	e.ScheduledDates = map[string][]int{}
	e.CompletedSub[0] = true
	e.CompletedSub[1] = true
	e.DeriveState()
	assert.Equal(t, QueueDone, e.State)
}

func TestDeriveStateRemovedIsSticky(t *testing.T) {
	e := subEntry(10)
	e.State = QueueRemoved
	e.CompletedSub[0] = true
	e.DeriveState()
	assert.Equal(t, QueueRemoved, e.State)
}

func TestFormatSeq(t *testing.T) {
	assert.Equal(t, "Q0001", FormatSeq(1))
	assert.Equal(t, "Q0042", FormatSeq(42))
	assert.Equal(t, "Q12345", FormatSeq(12345))
}
