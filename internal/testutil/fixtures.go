package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/njovanovic/studyplan/internal/domain"
)

var seqCounter atomic.Int64

// NextSeq returns a fresh queue sequence identifier for tests.
func NextSeq() string {
	return domain.FormatSeq(int(seqCounter.Add(1)))
}

// Curriculum node options

type NodeOption func(*domain.CurriculumNode)

func WithNodeOrder(ord int) NodeOption {
	return func(n *domain.CurriculumNode) { n.Order = ord }
}

func WithNodeCategory(c domain.Category) NodeOption {
	return func(n *domain.CurriculumNode) { n.Category = c }
}

func WithNodeMinutes(min int) NodeOption {
	return func(n *domain.CurriculumNode) { n.EstimatedMin = min }
}

func WithFoundational() NodeOption {
	return func(n *domain.CurriculumNode) { n.Foundational = true }
}

// NewChapterNode builds a chapter-level curriculum node.
func NewChapterNode(section, id, name string, opts ...NodeOption) *domain.CurriculumNode {
	n := &domain.CurriculumNode{
		Section:   section,
		ID:        id,
		Level:     domain.LevelChapter,
		Name:      name,
		Category:  domain.CategoryGood,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewTopicNode builds a topic-level curriculum node under a chapter.
func NewTopicNode(section, chapterID, id, name string, opts ...NodeOption) *domain.CurriculumNode {
	n := &domain.CurriculumNode{
		Section:   section,
		ID:        id,
		Level:     domain.LevelTopic,
		ParentID:  chapterID,
		Name:      name,
		Category:  domain.CategoryGood,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewSubtopicNode builds a subtopic-level curriculum node under a topic.
func NewSubtopicNode(section, topicID, id, name string, opts ...NodeOption) *domain.CurriculumNode {
	n := &domain.CurriculumNode{
		Section:      section,
		ID:           id,
		Level:        domain.LevelSubtopic,
		ParentID:     topicID,
		Name:         name,
		Category:     domain.CategoryGood,
		EstimatedMin: domain.SubtopicAtomicMin,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Queue entry options

type EntryOption func(*domain.QueueEntry)

func WithSortKey(key int64) EntryOption {
	return func(e *domain.QueueEntry) { e.SortKey = key }
}

func WithState(s domain.QueueState) EntryOption {
	return func(e *domain.QueueEntry) { e.State = s }
}

func WithMinutes(min int) EntryOption {
	return func(e *domain.QueueEntry) { e.Minutes = min }
}

// WithSubtopics attaches n subtopics of minutes each, indexed from 0, and
// sets the entry's total accordingly.
func WithSubtopics(n, minutes int) EntryOption {
	return func(e *domain.QueueEntry) {
		e.Subtopics = make([]domain.Subtopic, n)
		for i := range e.Subtopics {
			e.Subtopics[i] = domain.Subtopic{
				SubIdx:  i,
				ItemID:  fmt.Sprintf("%s-sub-%d", e.TopicID, i),
				Name:    fmt.Sprintf("Subtopic %d", i+1),
				Minutes: minutes,
			}
		}
		e.Minutes = n * minutes
	}
}

// NewQueueEntry builds a queued entry with sensible defaults: one chapter,
// one topic, no subtopics, sort key from the sequence number.
func NewQueueEntry(seq string, opts ...EntryOption) *domain.QueueEntry {
	now := time.Now().UTC()
	var key int64
	fmt.Sscanf(seq, "Q%04d", &key)
	e := &domain.QueueEntry{
		Seq:            seq,
		SortKey:        key,
		Section:        "anatomy",
		ChapterID:      "ch-1",
		ChapterName:    "Chapter One",
		TopicID:        "top-" + seq,
		TopicName:      "Topic " + seq,
		Minutes:        30,
		ScheduledDates: map[string][]int{},
		CompletedSub:   map[int]bool{},
		State:          domain.QueueQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Week plan options

type WeekOption func(*domain.WeekPlan)

func WithDayCap(day string, capMin int) WeekOption {
	return func(w *domain.WeekPlan) { w.DayCaps[day] = capMin }
}

func WithOffDay(day string) WeekOption {
	return func(w *domain.WeekPlan) { w.OffDays[day] = true }
}

func WithDoneDay(day string) WeekOption {
	return func(w *domain.WeekPlan) { w.DoneDays[day] = true }
}

// NewWeekPlan builds a week with all 7 days at the given default budget.
func NewWeekPlan(weekKey string, defaultDailyMin int, opts ...WeekOption) *domain.WeekPlan {
	w := domain.NewWeekPlan(weekKey, defaultDailyMin, time.Now().UTC())
	for _, opt := range opts {
		opt(w)
	}
	return w
}
