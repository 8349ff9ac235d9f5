package scheduler

import (
	"fmt"
	"sort"

	"github.com/njovanovic/studyplan/internal/domain"
)

// packSection turns a section's day budget into per-day chapter bins.
// With budget >= chapter count every chapter gets a day and surplus days
// are handed out round-robin by priority as extra days on the same chapter.
// With budget < chapter count, chapters are selected by priority up to
// budget*maxPerDay, round-robined into bins, and rebalanced. Returns the
// bins plus how many lowest-priority chapters were dropped.
func packSection(sec SectionInput, budget, maxPerDay int) ([][]ChapterAssignment, int) {
	if budget <= 0 || len(sec.Chapters) == 0 {
		return nil, len(sec.Chapters)
	}

	chapters := make([]ChapterInput, len(sec.Chapters))
	copy(chapters, sec.Chapters)
	sortByPriority(chapters)

	if budget >= len(chapters) {
		return spreadWithSurplus(chapters, budget), 0
	}

	capacity := budget * maxPerDay
	dropped := 0
	if len(chapters) > capacity {
		dropped = len(chapters) - capacity
		chapters = chapters[:capacity]
	}

	bins := roundRobinBins(chapters, budget)
	rebalanceBins(bins, maxPerDay)

	out := make([][]ChapterAssignment, len(bins))
	for i, bin := range bins {
		for _, ch := range bin {
			out[i] = append(out[i], ChapterAssignment{Chapter: ch})
		}
	}
	return out, dropped
}

// spreadWithSurplus gives each chapter one day, then distributes the
// surplus round-robin in priority order as additional days for the same
// chapter, labeling multi-day chapters "Day i of N".
func spreadWithSurplus(chapters []ChapterInput, budget int) [][]ChapterAssignment {
	daysPer := make([]int, len(chapters))
	for i := range daysPer {
		daysPer[i] = 1
	}
	surplus := budget - len(chapters)
	for i := 0; surplus > 0; i = (i + 1) % len(chapters) {
		daysPer[i]++
		surplus--
	}

	var bins [][]ChapterAssignment
	for i, ch := range chapters {
		n := daysPer[i]
		for d := 1; d <= n; d++ {
			a := ChapterAssignment{Chapter: ch}
			if n > 1 {
				a.Label = fmt.Sprintf("Day %d of %d", d, n)
			}
			bins = append(bins, []ChapterAssignment{a})
		}
	}
	return bins
}

// roundRobinBins deals chapters into count bins, one at a time.
func roundRobinBins(chapters []ChapterInput, count int) [][]ChapterInput {
	bins := make([][]ChapterInput, count)
	for i, ch := range chapters {
		bins[i%count] = append(bins[i%count], ch)
	}
	return bins
}

// rebalanceBins levels bin loads: repeatedly move one chapter from the
// most-loaded bin to the least-loaded bin until the loads differ by at
// most one. Each touched bin is re-sorted by priority after every move.
// Iterations are bounded so a pathological input cannot loop forever.
func rebalanceBins(bins [][]ChapterInput, maxPerDay int) {
	maxIter := len(bins) * maxPerDay
	for iter := 0; iter < maxIter; iter++ {
		hi, lo := 0, 0
		for i := range bins {
			if len(bins[i]) > len(bins[hi]) {
				hi = i
			}
			if len(bins[i]) < len(bins[lo]) {
				lo = i
			}
		}
		if len(bins[hi])-len(bins[lo]) <= 1 {
			return
		}
		last := len(bins[hi]) - 1
		moved := bins[hi][last]
		bins[hi] = bins[hi][:last]
		bins[lo] = append(bins[lo], moved)
		sortByPriority(bins[hi])
		sortByPriority(bins[lo])
	}
}

// sortByPriority orders chapters must > good > nice, then by curriculum
// order.
func sortByPriority(chapters []ChapterInput) {
	sort.SliceStable(chapters, func(a, b int) bool {
		ra, rb := domain.CategoryRank(chapters[a].Category), domain.CategoryRank(chapters[b].Category)
		if ra != rb {
			return ra < rb
		}
		return chapters[a].Order < chapters[b].Order
	})
}
