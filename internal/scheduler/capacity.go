package scheduler

import "github.com/njovanovic/studyplan/internal/domain"

// GreedyFill selects subtopics for a day under the remaining-minutes budget.
// Selection is strict index-order greedy: subtopics are taken front to back
// and the scan stops at the first one that would overflow. No reordering to
// fit more — predictable ordering beats packing density here.
func GreedyFill(subtopics []domain.Subtopic, remainingMin int) []domain.Subtopic {
	var picked []domain.Subtopic
	used := 0
	for _, st := range subtopics {
		if used+st.Minutes > remainingMin {
			break
		}
		picked = append(picked, st)
		used += st.Minutes
	}
	return picked
}

// Fits reports whether a single subtopic fits into the remaining minutes.
func Fits(st domain.Subtopic, remainingMin int) bool {
	return st.Minutes <= remainingMin
}

// Minutes sums the minutes of the given subtopics.
func Minutes(subtopics []domain.Subtopic) int {
	total := 0
	for _, st := range subtopics {
		total += st.Minutes
	}
	return total
}
