package scheduler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/njovanovic/studyplan/internal/domain"
)

// ErrInfeasible reports that the requested day budgets cannot fit into the
// available study window. It is raised before any output is produced.
var ErrInfeasible = errors.New("infeasible day budget")

// ChapterInput is one chapter of a section, as seen by the day-budget
// planner.
type ChapterInput struct {
	ID       string
	Name     string
	Category domain.Category
	Order    int
}

// SectionInput is one curriculum section with its default day weight, an
// optional user-locked day count, and its chapters.
type SectionInput struct {
	Name        string
	DefaultDays int
	LockedDays  *int
	Chapters    []ChapterInput
}

// PlanRequest is the full input to the proportional day-budget planner.
type PlanRequest struct {
	StartDate string
	ExamDate  string
	MaxPerDay int
	Sections  []SectionInput
}

// ChapterAssignment is a chapter placed on a study day, labeled when the
// chapter spans multiple days ("Day 2 of 3").
type ChapterAssignment struct {
	Chapter ChapterInput
	Label   string
}

// DayAssignment is one calendar study day with its chapters.
type DayAssignment struct {
	Date     string
	Section  string
	Chapters []ChapterAssignment
}

// PlanResult is the planner output: dated day assignments in section order
// plus, per section, how many lowest-priority chapters did not fit.
type PlanResult struct {
	Days    []DayAssignment
	Dropped map[string]int
	Budgets map[string]int
}

// Plan distributes whole study days across sections proportionally to their
// default weights and bin-packs each section's chapters into its days.
// The exam day is excluded from capacity. Infeasible inputs fail before any
// assignment is produced.
func Plan(req PlanRequest) (*PlanResult, error) {
	if req.MaxPerDay <= 0 {
		return nil, fmt.Errorf("max chapters per day must be positive")
	}
	availableDays := domain.DaysBetween(req.StartDate, req.ExamDate) - 1
	if availableDays < 0 {
		availableDays = 0
	}

	budgets, err := sectionBudgets(req.Sections, availableDays, req.MaxPerDay)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Dropped: make(map[string]int),
		Budgets: budgets,
	}

	date := req.StartDate
	for _, sec := range req.Sections {
		budget := budgets[sec.Name]
		bins, dropped := packSection(sec, budget, req.MaxPerDay)
		result.Dropped[sec.Name] = dropped
		for _, bin := range bins {
			result.Days = append(result.Days, DayAssignment{
				Date:     date,
				Section:  sec.Name,
				Chapters: bin,
			})
			date = domain.NextDay(date)
		}
	}
	return result, nil
}

// minRequiredDays is the floor below which a section cannot cover its
// must-know chapters at maxPerDay chapters per day.
func minRequiredDays(sec SectionInput, maxPerDay int) int {
	must := 0
	for _, ch := range sec.Chapters {
		if ch.Category == domain.CategoryMust {
			must++
		}
	}
	return (must + maxPerDay - 1) / maxPerDay
}

// sectionBudgets resolves the day budget of every section: locked sections
// first, then the free days spread over unlocked sections by
// largest-remainder rounding with min-required guarantees.
func sectionBudgets(sections []SectionInput, availableDays, maxPerDay int) (map[string]int, error) {
	budgets := make(map[string]int, len(sections))

	lockedTotal := 0
	var unlocked []SectionInput
	for _, sec := range sections {
		minReq := minRequiredDays(sec, maxPerDay)
		if sec.LockedDays != nil {
			b := *sec.LockedDays
			if b < minReq {
				b = minReq
			}
			budgets[sec.Name] = b
			lockedTotal += b
			continue
		}
		unlocked = append(unlocked, sec)
	}
	if lockedTotal > availableDays {
		return nil, fmt.Errorf("locked sections need %d days but only %d are available: %w",
			lockedTotal, availableDays, ErrInfeasible)
	}

	freeDays := availableDays - lockedTotal
	if len(unlocked) == 0 {
		return budgets, nil
	}

	minTotal := 0
	for _, sec := range unlocked {
		minTotal += minRequiredDays(sec, maxPerDay)
	}
	if minTotal > freeDays {
		return nil, fmt.Errorf("sections need at least %d free days but only %d remain: %w",
			minTotal, freeDays, ErrInfeasible)
	}

	alloc, fractions := largestRemainder(unlocked, freeDays)

	// Raise every section to its minimum, taking days from the sections
	// with the most slack; ties broken by smallest fractional remainder.
	for i, sec := range unlocked {
		minReq := minRequiredDays(sec, maxPerDay)
		for alloc[i] < minReq {
			donor := pickDonor(unlocked, alloc, fractions, maxPerDay)
			if donor < 0 {
				return nil, fmt.Errorf("cannot guarantee minimum days for section %s: %w",
					sec.Name, ErrInfeasible)
			}
			alloc[donor]--
			alloc[i]++
		}
	}

	for i, sec := range unlocked {
		budgets[sec.Name] = alloc[i]
	}
	return budgets, nil
}

// largestRemainder distributes total days proportionally to DefaultDays,
// giving leftover days to the largest fractional remainders first.
func largestRemainder(sections []SectionInput, total int) ([]int, []float64) {
	alloc := make([]int, len(sections))
	fractions := make([]float64, len(sections))

	weightSum := 0
	for _, sec := range sections {
		weightSum += sec.DefaultDays
	}
	if weightSum == 0 {
		// No weights: spread evenly from the front.
		for i := range sections {
			alloc[i] = total / len(sections)
			if i < total%len(sections) {
				alloc[i]++
			}
		}
		return alloc, fractions
	}

	assigned := 0
	for i, sec := range sections {
		exact := float64(total) * float64(sec.DefaultDays) / float64(weightSum)
		alloc[i] = int(exact)
		fractions[i] = exact - float64(alloc[i])
		assigned += alloc[i]
	}

	order := make([]int, len(sections))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fractions[order[a]] > fractions[order[b]]
	})
	for i := 0; assigned < total; i = (i + 1) % len(order) {
		alloc[order[i]]++
		assigned++
	}
	return alloc, fractions
}

// pickDonor finds the section with the most days above its own minimum,
// preferring the smallest fractional remainder among equals. Returns -1
// when no section has slack.
func pickDonor(sections []SectionInput, alloc []int, fractions []float64, maxPerDay int) int {
	best := -1
	bestSlack := 0
	for i, sec := range sections {
		slack := alloc[i] - minRequiredDays(sec, maxPerDay)
		if slack <= 0 {
			continue
		}
		if best == -1 || slack > bestSlack ||
			(slack == bestSlack && fractions[i] < fractions[best]) {
			best = i
			bestSlack = slack
		}
	}
	return best
}
