package domain

import "time"

// CurriculumNode is one unit of the curriculum tree: a chapter, a topic
// under a chapter, or a subtopic under a topic. Nodes are owned by the
// content-editing subsystem; the scheduler only reads them and mirrors
// them into StudyItems.
type CurriculumNode struct {
	Section      string
	ID           string
	Level        Level
	ParentID     string
	Name         string
	Order        int
	Category     Category
	Foundational bool
	EstimatedMin int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StudyItem is the flattened projection of a curriculum node maintained by
// the rollup propagator. EstimatedMin obeys the rollup invariant:
// subtopics carry the atomic constant, topics max(sum of subtopics, floor),
// chapters the sum of their topics.
type StudyItem struct {
	Section      string
	ItemID       string
	Level        Level
	ParentID     string
	Name         string
	Order        int
	Category     Category
	Foundational bool
	EstimatedMin int
	UpdatedAt    time.Time
}

// ItemFromNode builds the StudyItem mirror of a curriculum node.
func ItemFromNode(n *CurriculumNode) *StudyItem {
	return &StudyItem{
		Section:      n.Section,
		ItemID:       n.ID,
		Level:        n.Level,
		ParentID:     n.ParentID,
		Name:         n.Name,
		Order:        n.Order,
		Category:     n.Category,
		Foundational: n.Foundational,
		EstimatedMin: n.EstimatedMin,
		UpdatedAt:    n.UpdatedAt,
	}
}
