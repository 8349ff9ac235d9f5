package curriculum

import (
	"context"
	"errors"
	"fmt"

	"github.com/njovanovic/studyplan/internal/domain"
)

// ImportResult holds the outcome of a curriculum import.
type ImportResult struct {
	SectionCount  int
	ChapterCount  int
	TopicCount    int
	SubtopicCount int
}

// ImportFile loads, validates, and writes a curriculum import file through
// the store, so every node flows through the normal change-notification
// path and the projection rollups follow automatically. Upserts are keyed
// by (section, id): re-importing the same file converges instead of
// duplicating.
func (s *Store) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	schema, err := LoadImportFile(path)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, schema)
}

// Import writes a validated schema into the curriculum store.
func (s *Store) Import(ctx context.Context, schema *ImportSchema) (*ImportResult, error) {
	if errs := ValidateImportSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid curriculum import: %w", errors.Join(errs...))
	}

	var result ImportResult
	for _, sec := range schema.Sections {
		result.SectionCount++
		for _, ch := range sec.Chapters {
			node := &domain.CurriculumNode{
				Section:      sec.Name,
				ID:           ch.ID,
				Level:        domain.LevelChapter,
				Name:         ch.Name,
				Order:        ch.Order,
				Category:     domain.NormalizeCategory(ch.Category),
				Foundational: ch.Foundational,
			}
			if err := s.SaveNode(ctx, node); err != nil {
				return nil, fmt.Errorf("importing chapter %s: %w", ch.ID, err)
			}
			result.ChapterCount++

			for _, t := range ch.Topics {
				topicNode := &domain.CurriculumNode{
					Section:      sec.Name,
					ID:           t.ID,
					Level:        domain.LevelTopic,
					ParentID:     ch.ID,
					Name:         t.Name,
					Order:        t.Order,
					Category:     domain.NormalizeCategory(t.Category),
					Foundational: t.Foundational,
					EstimatedMin: t.EstimatedMin,
				}
				if err := s.SaveNode(ctx, topicNode); err != nil {
					return nil, fmt.Errorf("importing topic %s: %w", t.ID, err)
				}
				result.TopicCount++

				for _, st := range t.Subtopics {
					subNode := &domain.CurriculumNode{
						Section:  sec.Name,
						ID:       st.ID,
						Level:    domain.LevelSubtopic,
						ParentID: t.ID,
						Name:     st.Name,
						Order:    st.Order,
						Category: topicNode.Category,
					}
					if err := s.SaveNode(ctx, subNode); err != nil {
						return nil, fmt.Errorf("importing subtopic %s: %w", st.ID, err)
					}
					result.SubtopicCount++
				}
			}
		}
	}
	return &result, nil
}
