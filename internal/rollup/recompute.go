package rollup

import (
	"context"

	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
)

// RecomputeResult reports how many projection rows a batch job touched.
type RecomputeResult struct {
	SubtopicsUpdated int
	TopicsUpdated    int
	ChaptersUpdated  int
}

// Recompute walks the whole study-item projection bottom-up and rewrites
// every rollup: subtopics to the atomic constant, topics to
// max(sum of subtopics, floor), chapters to the sum of their topics.
// Only rows whose value actually changes are written, so re-running the
// job on an unchanged tree writes nothing. Converges to the same values
// as the incremental propagator.
func (p *Propagator) Recompute(ctx context.Context) (*RecomputeResult, error) {
	var result RecomputeResult
	err := p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteStudyItemRepo(tx)

		subtopics, err := items.ListByLevel(ctx, domain.LevelSubtopic)
		if err != nil {
			return err
		}
		// subMin sums subtopic minutes per (section, topic).
		subMin := make(map[[2]string]int)
		subCount := make(map[[2]string]int)
		for _, st := range subtopics {
			if st.EstimatedMin != p.atomicMin {
				if err := items.UpdateMinutes(ctx, st.Section, st.ItemID, p.atomicMin); err != nil {
					return err
				}
				result.SubtopicsUpdated++
			}
			key := [2]string{st.Section, st.ParentID}
			subMin[key] += p.atomicMin
			subCount[key]++
		}

		topics, err := items.ListByLevel(ctx, domain.LevelTopic)
		if err != nil {
			return err
		}
		topicMin := make(map[[2]string]int)
		for _, t := range topics {
			key := [2]string{t.Section, t.ItemID}
			minutes := t.EstimatedMin
			if subCount[key] > 0 {
				minutes = subMin[key]
				if minutes < p.floorMin {
					minutes = p.floorMin
				}
				if minutes != t.EstimatedMin {
					if err := items.UpdateMinutes(ctx, t.Section, t.ItemID, minutes); err != nil {
						return err
					}
					result.TopicsUpdated++
				}
			}
			topicMin[[2]string{t.Section, t.ParentID}] += minutes
		}

		chapters, err := items.ListByLevel(ctx, domain.LevelChapter)
		if err != nil {
			return err
		}
		for _, ch := range chapters {
			minutes := topicMin[[2]string{ch.Section, ch.ItemID}]
			if minutes != ch.EstimatedMin {
				if err := items.UpdateMinutes(ctx, ch.Section, ch.ItemID, minutes); err != nil {
					return err
				}
				result.ChaptersUpdated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Mirror backfills the study-item projection from the curriculum store.
// Upserts are keyed by (section, item id), so the job is safe to re-run
// after a partial failure.
func (p *Propagator) Mirror(ctx context.Context) (int, error) {
	mirrored := 0
	err := p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		nodes := repository.NewSQLiteCurriculumRepo(tx)
		items := repository.NewSQLiteStudyItemRepo(tx)

		for _, level := range []domain.Level{domain.LevelChapter, domain.LevelTopic, domain.LevelSubtopic} {
			list, err := nodes.ListByLevel(ctx, level)
			if err != nil {
				return err
			}
			for _, n := range list {
				item := domain.ItemFromNode(n)
				if n.Level == domain.LevelSubtopic {
					item.EstimatedMin = p.atomicMin
				}
				if err := items.Upsert(ctx, item); err != nil {
					return err
				}
				mirrored++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return mirrored, nil
}
