package curriculum

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
	"github.com/njovanovic/studyplan/internal/rollup"
	"github.com/njovanovic/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importJSON = `{
	"sections": [
		{
			"name": "anatomy",
			"chapters": [
				{
					"id": "ch1",
					"name": "Thorax",
					"order": 1,
					"category": "must_know",
					"topics": [
						{
							"id": "t1",
							"name": "Heart",
							"order": 1,
							"subtopics": [
								{"id": "s1", "name": "Chambers", "order": 1},
								{"id": "s2", "name": "Valves", "order": 2}
							]
						},
						{
							"id": "t2",
							"name": "Lungs",
							"order": 2,
							"estimated_min": 40,
							"subtopics": []
						}
					]
				}
			]
		}
	]
}`

func newImportEnv(t *testing.T) (*Store, *repository.SQLiteStudyItemRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	notifier := NewNotifier()
	notifier.Subscribe(rollup.NewPropagator(uow, domain.SubtopicAtomicMin, domain.TopicFloorMin))
	store := NewStore(repository.NewSQLiteCurriculumRepo(database), uow, notifier)
	return store, repository.NewSQLiteStudyItemRepo(database)
}

// Importing a file writes every node through the change-notification path,
// so the study-item projection and its rollups exist immediately afterwards.
func TestImportFileDrivesRollups(t *testing.T) {
	store, items := newImportEnv(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "curriculum.json")
	require.NoError(t, os.WriteFile(path, []byte(importJSON), 0644))

	result, err := store.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SectionCount)
	assert.Equal(t, 1, result.ChapterCount)
	assert.Equal(t, 2, result.TopicCount)
	assert.Equal(t, 2, result.SubtopicCount)

	heart, err := items.Get(ctx, "anatomy", "t1")
	require.NoError(t, err)
	assert.Equal(t, 2*domain.SubtopicAtomicMin, heart.EstimatedMin)

	lungs, err := items.Get(ctx, "anatomy", "t2")
	require.NoError(t, err)
	assert.Equal(t, 40, lungs.EstimatedMin)

	chapter, err := items.Get(ctx, "anatomy", "ch1")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryMust, chapter.Category)
	assert.Equal(t, 60, chapter.EstimatedMin)
}

// Re-importing the same file converges: upserts keyed by (section, id)
// update in place instead of duplicating.
func TestImportIsIdempotent(t *testing.T) {
	store, items := newImportEnv(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "curriculum.json")
	require.NoError(t, os.WriteFile(path, []byte(importJSON), 0644))

	_, err := store.ImportFile(ctx, path)
	require.NoError(t, err)
	_, err = store.ImportFile(ctx, path)
	require.NoError(t, err)

	topics, err := items.ListByLevel(ctx, domain.LevelTopic)
	require.NoError(t, err)
	assert.Len(t, topics, 2)
}

func TestValidateImportSchema(t *testing.T) {
	errs := ValidateImportSchema(&ImportSchema{})
	require.NotEmpty(t, errs)

	dup := &ImportSchema{Sections: []SectionImport{{
		Name: "anatomy",
		Chapters: []ChapterImport{
			{ID: "ch1", Name: "Thorax"},
			{ID: "ch1", Name: "Thorax again"},
		},
	}}}
	errs = ValidateImportSchema(dup)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate id")

	valid := &ImportSchema{Sections: []SectionImport{{
		Name:     "anatomy",
		Chapters: []ChapterImport{{ID: "ch1", Name: "Thorax"}},
	}}}
	assert.Empty(t, ValidateImportSchema(valid))
}

func TestImportRejectsInvalidSchema(t *testing.T) {
	store, _ := newImportEnv(t)
	_, err := store.Import(context.Background(), &ImportSchema{})
	require.Error(t, err)
}
