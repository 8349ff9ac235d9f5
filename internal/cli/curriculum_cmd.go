package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCurriculumCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curriculum",
		Short: "Import curriculum content and maintain rollups",
	}
	cmd.AddCommand(
		newCurriculumImportCmd(app),
		newCurriculumMirrorCmd(app),
		newCurriculumRecomputeCmd(app),
	)
	return cmd
}

func newCurriculumImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a curriculum JSON file",
		Long: `Imports sections, chapters, topics, and subtopics from a JSON file.
Nodes are keyed by (section, id), so re-importing the same file updates
in place instead of duplicating. Time estimates roll up automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Curriculum.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d sections, %d chapters, %d topics, %d subtopics.\n",
				result.SectionCount, result.ChapterCount, result.TopicCount, result.SubtopicCount)
			return nil
		},
	}
}

func newCurriculumMirrorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Backfill the study-item projection from the curriculum",
		RunE: func(cmd *cobra.Command, args []string) error {
			mirrored, err := app.Rollup.Mirror(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Mirrored %d items.\n", mirrored)
			return nil
		},
	}
}

func newCurriculumRecomputeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute every time-estimate rollup from scratch",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Rollup.Recompute(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d subtopics, %d topics, %d chapters.\n",
				result.SubtopicsUpdated, result.TopicsUpdated, result.ChaptersUpdated)
			return nil
		},
	}
}
