package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/njovanovic/studyplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage the overall study plan",
	}
	cmd.AddCommand(
		newPlanSetupCmd(app),
		newPlanShowCmd(app),
		newPlanResetCmd(app),
	)
	return cmd
}

func newPlanSetupCmd(app *App) *cobra.Command {
	var startDate, examDate string
	var dailyMin int

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set the study window and daily budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := app.Plan.Setup(context.Background(), startDate, examDate, dailyMin)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatPlanMeta(meta))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "First study day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&examDate, "exam", "", "Exam date (YYYY-MM-DD), excluded from study time")
	defaultDaily := app.DefaultDailyMin
	if defaultDaily <= 0 {
		defaultDaily = 120
	}
	cmd.Flags().IntVar(&dailyMin, "daily-min", defaultDaily, "Default study minutes per day")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("exam")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the plan overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := app.Plan.Get(context.Background())
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatPlanMeta(meta))
			return nil
		},
	}
}

func newPlanResetCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all weeks and queue entries and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm("This deletes every week plan and queue entry. Continue? [y/N] ") {
				fmt.Println("Aborted.")
				return nil
			}
			if err := app.Plan.Reset(context.Background()); err != nil {
				return err
			}
			fmt.Println("Plan reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
