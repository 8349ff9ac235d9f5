package cli

import (
	"context"
	"fmt"

	"github.com/njovanovic/studyplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Place work on days and complete them",
	}
	cmd.AddCommand(
		newDayScheduleCmd(app),
		newDayScheduleSubCmd(app),
		newDayPackCmd(app),
		newDayMoveCmd(app),
		newDayCompleteCmd(app),
	)
	return cmd
}

func newDayScheduleCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "schedule SEQ",
		Short: "Place as much of a topic as fits on one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = currentDay(app)
			}
			result, err := app.Weeks.ScheduleTopic(context.Background(), day, args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatPlaceResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Target day (default: current day)")
	return cmd
}

func newDayScheduleSubCmd(app *App) *cobra.Command {
	var day string
	var subIdx int

	cmd := &cobra.Command{
		Use:   "schedule-sub SEQ",
		Short: "Place one specific subtopic on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = currentDay(app)
			}
			result, err := app.Weeks.ScheduleSubtopic(context.Background(), day, args[0], subIdx)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatPlaceResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Target day (default: current day)")
	cmd.Flags().IntVar(&subIdx, "sub", 0, "Subtopic index shown by \"queue show\"")
	cmd.MarkFlagRequired("sub")
	return cmd
}

func newDayPackCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "pack SEQ",
		Short: "Spread a topic's remaining subtopics across the week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = currentDay(app)
			}
			result, err := app.Weeks.ScheduleTopicPack(context.Background(), day, args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatPlaceResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "First day to pack from (default: current day)")
	return cmd
}

func newDayMoveCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "move SEQ",
		Short: "Push a topic's work from a day to later days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = currentDay(app)
			}
			result, err := app.Weeks.MoveTopicForward(context.Background(), day, args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatPlaceResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to move from (default: current day)")
	return cmd
}

func newDayCompleteCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Finish a study day and advance the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = currentDay(app)
			}
			result, err := app.Lifecycle.CompleteDay(context.Background(), day)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatCompleteDay(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to complete (default: current day)")
	return cmd
}
