package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/njovanovic/studyplan/internal/cli/formatter"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "View and shape the weekly calendar",
	}
	cmd.AddCommand(
		newWeekShowCmd(app),
		newWeekAutoFillCmd(app),
		newWeekPatchDayCmd(app),
	)
	return cmd
}

// currentDay resolves the plan's current-day pointer, falling back to the
// wall clock before setup has run.
func currentDay(app *App) string {
	if meta, err := app.Plan.Get(context.Background()); err == nil && meta.CurrentDay != "" {
		return meta.CurrentDay
	}
	return domain.FormatDay(time.Now())
}

func newWeekShowCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the week's calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			today := currentDay(app)
			if day == "" {
				day = today
			}
			week, err := app.Weeks.GetOrInit(context.Background(), day)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatWeek(week, today))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Any day inside the week to show (default: current day)")
	return cmd
}

func newWeekAutoFillCmd(app *App) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "autofill",
		Short: "Fill the week's free capacity from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = currentDay(app)
			}
			result, err := app.Weeks.AutoFill(context.Background(), day)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatAutoFill(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Any day inside the week to fill (default: current day)")
	return cmd
}

func newWeekPatchDayCmd(app *App) *cobra.Command {
	var capMin int
	var off bool

	cmd := &cobra.Command{
		Use:   "patch-day DAY",
		Short: "Adjust one day's capacity or mark it off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var capPtr *int
			var offPtr *bool
			if cmd.Flags().Changed("cap") {
				capPtr = &capMin
			}
			if cmd.Flags().Changed("off") {
				offPtr = &off
			}
			if capPtr == nil && offPtr == nil {
				return fmt.Errorf("nothing to change: pass --cap and/or --off")
			}

			week, err := app.Weeks.PatchDay(context.Background(), args[0], capPtr, offPtr)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatWeek(week, currentDay(app)))
			return nil
		},
	}

	cmd.Flags().IntVar(&capMin, "cap", 0, "New capacity in minutes")
	cmd.Flags().BoolVar(&off, "off", false, "Mark the day off (--off=false to restore)")
	return cmd
}
