package cli

import (
	"context"
	"fmt"

	"github.com/njovanovic/studyplan/internal/cli/formatter"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newQueueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage the master topic queue",
	}
	cmd.AddCommand(
		newQueueBuildCmd(app),
		newQueueListCmd(app),
		newQueueShowCmd(app),
		newQueueRemoveCmd(app),
		newQueuePromoteCmd(app),
		newQueueDemoteCmd(app),
		newQueueUnscheduleCmd(app),
	)
	return cmd
}

func newQueueBuildCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the queue from the imported curriculum (one-time)",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Queue.Build(context.Background())
			if err != nil {
				return err
			}
			if result.Skipped {
				fmt.Println(formatter.Dim("Queue already exists; build skipped."))
				return nil
			}
			fmt.Printf("Created %d queue entries.\n", result.Created)
			return nil
		},
	}
}

func newQueueListCmd(app *App) *cobra.Command {
	var stateFlag string
	var grouped bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue entries in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if grouped {
				groups, err := app.Queue.Grouped(context.Background())
				if err != nil {
					return err
				}
				fmt.Print(formatter.FormatQueueGrouped(groups))
				return nil
			}

			var state *domain.QueueState
			if stateFlag != "" {
				s := domain.QueueState(stateFlag)
				state = &s
			}
			entries, err := app.Queue.List(context.Background(), state)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatQueueList(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&stateFlag, "state", "", "Filter by state (queued|in_progress|done|removed)")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Group by section and chapter")
	return cmd
}

func newQueueShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SEQ",
		Short: "Show one queue entry with its subtopics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Queue.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatQueueEntry(entry))
			return nil
		},
	}
}

func newQueueRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SEQ",
		Short: "Remove a queued entry from the plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Queue.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s.\n", args[0])
			return nil
		},
	}
}

func newQueuePromoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "promote SEQ",
		Short: "Move an entry to the front of the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Queue.Promote(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Promoted %s to the front.\n", args[0])
			return nil
		},
	}
}

func newQueueDemoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "demote SEQ",
		Short: "Move an entry to the back of the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Queue.Demote(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Demoted %s to the back.\n", args[0])
			return nil
		},
	}
}

func newQueueUnscheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule SEQ",
		Short: "Pull an entry off the calendar and back to the front of the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Queue.Unschedule(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(result.Days) == 0 {
				fmt.Println(formatter.Dim("Entry had nothing scheduled; moved to the front of the queue."))
				return nil
			}
			fmt.Printf("Unscheduled %s from %d day(s); it is back at the front of the queue.\n",
				result.EntrySeq, len(result.Days))
			return nil
		},
	}
}
