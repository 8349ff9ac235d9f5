package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/njovanovic/studyplan/internal/cli/formatter"
	"github.com/njovanovic/studyplan/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newDaysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "days",
		Short: "Allocate whole study days across sections",
	}
	cmd.AddCommand(newDaysAllocateCmd(app))
	return cmd
}

func newDaysAllocateCmd(app *App) *cobra.Command {
	locks := lockFlag{}
	var maxPerDay int

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Distribute study days proportionally over sections",
		Long: `Distributes the days between start and exam across curriculum sections
proportionally to their chapter counts, then bin-packs each section's
chapters into its days. Individual sections can be locked to fixed day
counts with --lock.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.DayBudgets.Allocate(context.Background(), service.DayBudgetRequest{
				LockedDays: map[string]int(locks),
				MaxPerDay:  maxPerDay,
			})
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatDayBudget(result))
			return nil
		},
	}

	cmd.Flags().Var(&locks, "lock", "Lock a section to a day count, e.g. --lock anatomy=12 (repeatable)")
	cmd.Flags().IntVar(&maxPerDay, "max-per-day", 0, "Max chapters per study day (default from config)")
	return cmd
}

// lockFlag collects repeated --lock section=days pairs, validating each one
// as it is parsed.
type lockFlag map[string]int

var _ pflag.Value = (*lockFlag)(nil)

func (l *lockFlag) String() string {
	if len(*l) == 0 {
		return ""
	}
	parts := make([]string, 0, len(*l))
	for name, days := range *l {
		parts = append(parts, fmt.Sprintf("%s=%d", name, days))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (l *lockFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("invalid lock %q, expected section=days", value)
	}
	days, err := strconv.Atoi(val)
	if err != nil || days < 0 {
		return fmt.Errorf("invalid day count in lock %q", value)
	}
	(*l)[name] = days
	return nil
}

func (l *lockFlag) Type() string { return "section=days" }
