package cli

import (
	"github.com/njovanovic/studyplan/internal/curriculum"
	"github.com/njovanovic/studyplan/internal/rollup"
	"github.com/njovanovic/studyplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plan       service.PlanService
	Queue      service.QueueService
	Weeks      service.WeekService
	Lifecycle  service.LifecycleService
	DayBudgets service.DayBudgetService
	Curriculum *curriculum.Store
	Rollup     *rollup.Propagator

	// DefaultDailyMin seeds the plan-setup flag default.
	DefaultDailyMin int
}

// NewRootCmd creates the top-level "studyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Capacity-aware study planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPlanCmd(app),
		newQueueCmd(app),
		newWeekCmd(app),
		newDayCmd(app),
		newDaysCmd(app),
		newCurriculumCmd(app),
	)

	return root
}
