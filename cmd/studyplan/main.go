package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/njovanovic/studyplan/internal/cli"
	"github.com/njovanovic/studyplan/internal/config"
	"github.com/njovanovic/studyplan/internal/curriculum"
	"github.com/njovanovic/studyplan/internal/db"
	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/njovanovic/studyplan/internal/repository"
	"github.com/njovanovic/studyplan/internal/rollup"
	"github.com/njovanovic/studyplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	nodeRepo := repository.NewSQLiteCurriculumRepo(database)
	itemRepo := repository.NewSQLiteStudyItemRepo(database)
	queueRepo := repository.NewSQLiteQueueRepo(database)
	metaRepo := repository.NewSQLitePlanMetaRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case logging goes to stderr when verbose, and only on a real
	// terminal by default.
	var logW io.Writer
	if cfg.Verbose && isatty.IsTerminal(os.Stderr.Fd()) {
		logW = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(logW)

	// Curriculum changes flow through the notifier into the rollup
	// propagator, which keeps the study-item projection current.
	propagator := rollup.NewPropagator(uow, domain.SubtopicAtomicMin, domain.TopicFloorMin)
	notifier := curriculum.NewNotifier()
	notifier.Subscribe(propagator)
	store := curriculum.NewStore(nodeRepo, uow, notifier)

	app := &cli.App{
		Plan:       service.NewPlanService(metaRepo, uow, observer),
		Queue:      service.NewQueueService(queueRepo, uow, observer),
		Weeks:      service.NewWeekService(uow, observer),
		Lifecycle:  service.NewLifecycleService(uow, observer),
		DayBudgets: service.NewDayBudgetService(itemRepo, metaRepo, cfg.MaxChaptersPerDay, observer),
		Curriculum: store,
		Rollup:     propagator,

		DefaultDailyMin: cfg.DefaultDailyMin,
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
