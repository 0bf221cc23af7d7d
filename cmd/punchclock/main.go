package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/punchclock/internal/category"
	"github.com/alexanderramin/punchclock/internal/cli"
	"github.com/alexanderramin/punchclock/internal/config"
	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/alexanderramin/punchclock/internal/subcat"
	"github.com/alexanderramin/punchclock/internal/weeklog"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(cli.ConfigPath(os.Args[1:]))
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so use case events go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	observer := service.NewLogUseCaseObserver(logFile, cfg.SlogLevel())

	// A missing or malformed legend or subcategory file is fatal.
	registry, err := category.Load(cfg.LegendFile)
	if err != nil {
		return err
	}
	store, err := subcat.Load(cfg.SubcategoriesFile)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.StateDB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	pendingRepo := repository.NewSQLitePendingEntryRepo(database)
	checkpointRepo := repository.NewSQLiteCheckpointRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	naming := weeklog.NamingLegacy
	if cfg.IncludeYear {
		naming = weeklog.NamingWithYear
	}
	log := weeklog.NewWriter(cfg.LogDir, naming)

	journal := service.NewJournalService(log, pendingRepo, uow, service.RetryPolicy{
		Retries: cfg.WriteRetries,
		Delay:   cfg.RetryDelay,
	}, observer)

	app := &cli.App{
		Tracker: service.NewTrackerService(service.TrackerDeps{
			Categories:  registry,
			Slots:       store,
			Journal:     journal,
			Checkpoints: checkpointRepo,
			UoW:         uow,
		}, observer),
		Journal:  journal,
		Reports:  service.NewReportService(log, registry, observer),
		Subcats:  service.NewSubcategoryService(registry, store, observer),
		Config:   cfg,
		Interval: cfg.HeartbeatInterval,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
