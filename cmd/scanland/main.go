package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/scanland/internal/cli"
	"github.com/alexanderramin/scanland/internal/clock"
	"github.com/alexanderramin/scanland/internal/config"
	"github.com/alexanderramin/scanland/internal/db"
	"github.com/alexanderramin/scanland/internal/mcp"
	"github.com/alexanderramin/scanland/internal/repository"
	"github.com/alexanderramin/scanland/internal/service"
	"github.com/mattn/go-isatty"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	globals, err := cli.ParseGlobalFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfgPath, explicit := config.ResolvePath(globals.Config)
	cfg, err := config.Load(cfgPath, explicit)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if globals.DB != "" {
		cfg.DBPath = globals.DB
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Use-case logging goes to stderr or a file, never stdout: serve-mcp
	// speaks its protocol there.
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		var w io.Writer = os.Stderr
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close()
			w = f
		}
		observers = append(observers, service.NewLogUseCaseObserver(w))
	}

	// Wire repositories
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	subjectRepo := repository.NewSQLiteSubjectRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	sysClock := clock.System{}
	sessionSvc := service.NewSessionService(sessionRepo, sysClock, observers...)
	statsSvc := service.NewStatsService(sessionRepo, subjectRepo, sysClock, loc)

	app := &cli.App{
		Sessions: sessionSvc,
		Subjects: service.NewSubjectService(subjectRepo, uow, observers...),
		Data:     service.NewDataService(sessionRepo, subjectRepo, uow, sysClock, observers...),
		Stats:    statsSvc,
		Config:   cfg,
		Clock:    sysClock,
		Version:  version,
	}

	// Prompts only when a person is at the terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.ServeMCP = func() error {
		return mcp.New(statsSvc, sessionSvc).ServeStdio(version)
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
