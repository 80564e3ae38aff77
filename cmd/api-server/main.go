package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/eislab/lab-tracker/internal/attendance"
	"github.com/eislab/lab-tracker/internal/database"
	"github.com/eislab/lab-tracker/internal/env"
	"github.com/eislab/lab-tracker/internal/roster"
	"github.com/eislab/lab-tracker/internal/version"
)

var _cfgFile = flag.String("cfg", "", "path to config file")

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	db       struct {
		path        string
		automigrate bool
	}
}

type application struct {
	config     config
	db         *database.DB
	logger     *slog.Logger
	engine     *attendance.Engine
	directory  *attendance.Directory
	reconciler *roster.Reconciler
	wg         sync.WaitGroup
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.db.path = env.GetString("DB_PATH", "database/tracker.db")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	db, err := database.New(cfg.db.path, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureBootstrapAdmin(context.Background(), logger, db); err != nil {
		return err
	}

	app := &application{
		config:     cfg,
		db:         db,
		logger:     logger,
		engine:     attendance.NewEngine(logger, db),
		directory:  attendance.NewDirectory(logger, db),
		reconciler: roster.NewReconciler(logger, db),
	}

	return app.serveHTTP()
}
