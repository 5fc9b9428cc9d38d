package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/infrastructure/config"
	"github.com/oms/backend/internal/infrastructure/logger"
	"github.com/oms/backend/internal/infrastructure/migration"
)

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "migrations", "directory holding the .sql migration pairs")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	cmd, rest := args[0], args[1:]
	if err := run(cmd, rest, dir, log); err != nil {
		log.Fatal("migration command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func run(cmd string, args []string, dir string, log *zap.Logger) error {
	// create and list only touch the filesystem.
	switch cmd {
	case "create":
		if len(args) == 0 {
			return fmt.Errorf("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		f, err := migration.Create(dir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("migration scaffolded",
			zap.String("version", f.Version),
			zap.String("up", f.UpFile),
			zap.String("down", f.DownFile),
		)
		return nil

	case "list":
		names, err := migration.List(dir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			log.Info("no migrations found", zap.String("path", dir))
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	runner, err := migration.NewRunner(db, dir, log)
	if err != nil {
		return err
	}
	defer runner.Close()

	switch cmd {
	case "up":
		return runner.Up()

	case "down":
		return runner.Down()

	case "step":
		n, err := intArg(args, "usage: migrate step <n>")
		if err != nil {
			return err
		}
		return runner.Steps(n)

	case "goto":
		n, err := intArg(args, "usage: migrate goto <version>")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return runner.GoTo(uint(n))

	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("no migrations applied yet")
		} else {
			log.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		return nil

	case "force":
		n, err := intArg(args, "usage: migrate force <version>")
		if err != nil {
			return err
		}
		return runner.Force(n)

	case "drop":
		if len(args) == 0 || args[0] != "-confirm" {
			return fmt.Errorf("drop destroys every table; rerun as 'migrate drop -confirm'")
		}
		return runner.Drop()

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func intArg(args []string, hint string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s", hint)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", args[0])
	}
	return n, nil
}

func usage() {
	fmt.Println(`manage the order management schema

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply all pending migrations
  down                  roll back all applied migrations
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate to an exact schema version
  version               print the current schema version
  force <version>       overwrite the recorded version (repairs a dirty state)
  drop -confirm         drop every database object
  create <name> [desc]  scaffold an empty up/down SQL pair
  list                  list the migrations on disk

Flags:
  -path string          migrations directory (default "migrations")
  -log-level string     debug, info, warn or error (default "info")

Database settings come from the OMS_DATABASE_* environment variables.`)
}
