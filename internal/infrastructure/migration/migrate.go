package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Runner applies the SQL migrations that shape the order and inventory
// schema. It wraps golang-migrate with structured logging so migration
// runs show up in the same log stream as the rest of the system.
type Runner struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// NewRunner builds a Runner that reads .sql files from dir and applies
// them over the given postgres connection.
func NewRunner(db *sql.DB, dir string, log *zap.Logger) (*Runner, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migration source %s: %w", dir, err)
	}
	return &Runner{m: m, log: log}, nil
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	return r.run("up", r.m.Up)
}

// Down rolls back every applied migration.
func (r *Runner) Down() error {
	return r.run("down", r.m.Down)
}

// Steps applies n migrations forward, or rolls back -n of them.
func (r *Runner) Steps(n int) error {
	return r.run(fmt.Sprintf("step %d", n), func() error { return r.m.Steps(n) })
}

// GoTo migrates the schema to an exact version, up or down.
func (r *Runner) GoTo(version uint) error {
	return r.run(fmt.Sprintf("goto %d", version), func() error { return r.m.Migrate(version) })
}

func (r *Runner) run(op string, fn func() error) error {
	if err := fn(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.log.Info("schema already up to date", zap.String("op", op))
			return nil
		}
		return fmt.Errorf("migrate %s: %w", op, err)
	}
	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	r.log.Info("schema migrated",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version reports the current schema version. A fresh database reports 0.
func (r *Runner) Version() (uint, bool, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL. It exists
// to clear the dirty flag after a failed migration has been repaired by hand.
func (r *Runner) Force(version int) error {
	r.log.Warn("forcing schema version", zap.Int("version", version))
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database, data included.
func (r *Runner) Drop() error {
	r.log.Warn("dropping all database objects")
	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the migration source and database handles.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
