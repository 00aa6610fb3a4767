package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrations embed.FS

func newMigrate(url string) (*migrate.Migrate, error) {
	dialect, err := DialectOf(url)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(migrations, "migrations/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("migration init: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations for the dialect of url.
func RunMigrations(url string, log *zap.Logger) error {
	m, err := newMigrate(url)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(url string, steps int, log *zap.Logger) error {
	if steps < 1 {
		return fmt.Errorf("rollback: steps must be positive, got %d", steps)
	}
	m, err := newMigrate(url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info("migrations rolled back", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
