// Package bootstrap sequences schema migration and reference data seeding for
// the management commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/kavia-common/vintage-market-hub/backend/internal/application/seed"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var (
	// ErrNoMigrator is returned when a migration step runs without a migrator
	ErrNoMigrator = errors.New("no migrator configured")
	// ErrNoSeeder is returned when a seed step runs without a seeder
	ErrNoSeeder = errors.New("no seeder configured")
)

// Migrator applies pending schema migrations
type Migrator interface {
	Up() error
}

// Seeder ensures the reference catalog exists
type Seeder interface {
	Seed(ctx context.Context, cat catalog.Catalog, opts ...seed.Option) (*seed.Result, error)
}

// Runner runs the migrate and seed steps in order
type Runner struct {
	migrator Migrator
	seeder   Seeder
	catalog  catalog.Catalog
	logger   *zap.Logger
}

// NewRunner creates a Runner. Either collaborator may be nil when the command
// does not need it.
func NewRunner(migrator Migrator, seeder Seeder, cat catalog.Catalog, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		migrator: migrator,
		seeder:   seeder,
		catalog:  cat,
		logger:   logger,
	}
}

// Migrate applies all pending migrations
func (r *Runner) Migrate(ctx context.Context) error {
	if r.migrator == nil {
		return ErrNoMigrator
	}

	_, span := telemetry.StartServiceSpan(ctx, "bootstrap", "migrate")
	defer span.End()

	if err := r.migrator.Up(); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed runs the seeder against the runner's catalog
func (r *Runner) Seed(ctx context.Context, dryRun bool) (*seed.Result, error) {
	if r.seeder == nil {
		return nil, ErrNoSeeder
	}

	var opts []seed.Option
	if dryRun {
		opts = append(opts, seed.WithDryRun())
	}

	result, err := r.seeder.Seed(ctx, r.catalog, opts...)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return result, nil
}

// MigrateAndSeed applies migrations and seeds only when they succeeded
func (r *Runner) MigrateAndSeed(ctx context.Context) (*seed.Result, error) {
	if r.migrator == nil {
		return nil, ErrNoMigrator
	}
	if r.seeder == nil {
		return nil, ErrNoSeeder
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "bootstrap", "migrate_and_seed")
	defer span.End()

	if err := r.Migrate(ctx); err != nil {
		r.logger.Error("Migrations failed, seeding skipped", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}
	r.logger.Info("Migrations applied")

	result, err := r.Seed(ctx, false)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return result, nil
}
