package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/kavia-common/vintage-market-hub/backend/internal/application/bootstrap"
	"github.com/kavia-common/vintage-market-hub/backend/internal/application/seed"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/config"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/logger"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/migration"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/persistence"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/persistence/models"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/telemetry"
	"github.com/kavia-common/vintage-market-hub/backend/migrations"
	"go.uber.org/zap"
)

// defaultMigrationsDir is where create writes new files when -path is not set
const defaultMigrationsDir = "migrations"

type command struct {
	usage   string
	minArgs int
	run     func(env *environment) error
}

var commands = map[string]command{
	"migrate":          {usage: "migrate", run: runMigrate},
	"up":               {usage: "up", run: runMigrate},
	"seed":             {usage: "[-dry-run] seed", run: runSeed},
	"migrate_and_seed": {usage: "migrate_and_seed", run: runMigrateAndSeed},
	"status":           {usage: "status", run: runStatus},
	"down":             {usage: "down", run: runDown},
	"step":             {usage: "step <n>", minArgs: 1, run: runStep},
	"goto":             {usage: "goto <version>", minArgs: 1, run: runGoTo},
	"version":          {usage: "version", run: runVersion},
	"force":            {usage: "force <version>", minArgs: 1, run: runForce},
	"drop":             {usage: "drop -confirm", run: runDrop},
	"create":           {usage: "create <name> [description]", minArgs: 1, run: runCreate},
	"list":             {usage: "list", run: runList},
}

// environment carries the resources of one command invocation. Connections are
// opened on first use so offline commands never touch the database.
type environment struct {
	ctx  context.Context
	args []string
	opts options
	cfg  *config.Config
	log  *zap.Logger
	out  io.Writer

	tracer *telemetry.TracerProvider
	db     *persistence.Database
	m      *migration.Migrator
}

func (e *environment) database() (*persistence.Database, error) {
	if e.db != nil {
		return e.db, nil
	}

	if e.tracer == nil {
		tp, err := telemetry.NewTracerProvider(e.ctx, telemetry.Config{
			Enabled:           e.cfg.Telemetry.Enabled,
			CollectorEndpoint: e.cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     e.cfg.Telemetry.SamplingRatio,
			ServiceName:       e.cfg.Telemetry.ServiceName,
			Insecure:          e.cfg.Telemetry.Insecure,
		}, e.log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		e.tracer = tp
	}

	gormLogger := logger.NewGormLogger(e.log, logger.MapGormLogLevel(e.cfg.Log.Level),
		logger.WithSlowThreshold(e.cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(e.ctx, &e.cfg.Database, gormLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", e.cfg.Database.Redacted(), err)
	}

	if e.cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      e.cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: e.cfg.Telemetry.DBSlowQueryThresh,
		}, e.log)
		if err := plugin.Register(db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to register database tracing: %w", err)
		}
	}

	e.log.Info("Connected to database", zap.String("database", e.cfg.Database.Redacted()))
	e.db = db
	return db, nil
}

func (e *environment) migrator() (*migration.Migrator, error) {
	if e.m != nil {
		return e.m, nil
	}

	db, err := e.database()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	m, err := migration.New(sqlDB, e.opts.migrationsPath, e.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	e.m = m
	return m, nil
}

func (e *environment) seeder() (*seed.Seeder, error) {
	db, err := e.database()
	if err != nil {
		return nil, err
	}
	return seed.NewSeeder(persistence.NewGormTransactionScope(db.DB), e.log), nil
}

func (e *environment) close() {
	if e.m != nil {
		if err := e.m.Close(); err != nil {
			e.log.Warn("Failed to close migrator", zap.Error(err))
		}
	}
	if e.db != nil {
		// Already closed together with the migrator when one was created
		_ = e.db.Close()
	}
	if e.tracer != nil {
		if err := e.tracer.Shutdown(context.Background()); err != nil {
			e.log.Warn("Failed to shut down tracer provider", zap.Error(err))
		}
	}
}

func runMigrate(env *environment) error {
	m, err := env.migrator()
	if err != nil {
		return err
	}
	if err := bootstrap.NewRunner(m, nil, catalog.Default(), env.log).Migrate(env.ctx); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "Migrations applied.")
	return nil
}

func runSeed(env *environment) error {
	s, err := env.seeder()
	if err != nil {
		return err
	}
	result, err := bootstrap.NewRunner(nil, s, catalog.Default(), env.log).Seed(env.ctx, env.opts.dryRun)
	if err != nil {
		return err
	}
	printSeedResult(env.out, "", result)
	return nil
}

func runMigrateAndSeed(env *environment) error {
	if env.opts.dryRun {
		return errors.New("-dry-run is only supported by the seed command")
	}
	m, err := env.migrator()
	if err != nil {
		return err
	}
	s, err := env.seeder()
	if err != nil {
		return err
	}
	result, err := bootstrap.NewRunner(m, s, catalog.Default(), env.log).MigrateAndSeed(env.ctx)
	if err != nil {
		return err
	}
	printSeedResult(env.out, "Migrations applied. ", result)
	return nil
}

func printSeedResult(w io.Writer, prefix string, r *seed.Result) {
	if r.DryRun {
		prefix += "Dry run, rolled back. "
	}
	fmt.Fprintf(w, "%sSeed complete: regions inserted=%d skipped=%d, categories inserted=%d skipped=%d\n",
		prefix, r.Regions.Inserted, r.Regions.Skipped, r.Categories.Inserted, r.Categories.Skipped)
}

func runStatus(env *environment) error {
	m, err := env.migrator()
	if err != nil {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(env.out, "No migrations applied")
		return nil
	}
	fmt.Fprintf(env.out, "Migration version: %d (dirty: %t)\n\n", version, dirty)

	db := env.db.DB.WithContext(env.ctx)
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tROWS")
	for _, model := range models.All() {
		name := model.(interface{ TableName() string }).TableName()
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count %s: %w", name, err)
		}
		fmt.Fprintf(tw, "%s\t%d\n", name, count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	cat := catalog.Default()
	missing, err := missingEntries(env.ctx, env.db, cat)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "\nCatalog %s: %d/%d entries present\n", cat.Fingerprint(), cat.Len()-len(missing), cat.Len())
	for _, key := range missing {
		fmt.Fprintln(env.out, "  missing:", key)
	}
	return nil
}

// missingEntries lists the catalog natural keys without a row, as table/key
func missingEntries(ctx context.Context, db *persistence.Database, cat catalog.Catalog) ([]string, error) {
	regions := persistence.NewGormRegionRepository(db.DB)
	categories := persistence.NewGormCategoryRepository(db.DB)

	var missing []string
	for _, rec := range cat.Regions() {
		_, err := regions.FindByCode(ctx, rec.Key())
		if errors.Is(err, shared.ErrNotFound) {
			missing = append(missing, seed.RegionsTable+"/"+rec.Key())
		} else if err != nil {
			return nil, shared.NewStorageError(seed.OpFind, seed.RegionsTable, rec.Key(), err)
		}
	}
	for _, rec := range cat.Categories() {
		_, err := categories.FindByName(ctx, rec.Key())
		if errors.Is(err, shared.ErrNotFound) {
			missing = append(missing, seed.CategoriesTable+"/"+rec.Key())
		} else if err != nil {
			return nil, shared.NewStorageError(seed.OpFind, seed.CategoriesTable, rec.Key(), err)
		}
	}
	return missing, nil
}

func runDown(env *environment) error {
	m, err := env.migrator()
	if err != nil {
		return err
	}
	return m.Down()
}

func runStep(env *environment) error {
	n, err := strconv.Atoi(env.args[0])
	if err != nil {
		return fmt.Errorf("invalid step count %q", env.args[0])
	}
	m, err := env.migrator()
	if err != nil {
		return err
	}
	return m.Steps(n)
}

func runGoTo(env *environment) error {
	version, err := strconv.ParseUint(env.args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version number %q", env.args[0])
	}
	m, err := env.migrator()
	if err != nil {
		return err
	}
	return m.GoTo(uint(version))
}

func runVersion(env *environment) error {
	m, err := env.migrator()
	if err != nil {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(env.out, "No migrations applied")
		return nil
	}
	fmt.Fprintf(env.out, "Current migration version: %d (dirty: %t)\n", version, dirty)
	return nil
}

func runForce(env *environment) error {
	version, err := strconv.Atoi(env.args[0])
	if err != nil {
		return fmt.Errorf("invalid version number %q", env.args[0])
	}
	m, err := env.migrator()
	if err != nil {
		return err
	}
	env.log.Warn("Forcing migration version - use with caution!")
	return m.Force(version)
}

func runDrop(env *environment) error {
	confirmed := false
	for _, arg := range env.args {
		if arg == "-confirm" || arg == "--confirm" {
			confirmed = true
			break
		}
	}
	if !confirmed {
		return errors.New("drop cancelled, use 'manage drop -confirm' to confirm")
	}
	m, err := env.migrator()
	if err != nil {
		return err
	}
	return m.Drop()
}

func runCreate(env *environment) error {
	dir := env.opts.migrationsPath
	if dir == "" {
		dir = defaultMigrationsDir
	}
	description := ""
	if len(env.args) > 1 {
		description = env.args[1]
	}

	mf, err := migration.CreateMigration(dir, env.args[0], description)
	if err != nil {
		return err
	}
	env.log.Info("Migration created successfully",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	fmt.Fprintln(env.out, mf.UpPath)
	fmt.Fprintln(env.out, mf.DownPath)
	return nil
}

func runList(env *environment) error {
	var fsys fs.FS = migrations.FS
	if env.opts.migrationsPath != "" {
		fsys = os.DirFS(env.opts.migrationsPath)
	}

	names, err := migration.ListMigrations(fsys)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(env.out, "No migrations found")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(env.out, "  -", name)
	}
	return nil
}
