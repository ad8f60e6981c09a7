// Command manage applies schema migrations and seeds the reference data of the
// marketplace database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/config"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// errUsage reports a malformed command line; usage has already been printed
var errUsage = errors.New("invalid usage")

// options are the global flags shared by every command
type options struct {
	migrationsPath string
	logLevel       string
	dryRun         bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "manage: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var opts options

	fs := flag.NewFlagSet("manage", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { printUsage(stdout) }
	fs.StringVar(&opts.migrationsPath, "path", "", "Path to migrations directory (default: embedded migrations)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: from config)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Seed inside a transaction that is rolled back")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	if fs.NArg() == 0 {
		printUsage(stdout)
		return errUsage
	}
	name, cmdArgs := fs.Arg(0), fs.Args()[1:]
	if name == "help" {
		printUsage(stdout)
		return nil
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stdout, "Unknown command %q\n\n", name)
		printUsage(stdout)
		return errUsage
	}
	if len(cmdArgs) < cmd.minArgs {
		fmt.Fprintf(stdout, "Usage: manage %s\n", cmd.usage)
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.migrationsPath == "" {
		opts.migrationsPath = cfg.Migration.Path
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: time.DateTime,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, log = logger.WithRunID(ctx, log, "")
	log.Info("Management command started",
		zap.String("command", name),
		zap.String("env", cfg.App.Env),
		zap.String("migrations_path", describePath(opts.migrationsPath)),
	)

	env := &environment{
		ctx:  ctx,
		args: cmdArgs,
		opts: opts,
		cfg:  cfg,
		log:  log,
		out:  stdout,
	}
	defer env.close()

	if err := cmd.run(env); err != nil {
		log.Error("Command failed", zap.String("command", name), zap.Error(err))
		return err
	}
	return nil
}

func describePath(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Vintage Market Hub database management

Usage:
  manage [flags] <command> [arguments]

Commands:
  migrate               Apply all pending migrations (alias: up)
  seed                  Insert missing regions and categories
  migrate_and_seed      Apply migrations, then seed
  status                Show migration version, row counts and catalog coverage
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error
  -dry-run              Report what seed would insert without committing

Environment Variables:
  DATABASE_URL or DATABASE_HOST, DATABASE_PORT, DATABASE_USER,
  DATABASE_PASSWORD, DATABASE_DBNAME, DATABASE_SSLMODE
  JWT_SECRET, APP_ENV, LOG_LEVEL, MIGRATION_PATH
  A .env file in the working directory is loaded first.

Examples:
  manage migrate_and_seed
  manage -dry-run seed
  manage step -1
  manage -path ./migrations create add_listing_images "Images attached to a listing"
`)
}
