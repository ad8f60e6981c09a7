// Package seed ensures the reference catalog of regions and categories exists in
// the store. Existing rows are never updated or deleted.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/logger"
	"github.com/kavia-common/vintage-market-hub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Table names used in results and storage errors
const (
	RegionsTable    = "regions"
	CategoriesTable = "categories"
)

// Storage operations named in StorageError.Op
const (
	OpFind          = "find"
	OpInsert        = "insert"
	OpResolveParent = "resolve_parent"
	OpTransaction   = "transaction"
)

// errDryRun aborts the transaction of a dry run after the pass completed
var errDryRun = errors.New("dry run rollback")

// TableResult counts the outcome of one table's pass
type TableResult struct {
	Inserted int
	Skipped  int
}

// Total returns the number of catalog entries processed for the table
func (r TableResult) Total() int {
	return r.Inserted + r.Skipped
}

// Result summarises a seed run
type Result struct {
	Regions     TableResult
	Categories  TableResult
	Fingerprint string
	// DryRun is set when nothing was committed; the counts say what would have been inserted.
	DryRun bool
}

// Inserted returns the number of rows inserted across both tables
func (r *Result) Inserted() int {
	return r.Regions.Inserted + r.Categories.Inserted
}

// Skipped returns the number of entries that already existed across both tables
func (r *Result) Skipped() int {
	return r.Regions.Skipped + r.Categories.Skipped
}

// Option configures a single Seed call
type Option func(*options)

type options struct {
	dryRun bool
}

// WithDryRun runs the full pass inside the transaction and rolls it back
func WithDryRun() Option {
	return func(o *options) {
		o.dryRun = true
	}
}

// Seeder inserts missing catalog rows inside one transaction per run
type Seeder struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(scope TransactionScope, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		scope:  scope,
		logger: logger,
	}
}

// Seed makes sure every region and category of cat exists. Regions are processed
// first, then categories, both in catalog order. An entry whose natural key is
// already present is skipped, including one inserted concurrently by another run.
// Any other store failure aborts the run, rolls the transaction back and is
// returned as a *shared.StorageError naming the entry.
func (s *Seeder) Seed(ctx context.Context, cat catalog.Catalog, opts ...Option) (*Result, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	fingerprint := cat.Fingerprint()
	ctx, span := telemetry.StartServiceSpan(ctx, "seed", "run",
		telemetry.WithAttribute(telemetry.SpanAttrDryRun, o.dryRun),
		telemetry.WithAttribute(telemetry.SpanAttrFingerprint, fingerprint),
	)
	defer span.End()

	if runID := logger.GetRunID(ctx); runID != "" {
		telemetry.SetAttributes(span, telemetry.SpanAttrRunID, runID)
	}
	log := s.logger.With(zap.String("catalog_fingerprint", fingerprint), zap.Bool("dry_run", o.dryRun))

	log.Info("Seeding reference data",
		zap.Int("regions", len(cat.Regions())),
		zap.Int("categories", len(cat.Categories())),
	)

	result := &Result{Fingerprint: fingerprint, DryRun: o.dryRun}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		regions, err := s.seedRegions(ctx, log, repos.RegionRepo(), cat.Regions())
		if err != nil {
			return err
		}
		categories, err := s.seedCategories(ctx, log, repos.CategoryRepo(), cat.Categories())
		if err != nil {
			return err
		}
		result.Regions = regions
		result.Categories = categories

		if o.dryRun {
			return errDryRun
		}
		return nil
	})
	if errors.Is(err, errDryRun) {
		err = nil
	}
	if err != nil {
		var storageErr *shared.StorageError
		if !errors.As(err, &storageErr) {
			// Begin or commit failed
			err = shared.NewStorageError(OpTransaction, "seed", "", err)
		}
		telemetry.RecordError(span, err)
		log.Error("Seeding failed, transaction rolled back", zap.Error(err))
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInserted, result.Inserted(),
		telemetry.SpanAttrSkipped, result.Skipped(),
	)
	log.Info("Seed complete",
		zap.Int("regions_inserted", result.Regions.Inserted),
		zap.Int("regions_skipped", result.Regions.Skipped),
		zap.Int("categories_inserted", result.Categories.Inserted),
		zap.Int("categories_skipped", result.Categories.Skipped),
	)
	return result, nil
}

func (s *Seeder) seedRegions(ctx context.Context, log *zap.Logger, repo catalog.RegionRepository, records []catalog.RegionRecord) (TableResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "seed", RegionsTable,
		telemetry.WithAttribute(telemetry.SpanAttrTable, RegionsTable),
	)
	defer span.End()

	var res TableResult
	for _, rec := range records {
		_, err := repo.FindByCode(ctx, rec.Code)
		if err == nil {
			res.Skipped++
			log.Debug("Region exists, skipping", zap.String("code", rec.Code))
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return res, fail(span, OpFind, RegionsTable, rec.Key(), err)
		}

		created, err := repo.CreateIfAbsent(ctx, catalog.NewRegion(rec))
		if err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
			return res, fail(span, OpInsert, RegionsTable, rec.Key(), err)
		}
		if created {
			res.Inserted++
			log.Debug("Region inserted", zap.String("code", rec.Code), zap.String("name", rec.Name))
		} else {
			res.Skipped++
			log.Info("Region inserted concurrently, skipping", zap.String("code", rec.Code))
		}
	}

	setCounts(span, res)
	return res, nil
}

func (s *Seeder) seedCategories(ctx context.Context, log *zap.Logger, repo catalog.CategoryRepository, records []catalog.CategoryRecord) (TableResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "seed", CategoriesTable,
		telemetry.WithAttribute(telemetry.SpanAttrTable, CategoriesTable),
	)
	defer span.End()

	var res TableResult
	for _, rec := range records {
		_, err := repo.FindByName(ctx, rec.Name)
		if err == nil {
			res.Skipped++
			log.Debug("Category exists, skipping", zap.String("name", rec.Name))
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return res, fail(span, OpFind, CategoriesTable, rec.Key(), err)
		}

		category, err := s.newCategory(ctx, repo, rec)
		if err != nil {
			return res, fail(span, OpResolveParent, CategoriesTable, rec.Key(), err)
		}

		created, err := repo.CreateIfAbsent(ctx, category)
		if err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
			return res, fail(span, OpInsert, CategoriesTable, rec.Key(), err)
		}
		if created {
			res.Inserted++
			log.Debug("Category inserted", zap.String("name", rec.Name), zap.String("parent", rec.Parent))
		} else {
			res.Skipped++
			log.Info("Category inserted concurrently, skipping", zap.String("name", rec.Name))
		}
	}

	setCounts(span, res)
	return res, nil
}

// newCategory builds the entity for rec, looking up its parent by natural key
// inside the current transaction
func (s *Seeder) newCategory(ctx context.Context, repo catalog.CategoryRepository, rec catalog.CategoryRecord) (*catalog.Category, error) {
	if !rec.HasParent() {
		return catalog.NewCategory(rec), nil
	}

	parent, err := repo.FindByName(ctx, rec.Parent)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", catalog.ErrMissingParent, rec.Parent)
	}
	if err != nil {
		return nil, err
	}
	return catalog.NewChildCategory(rec, parent)
}

func fail(span trace.Span, op, table, key string, err error) error {
	storageErr := shared.NewStorageError(op, table, key, err)
	telemetry.SetAttributes(span, telemetry.SpanAttrEntryKey, key)
	telemetry.RecordError(span, storageErr)
	return storageErr
}

func setCounts(span trace.Span, res TableResult) {
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInserted, res.Inserted,
		telemetry.SpanAttrSkipped, res.Skipped,
	)
}
