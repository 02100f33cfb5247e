package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/shoplist-backend/internal/app/seeder/catalog"
	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// allPhases defines the canonical execution order.
var allPhases = []string{"products", "categories"}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Updated  int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Pipeline imports a catalog file phase by phase.
type Pipeline struct {
	log     *slog.Logger
	repo    CatalogRepo
	cfg     Config
	parse   func(path string) (*catalog.Result, error)
	parsed  *catalog.Result
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repo CatalogRepo, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log.With("component", "seeder"),
		repo:    repo,
		cfg:     cfg,
		parse:   catalog.Parse,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase failed.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases run.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
				delete(filter, ph)
			}
		}
		if len(filter) > 0 {
			unknown := make([]string, 0, len(filter))
			for ph := range filter {
				unknown = append(unknown, ph)
			}
			return fmt.Errorf("unknown phases: %s", strings.Join(unknown, ", "))
		}
		toRun = filtered
	}

	if p.cfg.CatalogPath == "" {
		return fmt.Errorf("catalog path not configured")
	}
	parsed, err := p.parse(p.cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	p.parsed = parsed
	p.log.Info("catalog parsed",
		slog.Int("rows", parsed.Stats.Rows),
		slog.Int("products", len(parsed.Products)),
		slog.Int("blank", parsed.Stats.Blank),
		slog.Int("duplicates", parsed.Stats.Duplicates),
	)

	for _, phase := range toRun {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "products":
			result = p.runProducts(ctx)
		case "categories":
			result = p.runCategories(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("updated", result.Updated),
				slog.Int("skipped", result.Skipped),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	return nil
}

// runProducts inserts catalog products whose name is not in the database yet.
func (p *Pipeline) runProducts(ctx context.Context) PhaseResult {
	existing, err := p.repo.ExistingNames(ctx)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("get existing names: %w", err)}
	}

	var fresh []domain.Product
	skipped := 0
	for _, row := range p.parsed.Products {
		if existing[strings.ToLower(row.Name)] {
			skipped++
			continue
		}
		fresh = append(fresh, toProduct(row))
	}

	if p.cfg.DryRun {
		return PhaseResult{Skipped: skipped + len(fresh)}
	}

	inserted, err := batchProcess(fresh, p.cfg.BatchSize, func(batch []domain.Product) (int, error) {
		return p.repo.BulkInsert(ctx, batch)
	})
	if err != nil {
		return PhaseResult{Inserted: inserted, Err: fmt.Errorf("insert products: %w", err)}
	}

	// Rows inserted concurrently by someone else are skipped by the insert.
	skipped += len(fresh) - inserted
	return PhaseResult{Inserted: inserted, Skipped: skipped}
}

// runCategories brings the category of every catalog product in line with
// the file. Products absent from the file are left alone.
func (p *Pipeline) runCategories(ctx context.Context) PhaseResult {
	products := make([]domain.Product, len(p.parsed.Products))
	for i, row := range p.parsed.Products {
		products[i] = toProduct(row)
	}

	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(products)}
	}

	updated, err := batchProcess(products, p.cfg.BatchSize, func(batch []domain.Product) (int, error) {
		return p.repo.BulkUpdateCategories(ctx, batch)
	})
	if err != nil {
		return PhaseResult{Updated: updated, Err: fmt.Errorf("update categories: %w", err)}
	}

	return PhaseResult{Updated: updated, Skipped: len(products) - updated}
}

func toProduct(row catalog.Row) domain.Product {
	return domain.Product{Name: row.Name, Category: row.Category}
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
