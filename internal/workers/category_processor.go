// internal/workers/category_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pvasilev/stockroom-be/internal/core/ports"
	"github.com/pvasilev/stockroom-be/internal/core/services"
)

// Task type identifiers
const (
	TypeCategoryRefresh = "category:refresh"
	TypeCountRefresh    = "count:refresh"
)

// cached aggregates stay warm for twice the refresh interval so a missed
// run degrades to a cache miss, not stale data
const cacheTTL = 20 * time.Minute

// CategoryProcessor keeps the cached category summaries and the table-wide
// count fresh in the background.
type CategoryProcessor struct {
	repo   ports.ProductRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewCategoryProcessor creates a new category processor
func NewCategoryProcessor(repo ports.ProductRepository, cache ports.CacheRepository, logger *slog.Logger) *CategoryProcessor {
	return &CategoryProcessor{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("processor", "category")),
	}
}

// NewCategoryRefreshTask creates a task that recomputes category summaries
func NewCategoryRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeCategoryRefresh, nil)
}

// NewCountRefreshTask creates a task that recomputes the product count
func NewCountRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeCountRefresh, nil)
}

// RefreshCategories handles TypeCategoryRefresh tasks
func (p *CategoryProcessor) RefreshCategories(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	summaries, err := p.repo.CountByCategory(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute category summaries: %w", err)
	}

	if err := p.cache.SetWithTTL(ctx, services.CategoriesCacheKey, summaries, cacheTTL); err != nil {
		return fmt.Errorf("failed to cache category summaries: %w", err)
	}

	p.logger.InfoContext(ctx, "category summaries refreshed",
		slog.Int("categories", len(summaries)),
		slog.Duration("took", time.Since(start)))

	return nil
}

// RefreshCount handles TypeCountRefresh tasks
func (p *CategoryProcessor) RefreshCount(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	count, err := p.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	if err := p.cache.SetWithTTL(ctx, services.CountCacheKey, count, cacheTTL); err != nil {
		return fmt.Errorf("failed to cache product count: %w", err)
	}

	p.logger.InfoContext(ctx, "product count refreshed",
		slog.Int64("count", count),
		slog.Duration("took", time.Since(start)))

	return nil
}
