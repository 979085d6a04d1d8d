// internal/core/services/cached_product.go
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/core/ports"
)

// Cache keys for the table-wide aggregates. The background refresher writes
// the same keys, so both paths serve one copy.
const (
	CategoriesCacheKey = "cat:summaries"
	CountCacheKey      = "cnt:products"
)

// CachedProductService decorates a ProductService with a Redis-backed cache
// for the two table-wide aggregates (category summaries and product count).
// Record-level reads and the paged queries always hit the store. Mutations
// pass through and drop the cached aggregates so the next read recomputes.
type CachedProductService struct {
	inner  ports.ProductService
	cache  ports.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.ProductService = (*CachedProductService)(nil)

// NewCachedProductService wraps service with aggregate caching
func NewCachedProductService(inner ports.ProductService, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *CachedProductService {
	return &CachedProductService{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("service", "product_cached")),
	}
}

func (s *CachedProductService) Add(ctx context.Context, name, category, description string) (*domain.Product, error) {
	product, err := s.inner.Add(ctx, name, category, description)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *CachedProductService) Edit(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.inner.Edit(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *CachedProductService) Delete(ctx context.Context, id int64) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedProductService) Order(ctx context.Context, id int64, amount int) (*domain.Product, error) {
	// Ordering changes quantity only; the per-category counts and the
	// table-wide count are unaffected, so the cache stays.
	return s.inner.Order(ctx, id, amount)
}

func (s *CachedProductService) GetPage(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, error) {
	return s.inner.GetPage(ctx, pageNumber, pageSize)
}

func (s *CachedProductService) GetPageWithTotal(ctx context.Context, pageNumber, pageSize int, orderBy, direction *string) (*domain.ProductPage, error) {
	return s.inner.GetPageWithTotal(ctx, pageNumber, pageSize, orderBy, direction)
}

func (s *CachedProductService) GetPageMultiSort(ctx context.Context, req domain.PageRequest) ([]domain.Product, error) {
	return s.inner.GetPageMultiSort(ctx, req)
}

func (s *CachedProductService) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.cache.GetOrSet(ctx, CountCacheKey, &count, func() (interface{}, error) {
		return s.inner.CountProducts(ctx)
	}, s.ttl)
	if err != nil {
		// Cache trouble must not take the read path down
		s.logger.WarnContext(ctx, "count cache unavailable, serving from store",
			slog.String("error", err.Error()))
		return s.inner.CountProducts(ctx)
	}
	return count, nil
}

func (s *CachedProductService) GetCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	var summaries []domain.CategorySummary
	err := s.cache.GetOrSet(ctx, CategoriesCacheKey, &summaries, func() (interface{}, error) {
		return s.inner.GetCategories(ctx)
	}, s.ttl)
	if err != nil {
		s.logger.WarnContext(ctx, "category cache unavailable, serving from store",
			slog.String("error", err.Error()))
		return s.inner.GetCategories(ctx)
	}
	return summaries, nil
}

func (s *CachedProductService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, CategoriesCacheKey, CountCacheKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate aggregate cache",
			slog.String("error", err.Error()))
	}
}
