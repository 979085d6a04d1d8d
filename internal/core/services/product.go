// internal/core/services/product.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/core/ports"
)

// ProductService owns the business rules for catalog records: creation with
// upsert-by-name, partial edits, deletion, stock orders, the paged/sorted
// query paths and the per-category aggregate. It holds no state of its own
// beyond the injected store handle; every call runs to completion against
// the repository.
type ProductService struct {
	repo   ports.ProductRepository
	logger *slog.Logger
}

// Statically assert that *ProductService implements the ProductService port.
var _ ports.ProductService = (*ProductService)(nil)

// NewProductService creates a new product service
func NewProductService(repo ports.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger.With(slog.String("service", "product")),
	}
}

// Add creates a new record, or, when a record with the exact same name
// already exists, increments that record's quantity by one instead. The
// merge is keyed on name alone: the caller's category and description are
// deliberately discarded so repeated submissions of the same product never
// fork it into two records.
func (s *ProductService) Add(ctx context.Context, name, category, description string) (*domain.Product, error) {
	if isBlank(name) || isBlank(category) {
		return nil, &domain.ValidationError{Message: domain.MsgInvalidProduct}
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup by name: %w", err)
	}

	if existing != nil {
		existing.Quantity++
		existing.ModifiedAt = domain.Today()
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("save merged product: %w", err)
		}

		s.logger.InfoContext(ctx, "merged add into existing product",
			slog.Int64("id", existing.ID),
			slog.String("name", existing.Name),
			slog.Int("quantity", existing.Quantity))
		return existing, nil
	}

	p := domain.NewProduct(name, category, description)
	if err := s.repo.Save(ctx, p); err != nil {
		var constraint *domain.StorageConstraintError
		if errors.As(err, &constraint) {
			return nil, constraint
		}
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("id", p.ID),
		slog.String("name", p.Name),
		slog.String("category", p.Category))
	return p, nil
}

// Delete permanently removes a record.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check existence: %w", err)
	}
	if !exists {
		return &domain.NotFoundError{Message: domain.MsgNoSuchProduct}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("id", id))
	return nil
}

// Edit applies a partial update. Only the fields present in the patch are
// overwritten; a supplied empty string overwrites, an absent field does not.
// ModifiedAt is bumped unconditionally, even for an empty patch.
func (s *ProductService) Edit(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup by id: %w", err)
	}
	if p == nil {
		return nil, &domain.NotFoundError{Message: domain.MsgNoProductWithID}
	}

	patch.Apply(p)

	if err := s.repo.Save(ctx, p); err != nil {
		var constraint *domain.StorageConstraintError
		if errors.As(err, &constraint) {
			return nil, constraint
		}
		return nil, fmt.Errorf("save edited product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.Int64("id", id))
	return p, nil
}

// Order subtracts amount units from a record's stock. The amount check runs
// before the existence check, and both run before the stock-level check.
func (s *ProductService) Order(ctx context.Context, id int64, amount int) (*domain.Product, error) {
	if amount <= 0 {
		return nil, &domain.ValidationError{Message: domain.MsgAmountNotPositive}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup by id: %w", err)
	}
	if p == nil {
		return nil, &domain.NotFoundError{Message: domain.MsgNoSuchProduct}
	}
	if p.Quantity < amount {
		return nil, &domain.InsufficientStockError{Message: domain.MsgNotEnoughStock}
	}

	p.Quantity -= amount
	p.ModifiedAt = domain.Today()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save ordered product: %w", err)
	}

	s.logger.InfoContext(ctx, "product ordered",
		slog.Int64("id", id),
		slog.Int("amount", amount),
		slog.Int("remaining", p.Quantity))
	return p, nil
}

// GetPage returns one page of records in the store's natural order, with no
// total attached.
func (s *ProductService) GetPage(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, error) {
	if pageNumber < 0 || pageSize <= 0 {
		return nil, &domain.InvalidPageError{Message: domain.MsgPageNotPositive}
	}

	products, err := s.repo.FindPage(ctx, pageNumber, pageSize, nil)
	if err != nil {
		return nil, fmt.Errorf("scan page: %w", err)
	}
	return products, nil
}

// GetPageWithTotal returns one page plus the table-wide record count,
// optionally ordered by a single field. orderBy and direction must be
// supplied together or not at all.
func (s *ProductService) GetPageWithTotal(ctx context.Context, pageNumber, pageSize int, orderBy, direction *string) (*domain.ProductPage, error) {
	if (orderBy != nil) != (direction != nil) {
		return nil, &domain.InvalidArgumentError{Message: domain.MsgOrderByAndDir}
	}
	if pageNumber < 0 || pageSize <= 0 {
		return nil, &domain.InvalidArgumentError{Message: domain.MsgInvalidPageOrSize}
	}

	var sort domain.SortSpec
	if orderBy != nil {
		dir, err := domain.ParseSortDirection(*direction)
		if err != nil {
			return nil, err
		}
		sort = domain.SortSpec{{Field: *orderBy, Direction: dir}}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	products, err := s.repo.FindPage(ctx, pageNumber, pageSize, sort)
	if err != nil {
		var unknown *domain.UnknownSortFieldError
		if errors.As(err, &unknown) {
			return nil, &domain.InvalidArgumentError{
				Message: "No such property to sort " + unknown.Field,
			}
		}
		return nil, fmt.Errorf("scan page: %w", err)
	}

	return &domain.ProductPage{TotalRecords: total, Products: products}, nil
}

// GetPageMultiSort returns one page ordered by a composite sort key. The
// spec's key order is the tie-break priority. Page bounds are not validated
// here; this path has always let them through to the store.
func (s *ProductService) GetPageMultiSort(ctx context.Context, req domain.PageRequest) ([]domain.Product, error) {
	products, err := s.repo.FindPage(ctx, req.PageNumber, req.ItemsPerPage, req.Sort)
	if err != nil {
		var unknown *domain.UnknownSortFieldError
		if errors.As(err, &unknown) {
			return nil, &domain.ValidationError{
				Message: "Wrong sort order, no property " + unknown.Field,
			}
		}
		return nil, fmt.Errorf("scan page: %w", err)
	}
	return products, nil
}

// CountProducts returns the table-wide record count.
func (s *ProductService) CountProducts(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// GetCategories returns one summary per distinct category currently in the
// store.
func (s *ProductService) GetCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	summaries, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	return summaries, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
