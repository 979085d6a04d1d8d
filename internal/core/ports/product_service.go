// internal/core/ports/product_service.go
package ports

import (
	"context"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
)

// ProductService defines the application service port for the catalog. It
// bundles the record manager (Add/Edit/Delete/Order), the pagination and
// sorting query engine, and the category aggregator. Failures come back as
// the typed errors in the domain package.
type ProductService interface {
	Add(ctx context.Context, name, category, description string) (*domain.Product, error)
	Edit(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Order(ctx context.Context, id int64, amount int) (*domain.Product, error)

	GetPage(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, error)
	GetPageWithTotal(ctx context.Context, pageNumber, pageSize int, orderBy, direction *string) (*domain.ProductPage, error)
	GetPageMultiSort(ctx context.Context, req domain.PageRequest) ([]domain.Product, error)

	CountProducts(ctx context.Context) (int64, error)
	GetCategories(ctx context.Context) ([]domain.CategorySummary, error)
}
