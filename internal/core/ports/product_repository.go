// internal/core/ports/product_repository.go
package ports

import (
	"context"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
)

// ProductRepository defines the persistence port for catalog records.
// This interface is implemented by the database adapter.
//
// Lookup methods return (nil, nil) when the record does not exist; only
// infrastructure failures produce a non-nil error. Save inserts when ID is
// zero and updates otherwise, and reports an oversized name/category as
// domain.StorageConstraintError. FindPage reports an unrecognized sort field
// as domain.UnknownSortFieldError.
type ProductRepository interface {
	Save(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
	FindPage(ctx context.Context, pageNumber, pageSize int, sort domain.SortSpec) ([]domain.Product, error)
	CountByCategory(ctx context.Context) ([]domain.CategorySummary, error)
}
