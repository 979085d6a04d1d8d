// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/core/ports"
)

const productsTable = "products"

// sortColumns maps API-facing sort attribute names to table columns.
var sortColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"category":    "category",
	"description": "description",
	"quantity":    "quantity",
	"createdAt":   "created_date",
	"modifiedAt":  "last_modified_date",
}

// pg error code for string_data_right_truncation (value too long for column)
const pgErrStringTruncation = "22001"

// ProductRepository implements ports.ProductRepository backed by PostgreSQL.
type ProductRepository struct {
	db     ports.Database
	logger *slog.Logger
	sq     sq.StatementBuilderType
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db ports.Database, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "product")),
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Save inserts the product when its ID is zero, otherwise updates the
// existing row. The stored row's generated ID is written back on insert.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if product.ID == 0 {
		return r.insert(ctx, product)
	}
	return r.update(ctx, product)
}

func (r *ProductRepository) insert(ctx context.Context, product *domain.Product) error {
	query, args, err := r.sq.
		Insert(productsTable).
		Columns("name", "category", "description", "quantity", "created_date", "last_modified_date").
		Values(product.Name, product.Category, product.Description, product.Quantity,
			product.CreatedAt, product.ModifiedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&product.ID); err != nil {
		return r.mapError(err)
	}

	return nil
}

func (r *ProductRepository) update(ctx context.Context, product *domain.Product) error {
	query, args, err := r.sq.
		Update(productsTable).
		Set("name", product.Name).
		Set("category", product.Category).
		Set("description", product.Description).
		Set("quantity", product.Quantity).
		Set("last_modified_date", product.ModifiedAt).
		Where(sq.Eq{"id": product.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return r.mapError(err)
	}

	return nil
}

// FindByID returns the product with the given ID, or nil when absent.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query, args, err := r.selectProducts().
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	product, err := r.scanOne(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// FindByName returns the first product with the given name, or nil when
// absent. Names are not unique so insertion order decides which row wins.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	query, args, err := r.selectProducts().
		Where(sq.Eq{"name": name}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	product, err := r.scanOne(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Exists reports whether a product with the given ID exists.
func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.sq.
		Select("1").
		From(productsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return true, nil
}

// Count returns the total number of products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := r.sq.
		Select("COUNT(*)").
		From(productsTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Delete removes the product with the given ID.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sq.
		Delete(productsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// FindPage returns one page of products. Pages are zero-based. The sort spec
// is applied in order; an empty spec falls back to id ascending so pages stay
// stable between requests. Unknown sort fields yield UnknownSortFieldError.
func (r *ProductRepository) FindPage(ctx context.Context, pageNumber, pageSize int, sort domain.SortSpec) ([]domain.Product, error) {
	builder := r.selectProducts()

	if len(sort) == 0 {
		builder = builder.OrderBy("id ASC")
	} else {
		for _, key := range sort {
			column, ok := sortColumns[key.Field]
			if !ok {
				return nil, &domain.UnknownSortFieldError{Field: key.Field}
			}
			builder = builder.OrderBy(fmt.Sprintf("%s %s", column, key.Direction))
		}
	}

	offset := uint64(pageNumber) * uint64(pageSize)
	query, args, err := builder.
		Limit(uint64(pageSize)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build page query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, pageSize)
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read page rows: %w", err)
	}

	return products, nil
}

// CountByCategory returns per-category product counts, ordered by category.
func (r *ProductRepository) CountByCategory(ctx context.Context) ([]domain.CategorySummary, error) {
	query, args, err := r.sq.
		Select("category", "COUNT(*)").
		From(productsTable).
		GroupBy("category").
		OrderBy("category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.CategorySummary, 0)
	for rows.Next() {
		var s domain.CategorySummary
		if err := rows.Scan(&s.Category, &s.ProductsAvailable); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category rows: %w", err)
	}

	return summaries, nil
}

func (r *ProductRepository) selectProducts() sq.SelectBuilder {
	return r.sq.
		Select("id", "name", "category", "description", "quantity", "created_date", "last_modified_date").
		From(productsTable)
}

func (r *ProductRepository) scanOne(ctx context.Context, query string, args []interface{}) (*domain.Product, error) {
	var p domain.Product
	err := scanProduct(r.db.QueryRow(ctx, query, args...), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrStringTruncation {
		return &domain.StorageConstraintError{Message: domain.MsgTooLongValues}
	}
	return fmt.Errorf("failed to save product: %w", err)
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Quantity,
		&p.CreatedAt, &p.ModifiedAt)
}
