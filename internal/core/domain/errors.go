// internal/core/domain/errors.go
package domain

// The service reports failures through a small set of typed errors so the
// HTTP boundary can pick a status code with errors.As and pass the message
// through verbatim. Messages are part of the API contract and are asserted
// by tests; do not reword them casually.

// ValidationError covers malformed or missing caller input: blank required
// fields, non-positive order amounts, unknown sort fields in a multi-sort
// request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// InvalidArgumentError covers malformed pagination/sort request shapes on the
// single-sort query path.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// InvalidPageError covers out-of-range page arguments on the plain page path.
type InvalidPageError struct {
	Message string
}

func (e *InvalidPageError) Error() string { return e.Message }

// NotFoundError means the referenced record id does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// InsufficientStockError means an order asked for more units than are in
// stock.
type InsufficientStockError struct {
	Message string
}

func (e *InsufficientStockError) Error() string { return e.Message }

// StorageConstraintError surfaces a store-level constraint violation, in
// practice the VARCHAR(16) bound on name and category.
type StorageConstraintError struct {
	Message string
}

func (e *StorageConstraintError) Error() string { return e.Message }

// UnknownSortFieldError is the store adapter's "no such property" signal. The
// query engine translates it into the message appropriate for the entry point
// that triggered it.
type UnknownSortFieldError struct {
	Field string
}

func (e *UnknownSortFieldError) Error() string { return "unknown sort field: " + e.Field }

// Fixed user-facing messages, kept byte-identical to the original API.
const (
	MsgInvalidProduct     = "Invalid product passed, you need name and category"
	MsgTooLongValues      = "You inserted too long values, name and category cannot exceed 16 symbols"
	MsgNoSuchProduct      = "No such product"
	MsgNoProductWithID    = "There is no product with such id"
	MsgAmountNotPositive  = "Amount should be positive, greater than zero"
	MsgNotEnoughStock     = "There isn't that much in stock"
	MsgPageNotPositive    = "Page number and items per page should be positive"
	MsgOrderByAndDir      = "You must either provide both orderBy and direction, or none"
	MsgInvalidPageOrSize  = "Invalid page number or page size"
	MsgSortOrderAscOrDesc = "Sort order should be one of ASC or DESC (case insensitive)"
)
