// internal/core/domain/product.go
package domain

import "time"

// MaxFieldLen is the column bound for name and category. The database
// enforces it (VARCHAR(16)); the domain only names it so callers and tests
// agree on the limit.
const MaxFieldLen = 16

// Product represents a single catalog record
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// NewProduct constructs a fresh record with creation defaults: a single unit
// in stock and both dates set to today.
func NewProduct(name, category, description string) *Product {
	now := Today()
	return &Product{
		Name:        name,
		Category:    category,
		Description: description,
		Quantity:    1,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

// Today returns the current date truncated to day precision, UTC. Both
// timestamp columns are DATE, so everything the service writes goes through
// this.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProductPatch carries a partial edit. Nil means the field was not supplied
// and keeps its current value; a non-nil pointer overwrites, even when it
// points at an empty string.
type ProductPatch struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// Apply copies the supplied fields onto p and bumps ModifiedAt. It always
// bumps, even when no field was supplied.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.ModifiedAt = Today()
}

// ProductPage is one page of records plus the table-wide total. totalRecords
// is never scoped to the page.
type ProductPage struct {
	TotalRecords int64     `json:"totalRecords"`
	Products     []Product `json:"products"`
}

// CategorySummary is the per-category record count
type CategorySummary struct {
	Category          string `json:"category"`
	ProductsAvailable int64  `json:"productsAvailable"`
}
