package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvasilev/stockroom-be/internal/adapters/db"
	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/test/helpers"
)

func TestProductRepository_FindPage_RejectsUnknownSortField(t *testing.T) {
	// Sort fields are validated before any query is built, so no
	// database connection is needed here.
	repo := db.NewProductRepository(nil, helpers.TestLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		sort  domain.SortSpec
		field string
	}{
		{
			name:  "unknown_field",
			sort:  domain.SortSpec{{Field: "color", Direction: domain.SortAsc}},
			field: "color",
		},
		{
			name: "unknown_field_after_valid_one",
			sort: domain.SortSpec{
				{Field: "name", Direction: domain.SortAsc},
				{Field: "price", Direction: domain.SortDesc},
			},
			field: "price",
		},
		{
			name:  "column_names_are_not_accepted",
			sort:  domain.SortSpec{{Field: "created_date", Direction: domain.SortAsc}},
			field: "created_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.FindPage(ctx, 0, 10, tt.sort)

			require.Error(t, err)
			assert.Nil(t, products)

			var sortErr *domain.UnknownSortFieldError
			require.ErrorAs(t, err, &sortErr)
			assert.Equal(t, tt.field, sortErr.Field)
		})
	}
}
