// internal/handlers/export_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/handlers"
	"github.com/pvasilev/stockroom-be/test/helpers"
	"github.com/pvasilev/stockroom-be/test/mocks"
)

func newExportHandler(t *testing.T) (*handlers.ExportHandler, *mocks.MockProductRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)

	return handlers.NewExportHandler(repo, helpers.TestLogger()), repo
}

func TestExportHandler_ExportExcel(t *testing.T) {
	t.Run("exports_all_products_as_spreadsheet", func(t *testing.T) {
		handler, repo := newExportHandler(t)

		products := helpers.CreateTestProducts(3)
		repo.EXPECT().
			FindPage(gomock.Any(), 0, 500, domain.SortSpec(nil)).
			Return(products, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/xlsx", nil)
		rec := httptest.NewRecorder()

		handler.ExportExcel(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "products_export_")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

		file, err := xlsx.OpenBinary(rec.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets, 1)

		sheet := file.Sheets[0]
		assert.Equal(t, "Products", sheet.Name)
		// header row plus one row per product
		assert.Equal(t, 4, sheet.MaxRow)

		row, err := sheet.Row(1)
		require.NoError(t, err)
		assert.Equal(t, "Item-001", row.GetCell(1).Value)
		assert.Equal(t, "Laptop", row.GetCell(2).Value)
	})

	t.Run("pages_through_large_catalogs", func(t *testing.T) {
		handler, repo := newExportHandler(t)

		firstPage := make([]domain.Product, 500)
		for i := range firstPage {
			firstPage[i] = *helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = int64(i + 1)
			})
		}
		secondPage := helpers.CreateTestProducts(2)

		gomock.InOrder(
			repo.EXPECT().
				FindPage(gomock.Any(), 0, 500, domain.SortSpec(nil)).
				Return(firstPage, nil),
			repo.EXPECT().
				FindPage(gomock.Any(), 1, 500, domain.SortSpec(nil)).
				Return(secondPage, nil),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/xlsx", nil)
		rec := httptest.NewRecorder()

		handler.ExportExcel(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		file, err := xlsx.OpenBinary(rec.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets, 1)
		assert.Equal(t, 503, file.Sheets[0].MaxRow)
	})

	t.Run("reports_store_failures", func(t *testing.T) {
		handler, repo := newExportHandler(t)

		repo.EXPECT().
			FindPage(gomock.Any(), 0, 500, domain.SortSpec(nil)).
			Return(nil, assert.AnError)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/xlsx", nil)
		rec := httptest.NewRecorder()

		handler.ExportExcel(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Failed to retrieve data", body["error"])
	})
}
