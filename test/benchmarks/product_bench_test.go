package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/core/services"
	"github.com/pvasilev/stockroom-be/internal/handlers"
	"github.com/pvasilev/stockroom-be/test/helpers"
)

func BenchmarkProductOperations(b *testing.B) {
	repo := newStubRepository()
	seedRepository(repo, 1000)

	service := services.NewProductService(repo, helpers.TestLogger())
	ctx := context.Background()

	b.Run("Add", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.Add(ctx, fmt.Sprintf("New-%06d", i), "Laptop", "freshly added")
		}
	})

	b.Run("AddMergesExisting", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.Add(ctx, "Bench-0001", "Laptop", "restock")
		}
	})

	b.Run("Order", func(b *testing.B) {
		// enough stock that orders never fail mid-run
		stocked := domain.NewProduct("Bench-Stock", "Laptop", "order target")
		stocked.Quantity = 1 << 30
		if err := repo.Save(ctx, stocked); err != nil {
			b.Fatal(err)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.Order(ctx, stocked.ID, 1)
		}
	})

	b.Run("GetPage", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.GetPage(ctx, i%10, 50)
		}
	})

	b.Run("GetPageWithTotal", func(b *testing.B) {
		orderBy, direction := "name", "asc"

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.GetPageWithTotal(ctx, i%10, 50, &orderBy, &direction)
		}
	})

	b.Run("CountByCategory", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.GetCategories(ctx)
		}
	})
}

func BenchmarkPageRequestDecode(b *testing.B) {
	body := multiSortBody(3, 25)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var req domain.PageRequest
		if err := json.Unmarshal(body, &req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExcelExport(b *testing.B) {
	repo := newStubRepository()
	seedRepository(repo, 500)

	handler := handlers.NewExportHandler(repo, helpers.TestLogger())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/export/xlsx", nil)
		rec := httptest.NewRecorder()
		handler.ExportExcel(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
