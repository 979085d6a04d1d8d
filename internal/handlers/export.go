// internal/handlers/export.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/core/ports"
)

// export pages through the repository in slices of this size
const exportPageSize = 500

// ExportHandler streams the full catalog as a spreadsheet
type ExportHandler struct {
	repo   ports.ProductRepository
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(repo ports.ProductRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		repo:   repo,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/xlsx
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.InfoContext(ctx, "starting excel export")

	products, err := h.collectProducts(r)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve products for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := generateExcelFile(products)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("products_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "excel export completed",
		slog.Int("total_rows", len(products)),
		slog.String("filename", filename))
}

func (h *ExportHandler) collectProducts(r *http.Request) ([]domain.Product, error) {
	ctx := r.Context()

	all := make([]domain.Product, 0)
	for page := 0; ; page++ {
		batch, err := h.repo.FindPage(ctx, page, exportPageSize, nil)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < exportPageSize {
			break
		}
	}

	return all, nil
}

func generateExcelFile(products []domain.Product) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{"ID", "Name", "Category", "Description", "Quantity", "Created", "Modified"}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().Value = strconv.FormatInt(p.ID, 10)
		row.AddCell().Value = p.Name
		row.AddCell().Value = p.Category
		row.AddCell().Value = p.Description
		row.AddCell().Value = strconv.Itoa(p.Quantity)
		row.AddCell().Value = p.CreatedAt.Format("2006-01-02")
		row.AddCell().Value = p.ModifiedAt.Format("2006-01-02")
	}

	for i := 0; i < len(headers); i++ {
		sheet.SetColWidth(i+1, i+1, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"error": %q}`, message)
}
