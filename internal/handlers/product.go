// internal/handlers/product.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/core/ports"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service ports.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ports.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "product")),
	}
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Add(ctx, req.Name, req.Category, req.Description)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to create product")
		return
	}

	h.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name))

	h.respondJSON(w, http.StatusCreated, product)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.respondServiceError(ctx, w, err, "failed to delete product")
		return
	}

	h.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully deleted the product",
	})
}

// UpdateProduct handles PATCH /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Edit(ctx, id, req.ToPatch())
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to update product")
		return
	}

	h.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", id))

	h.respondJSON(w, http.StatusOK, product)
}

// OrderProduct handles POST /api/v1/products/{id}/order/{amount}
func (h *ProductHandler) OrderProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	amount, err := strconv.Atoi(r.PathValue("amount"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid amount format")
		return
	}

	product, err := h.service.Order(ctx, id, amount)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to order product")
		return
	}

	h.logger.InfoContext(ctx, "product ordered",
		slog.Int64("product_id", id),
		slog.Int("amount", amount),
		slog.Int("remaining", product.Quantity))

	h.respondJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /api/v1/products. The page always carries the
// table-wide total; orderBy and direction must come together or not at all.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid page number or page size")
		return
	}
	pageSize, err := strconv.Atoi(query.Get("pageSize"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid page number or page size")
		return
	}

	var orderBy, direction *string
	if v := query.Get("orderBy"); v != "" {
		orderBy = &v
	}
	if v := query.Get("direction"); v != "" {
		direction = &v
	}

	result, err := h.service.GetPageWithTotal(ctx, page, pageSize, orderBy, direction)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to list products")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ListAllByPage handles GET /api/v1/products/all
func (h *ProductHandler) ListAllByPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	offset, err := strconv.Atoi(query.Get("offset"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, domain.MsgPageNotPositive)
		return
	}
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, domain.MsgPageNotPositive)
		return
	}

	products, err := h.service.GetPage(ctx, offset, limit)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to list products by page")
		return
	}

	h.respondJSON(w, http.StatusOK, products)
}

// ListAllByPageWithSort handles POST /api/v1/products/all. The body carries
// the page plus an ordered sort descriptor; a POST because the number of
// sorted properties is open-ended.
func (h *ProductHandler) ListAllByPageWithSort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var invalidArg *domain.InvalidArgumentError
		if errors.As(err, &invalidArg) {
			h.respondError(w, http.StatusBadRequest, invalidArg.Message)
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	products, err := h.service.GetPageMultiSort(ctx, req)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to list products with sort")
		return
	}

	h.respondJSON(w, http.StatusOK, products)
}

// CountProducts handles GET /api/v1/products/count
func (h *ProductHandler) CountProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.service.CountProducts(ctx)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to count products")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// GetCategories handles GET /api/v1/categories
func (h *ProductHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.service.GetCategories(ctx)
	if err != nil {
		h.respondServiceError(ctx, w, err, "failed to list categories")
		return
	}

	h.respondJSON(w, http.StatusOK, categories)
}

func (h *ProductHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return 0, false
	}
	return id, true
}

// respondServiceError translates typed domain errors into HTTP statuses.
// Anything unrecognized is a 500 with a generic message.
func (h *ProductHandler) respondServiceError(ctx context.Context, w http.ResponseWriter, err error, logMsg string) {
	var (
		validation  *domain.ValidationError
		invalidArg  *domain.InvalidArgumentError
		invalidPage *domain.InvalidPageError
		notFound    *domain.NotFoundError
		noStock     *domain.InsufficientStockError
		storeLimit  *domain.StorageConstraintError
	)

	switch {
	case errors.As(err, &validation):
		h.respondError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &invalidArg):
		h.respondError(w, http.StatusBadRequest, invalidArg.Message)
	case errors.As(err, &invalidPage):
		h.respondError(w, http.StatusBadRequest, invalidPage.Message)
	case errors.As(err, &noStock):
		h.respondError(w, http.StatusBadRequest, noStock.Message)
	case errors.As(err, &storeLimit):
		h.respondError(w, http.StatusBadRequest, storeLimit.Message)
	case errors.As(err, &notFound):
		h.respondError(w, http.StatusNotFound, notFound.Message)
	default:
		h.logger.ErrorContext(ctx, logMsg, slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Unexpected error occurred")
	}
}

func (h *ProductHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ProductHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request DTOs

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// UpdateProductRequest represents the request body for a partial update.
// Absent fields stay untouched; present-but-empty strings overwrite.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// ToPatch converts the request to a domain patch
func (r *UpdateProductRequest) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
	}
}
