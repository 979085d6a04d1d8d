// internal/handlers/product_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
	"github.com/pvasilev/stockroom-be/internal/handlers"
	"github.com/pvasilev/stockroom-be/test/helpers"
	"github.com/pvasilev/stockroom-be/test/mocks"
)

func newProductHandler(t *testing.T) (*handlers.ProductHandler, *mocks.MockProductService) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockService := mocks.NewMockProductService(ctrl)
	handler := handlers.NewProductHandler(mockService, helpers.TestLogger())
	return handler, mockService
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var response map[string]string
	require.NoError(t, json.Unmarshal(body, &response))
	return response["error"]
}

func TestProductHandler_CreateProduct(t *testing.T) {
	testProduct := helpers.CreateTestProduct()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockProductService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_creates_product",
			body: `{"name":"Test Laptop","category":"Laptop","description":"14 inch test ultrabook"}`,
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Add(gomock.Any(), "Test Laptop", "Laptop", "14 inch test ultrabook").
					Return(testProduct, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Product
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, testProduct.ID, response.ID)
				assert.Equal(t, testProduct.Name, response.Name)
			},
		},
		{
			name:           "malformed_json",
			body:           `{"name":`,
			setupMocks:     func(m *mocks.MockProductService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Invalid request body", decodeError(t, body))
			},
		},
		{
			name: "blank_fields_rejected",
			body: `{"name":"","category":""}`,
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Add(gomock.Any(), "", "", "").
					Return(nil, &domain.ValidationError{Message: domain.MsgInvalidProduct})
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, domain.MsgInvalidProduct, decodeError(t, body))
			},
		},
		{
			name: "oversized_fields_rejected",
			body: `{"name":"a-name-well-beyond-the-column-limit","category":"Laptop"}`,
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Add(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &domain.StorageConstraintError{Message: domain.MsgTooLongValues})
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, domain.MsgTooLongValues, decodeError(t, body))
			},
		},
		{
			name: "unexpected_service_error",
			body: `{"name":"Test Laptop","category":"Laptop"}`,
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Add(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Unexpected error occurred", decodeError(t, body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.CreateProduct(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMocks     func(*mocks.MockProductService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_deletes_product",
			id:   "7",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Successfully deleted the product", response["message"])
			},
		},
		{
			name:           "invalid_id_format",
			id:             "not-a-number",
			setupMocks:     func(m *mocks.MockProductService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Invalid product ID format", decodeError(t, body))
			},
		},
		{
			name: "product_not_found",
			id:   "999",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Delete(gomock.Any(), int64(999)).
					Return(&domain.NotFoundError{Message: domain.MsgNoSuchProduct})
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, domain.MsgNoSuchProduct, decodeError(t, body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("DELETE", "/api/v1/products/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.DeleteProduct(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestProductHandler_UpdateProduct(t *testing.T) {
	t.Run("applies_partial_patch", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		updated := helpers.CreateTestProduct(func(p *domain.Product) {
			p.ID = 7
			p.Description = "new description"
		})

		mockService.EXPECT().
			Edit(gomock.Any(), int64(7), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
				require.NotNil(t, patch.Description)
				assert.Equal(t, "new description", *patch.Description)
				assert.Nil(t, patch.Name, "absent fields map to nil pointers")
				assert.Nil(t, patch.Category)
				return updated, nil
			})

		req := httptest.NewRequest("PATCH", "/api/v1/products/7",
			bytes.NewBufferString(`{"description":"new description"}`))
		req.SetPathValue("id", "7")
		w := httptest.NewRecorder()

		handler.UpdateProduct(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("not_found", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		mockService.EXPECT().
			Edit(gomock.Any(), int64(999), gomock.Any()).
			Return(nil, &domain.NotFoundError{Message: domain.MsgNoProductWithID})

		req := httptest.NewRequest("PATCH", "/api/v1/products/999",
			bytes.NewBufferString(`{"name":"whatever"}`))
		req.SetPathValue("id", "999")
		w := httptest.NewRecorder()

		handler.UpdateProduct(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
		assert.Equal(t, domain.MsgNoProductWithID, decodeError(t, w.Body.Bytes()))
	})
}

func TestProductHandler_OrderProduct(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		amount         string
		setupMocks     func(*mocks.MockProductService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:   "successful_order",
			id:     "7",
			amount: "3",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Order(gomock.Any(), int64(7), 3).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = 7
						p.Quantity = 2
					}), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non_numeric_amount",
			id:             "7",
			amount:         "three",
			setupMocks:     func(m *mocks.MockProductService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid amount format",
		},
		{
			name:   "non_positive_amount",
			id:     "7",
			amount: "0",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Order(gomock.Any(), int64(7), 0).
					Return(nil, &domain.ValidationError{Message: domain.MsgAmountNotPositive})
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  domain.MsgAmountNotPositive,
		},
		{
			name:   "insufficient_stock",
			id:     "7",
			amount: "100",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Order(gomock.Any(), int64(7), 100).
					Return(nil, &domain.InsufficientStockError{Message: domain.MsgNotEnoughStock})
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  domain.MsgNotEnoughStock,
		},
		{
			name:   "missing_product",
			id:     "999",
			amount: "1",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					Order(gomock.Any(), int64(999), 1).
					Return(nil, &domain.NotFoundError{Message: domain.MsgNoSuchProduct})
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  domain.MsgNoSuchProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/products/"+tt.id+"/order/"+tt.amount, nil)
			req.SetPathValue("id", tt.id)
			req.SetPathValue("amount", tt.amount)
			w := httptest.NewRecorder()

			handler.OrderProduct(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w.Body.Bytes()))
			}
		})
	}
}

func TestProductHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMocks     func(*mocks.MockProductService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "unsorted_page",
			queryParams: "?page=0&pageSize=10",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					GetPageWithTotal(gomock.Any(), 0, 10, nil, nil).
					Return(&domain.ProductPage{
						TotalRecords: 42,
						Products:     helpers.CreateTestProducts(10),
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "sorted_page",
			queryParams: "?page=1&pageSize=5&orderBy=name&direction=desc",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					GetPageWithTotal(gomock.Any(), 1, 5, gomock.Not(gomock.Nil()), gomock.Not(gomock.Nil())).
					DoAndReturn(func(ctx context.Context, page, size int, orderBy, direction *string) (*domain.ProductPage, error) {
						assert.Equal(t, "name", *orderBy)
						assert.Equal(t, "desc", *direction)
						return &domain.ProductPage{TotalRecords: 42}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing_page_params",
			queryParams:    "",
			setupMocks:     func(m *mocks.MockProductService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid page number or page size",
		},
		{
			name:        "order_by_without_direction",
			queryParams: "?page=0&pageSize=10&orderBy=name",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					GetPageWithTotal(gomock.Any(), 0, 10, gomock.Any(), gomock.Any()).
					Return(nil, &domain.InvalidArgumentError{Message: domain.MsgOrderByAndDir})
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  domain.MsgOrderByAndDir,
		},
		{
			name:        "unknown_sort_property",
			queryParams: "?page=0&pageSize=10&orderBy=color&direction=asc",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					GetPageWithTotal(gomock.Any(), 0, 10, gomock.Any(), gomock.Any()).
					Return(nil, &domain.InvalidArgumentError{Message: "No such property to sort color"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "No such property to sort color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/products"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			handler.ListProducts(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w.Body.Bytes()))
			}
		})
	}
}

func TestProductHandler_ListAllByPage(t *testing.T) {
	t.Run("returns_bare_page", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		mockService.EXPECT().
			GetPage(gomock.Any(), 2, 15).
			Return(helpers.CreateTestProducts(15), nil)

		req := httptest.NewRequest("GET", "/api/v1/products/all?offset=2&limit=15", nil)
		w := httptest.NewRecorder()

		handler.ListAllByPage(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var products []domain.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		assert.Len(t, products, 15)
	})

	t.Run("negative_offset_rejected_by_service", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		mockService.EXPECT().
			GetPage(gomock.Any(), -1, 15).
			Return(nil, &domain.InvalidPageError{Message: domain.MsgPageNotPositive})

		req := httptest.NewRequest("GET", "/api/v1/products/all?offset=-1&limit=15", nil)
		w := httptest.NewRecorder()

		handler.ListAllByPage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		assert.Equal(t, domain.MsgPageNotPositive, decodeError(t, w.Body.Bytes()))
	})

	t.Run("missing_params_rejected", func(t *testing.T) {
		handler, _ := newProductHandler(t)

		req := httptest.NewRequest("GET", "/api/v1/products/all", nil)
		w := httptest.NewRecorder()

		handler.ListAllByPage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

func TestProductHandler_ListAllByPageWithSort(t *testing.T) {
	t.Run("preserves_sort_key_order_from_body", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		mockService.EXPECT().
			GetPageMultiSort(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, req domain.PageRequest) ([]domain.Product, error) {
				assert.Equal(t, 1, req.PageNumber)
				assert.Equal(t, 20, req.ItemsPerPage)
				require.Len(t, req.Sort, 2)
				assert.Equal(t, "quantity", req.Sort[0].Field)
				assert.Equal(t, domain.SortDesc, req.Sort[0].Direction)
				assert.Equal(t, "name", req.Sort[1].Field)
				assert.Equal(t, domain.SortAsc, req.Sort[1].Direction)
				return []domain.Product{}, nil
			})

		body := `{"pageNumber":1,"itemsPerPage":20,"sortedProperties":{"quantity":"desc","name":"asc"}}`
		req := httptest.NewRequest("POST", "/api/v1/products/all", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.ListAllByPageWithSort(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("invalid_direction_in_body", func(t *testing.T) {
		handler, _ := newProductHandler(t)

		body := `{"pageNumber":0,"itemsPerPage":10,"sortedProperties":{"name":"sideways"}}`
		req := httptest.NewRequest("POST", "/api/v1/products/all", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.ListAllByPageWithSort(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		assert.Equal(t, domain.MsgSortOrderAscOrDesc, decodeError(t, w.Body.Bytes()))
	})

	t.Run("unknown_sort_property", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		mockService.EXPECT().
			GetPageMultiSort(gomock.Any(), gomock.Any()).
			Return(nil, &domain.ValidationError{Message: "Wrong sort order, no property color"})

		body := `{"pageNumber":0,"itemsPerPage":10,"sortedProperties":{"color":"asc"}}`
		req := httptest.NewRequest("POST", "/api/v1/products/all", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.ListAllByPageWithSort(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		assert.Equal(t, "Wrong sort order, no property color", decodeError(t, w.Body.Bytes()))
	})
}

func TestProductHandler_Aggregates(t *testing.T) {
	t.Run("count_products", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		mockService.EXPECT().CountProducts(gomock.Any()).Return(int64(123), nil)

		req := httptest.NewRequest("GET", "/api/v1/products/count", nil)
		w := httptest.NewRecorder()

		handler.CountProducts(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response map[string]int64
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(123), response["count"])
	})

	t.Run("get_categories", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		summaries := []domain.CategorySummary{
			{Category: "Headset", ProductsAvailable: 4},
			{Category: "Laptop", ProductsAvailable: 9},
		}
		mockService.EXPECT().GetCategories(gomock.Any()).Return(summaries, nil)

		req := httptest.NewRequest("GET", "/api/v1/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response []domain.CategorySummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, summaries, response)
	})

	t.Run("aggregate_errors_are_500", func(t *testing.T) {
		handler, mockService := newProductHandler(t)

		mockService.EXPECT().
			CountProducts(gomock.Any()).
			Return(int64(0), errors.New("database connection failed"))

		req := httptest.NewRequest("GET", "/api/v1/products/count", nil)
		w := httptest.NewRecorder()

		handler.CountProducts(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
		assert.Equal(t, "Unexpected error occurred", decodeError(t, w.Body.Bytes()))
	})
}
