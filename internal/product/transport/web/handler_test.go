package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	producterrors "github.com/Staphlerr/eshop-adpro/internal/product/errors"
	"github.com/Staphlerr/eshop-adpro/internal/product/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const productID = "eb558e9f-1c39-460e-8860-71af6af63bd6"

var sampleProduct = service.ProductDto{ID: productID, Name: "Sampo Cap Bambang", Quantity: 100}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) Create(ctx context.Context, p service.ProductDto) service.ProductDto {
	args := m.Called(ctx, p)
	return args.Get(0).(service.ProductDto)
}

func (m *mockProductService) FindAll(ctx context.Context) []service.ProductDto {
	args := m.Called(ctx)
	return args.Get(0).([]service.ProductDto)
}

func (m *mockProductService) FindByID(ctx context.Context, id string) (service.ProductDto, bool) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.ProductDto), args.Bool(1)
}

func (m *mockProductService) Update(ctx context.Context, p service.ProductDto) (service.ProductDto, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(service.ProductDto), args.Error(1)
}

func (m *mockProductService) DeleteByID(ctx context.Context, id string) {
	m.Called(ctx, id)
}

func newRouter(svc service.ProductService) *chi.Mux {
	mux := chi.NewRouter()
	NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	return mux
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func postForm(mux http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func productForm(p service.ProductDto, quantity string) url.Values {
	return url.Values{"id": {p.ID}, "name": {p.Name}, "quantity": {quantity}}
}

func Test_HomePage(t *testing.T) {
	// given
	svc := new(mockProductService)
	// when
	rr := get(newRouter(svc), "/")
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `<a href="/product/list">Let's Create Product!</a>`)
	svc.AssertExpectations(t)
}

func Test_CreateProductPage(t *testing.T) {
	// given
	svc := new(mockProductService)
	// when
	rr := get(newRouter(svc), "/product/create")
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<title>Create New Product</title>")
	assert.Contains(t, body, `id="nameInput"`)
	assert.Contains(t, body, `id="quantityInput"`)
	assert.Contains(t, body, "<button")
}

func Test_CreateProductPost(t *testing.T) {
	testCases := []struct {
		name         string
		form         url.Values
		expected     *service.ProductDto
		expectedCode int
	}{
		{
			name:         "Success - product created",
			form:         url.Values{"name": {"Sampo Cap Bambang"}, "quantity": {"100"}},
			expected:     &service.ProductDto{Name: "Sampo Cap Bambang", Quantity: 100},
			expectedCode: http.StatusFound,
		},
		{
			name:         "Success - empty quantity is zero",
			form:         url.Values{"name": {"Sampo Cap Usep"}, "quantity": {""}},
			expected:     &service.ProductDto{Name: "Sampo Cap Usep"},
			expectedCode: http.StatusFound,
		},
		{
			name:         "Error - quantity is not a number",
			form:         url.Values{"name": {"Sampo Cap Usep"}, "quantity": {"many"}},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			if tc.expected != nil {
				svc.On("Create", mock.Anything, *tc.expected).Return(sampleProduct).Once()
			}
			// when
			rr := postForm(newRouter(svc), "/product/create", tc.form)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode == http.StatusFound {
				assert.Equal(t, "/product/list", rr.Header().Get("Location"))
			}
			svc.AssertExpectations(t)
		})
	}
}

func Test_ProductListPage(t *testing.T) {
	testCases := []struct {
		name     string
		products []service.ProductDto
		contains []string
	}{
		{
			name:     "Success - products listed",
			products: []service.ProductDto{sampleProduct},
			contains: []string{
				"<title>Product List</title>",
				`<a href="/product/create">Create Product</a>`,
				"<td>Sampo Cap Bambang</td>",
				"<td>100</td>",
				`href="/product/edit/` + productID + `"`,
				`href="/product/delete/` + productID + `"`,
			},
		},
		{
			name:     "Success - no products",
			products: []service.ProductDto{},
			contains: []string{"<title>Product List</title>", "No products yet"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			svc.On("FindAll", mock.Anything).Return(tc.products).Once()
			// when
			rr := get(newRouter(svc), "/product/list")
			// then
			assert.Equal(t, http.StatusOK, rr.Code)
			for _, fragment := range tc.contains {
				assert.Contains(t, rr.Body.String(), fragment)
			}
			svc.AssertExpectations(t)
		})
	}
}

func Test_EditProductPage(t *testing.T) {
	t.Run("Success - product found", func(t *testing.T) {
		// given
		svc := new(mockProductService)
		svc.On("FindByID", mock.Anything, productID).Return(sampleProduct, true).Once()
		// when
		rr := get(newRouter(svc), "/product/edit/"+productID)
		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, `name="id" value="`+productID+`"`)
		assert.Contains(t, body, `value="Sampo Cap Bambang"`)
		assert.Contains(t, body, `value="100"`)
		svc.AssertExpectations(t)
	})

	t.Run("Success - escaped id", func(t *testing.T) {
		// given
		svc := new(mockProductService)
		escaped := service.ProductDto{ID: "shelf/7", Name: "Sampo Cap Bambang", Quantity: 100}
		svc.On("FindByID", mock.Anything, "shelf/7").Return(escaped, true).Once()
		// when
		rr := get(newRouter(svc), "/product/edit/shelf%2F7")
		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `name="id" value="shelf/7"`)
		svc.AssertExpectations(t)
	})

	t.Run("Redirect - product not found", func(t *testing.T) {
		// given
		svc := new(mockProductService)
		svc.On("FindByID", mock.Anything, "nonExistingId").Return(service.ProductDto{}, false).Once()
		// when
		rr := get(newRouter(svc), "/product/edit/nonExistingId")
		// then
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/product/list", rr.Header().Get("Location"))
		svc.AssertExpectations(t)
	})
}

func Test_EditProductPost(t *testing.T) {
	testCases := []struct {
		name         string
		form         url.Values
		updateErr    error
		expectUpdate bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product updated",
			form:         productForm(sampleProduct, "100"),
			expectUpdate: true,
			expectedCode: http.StatusFound,
		},
		{
			name:         "Error - product not found",
			form:         productForm(sampleProduct, "100"),
			updateErr:    producterrors.ErrProductNotFound,
			expectUpdate: true,
			expectedCode: http.StatusNotFound,
			expectedBody: "Product with ID " + productID + " not found",
		},
		{
			name:         "Error - service error",
			form:         productForm(sampleProduct, "100"),
			updateErr:    errors.New("boom"),
			expectUpdate: true,
			expectedCode: http.StatusInternalServerError,
			expectedBody: "Failed to update product with ID " + productID,
		},
		{
			name:         "Error - missing id",
			form:         url.Values{"name": {"Sampo Cap Bambang"}, "quantity": {"100"}},
			expectedCode: http.StatusBadRequest,
			expectedBody: "product id is required",
		},
		{
			name:         "Error - quantity is not a number",
			form:         productForm(sampleProduct, "1.5"),
			expectedCode: http.StatusBadRequest,
			expectedBody: "invalid quantity",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			if tc.expectUpdate {
				svc.On("Update", mock.Anything, sampleProduct).Return(sampleProduct, tc.updateErr).Once()
			}
			// when
			rr := postForm(newRouter(svc), "/product/edit", tc.form)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode == http.StatusFound {
				assert.Equal(t, "/product/list", rr.Header().Get("Location"))
			}
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func Test_DeleteProduct(t *testing.T) {
	// given
	svc := new(mockProductService)
	svc.On("DeleteByID", mock.Anything, productID).Once()
	// when
	rr := get(newRouter(svc), "/product/delete/"+productID)
	// then
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/product/list", rr.Header().Get("Location"))
	svc.AssertExpectations(t)
}

func Test_DeleteProduct_EscapedID(t *testing.T) {
	// given
	svc := new(mockProductService)
	svc.On("DeleteByID", mock.Anything, "shelf/7").Once()
	// when
	rr := get(newRouter(svc), "/product/delete/"+url.PathEscape("shelf/7"))
	// then
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/product/list", rr.Header().Get("Location"))
	svc.AssertExpectations(t)
}
