// Package web serves the server-rendered product pages.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	producterrors "github.com/Staphlerr/eshop-adpro/internal/product/errors"
	"github.com/Staphlerr/eshop-adpro/internal/product/service"
	webutil "github.com/Staphlerr/eshop-adpro/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per template file.
const (
	pageHome          = "home"
	pageProductList   = "product_list"
	pageCreateProduct = "create_product"
	pageEditProduct   = "edit_product"
	pageError         = "error"
)

var pages = parsePages(pageHome, pageProductList, pageCreateProduct, pageEditProduct, pageError)

// parsePages combines every page with the shared layout.
func parsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return parsed
}

type productPage struct {
	Product service.ProductDto
}

type productListPage struct {
	Products []service.ProductDto
}

type errorPage struct {
	Title   string
	Message string
}

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the page handler backed by the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "web"),
	}
}

// RegisterRoutes registers the home page and the /product pages.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HomePage)
	r.Route("/product", func(r chi.Router) {
		r.Get("/create", h.CreateProductPage)
		r.Post("/create", h.CreateProductPost)
		r.Get("/list", h.ProductListPage)
		r.Get("/edit/{id}", h.EditProductPage)
		r.Post("/edit", h.EditProductPost)
		r.Get("/delete/{id}", h.DeleteProduct)
	})
}

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageHome, nil)
}

// CreateProductPage shows an empty product form.
func (h *Handler) CreateProductPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageCreateProduct, productPage{})
}

// CreateProductPost stores the submitted product and redirects to the list.
func (h *Handler) CreateProductPost(w http.ResponseWriter, r *http.Request) {
	product, err := parseProductForm(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	created := h.service.Create(r.Context(), product)
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	http.Redirect(w, r, "list", http.StatusFound)
}

// ProductListPage renders every product in insertion order.
func (h *Handler) ProductListPage(w http.ResponseWriter, r *http.Request) {
	products := h.service.FindAll(r.Context())
	h.render(w, r, http.StatusOK, pageProductList, productListPage{Products: products})
}

// EditProductPage shows the form for an existing product, or returns to the list when it is absent.
func (h *Handler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	id, err := webutil.URLParam(r, "id")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Malformed product ID for edit page", "ID", chi.URLParam(r, "id"))
		http.Redirect(w, r, "/product/list", http.StatusFound)
		return
	}
	product, ok := h.service.FindByID(r.Context(), id)
	if !ok {
		h.logger.WarnContext(r.Context(), "Product not found for edit page", "ID", id)
		http.Redirect(w, r, "/product/list", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, pageEditProduct, productPage{Product: product})
}

// EditProductPost applies the submitted changes and redirects to the list.
func (h *Handler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	product, err := parseProductForm(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	updateDto := service.UpdateDto(product)
	if err := h.validate.Struct(updateDto); err != nil {
		if errorResponse, ok := webutil.ValidationErrors(err); ok {
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		}
		h.badRequest(w, r, errors.New("product id is required"))
		return
	}

	updated, err := h.service.Update(r.Context(), updateDto.ToProduct())
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for update", "ID", product.ID)
			h.render(w, r, http.StatusNotFound, pageError, errorPage{
				Title:   "Product Not Found",
				Message: fmt.Sprintf("Product with ID %s not found", product.ID),
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "Error updating product", "ID", product.ID, "error", err)
		h.render(w, r, http.StatusInternalServerError, pageError, errorPage{
			Title:   "Error",
			Message: fmt.Sprintf("Failed to update product with ID %s", product.ID),
		})
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	http.Redirect(w, r, "list", http.StatusFound)
}

// DeleteProduct removes the product and redirects to the list. Absent products are ignored.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := webutil.URLParam(r, "id")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Malformed product ID for delete", "ID", chi.URLParam(r, "id"))
		http.Redirect(w, r, "/product/list", http.StatusFound)
		return
	}
	h.service.DeleteByID(r.Context(), id)
	h.logger.InfoContext(r.Context(), "Product deleted", "ID", id)
	http.Redirect(w, r, "/product/list", http.StatusFound)
}

// parseProductForm reads the id, name and quantity form fields. An empty quantity is zero.
func parseProductForm(r *http.Request) (service.ProductDto, error) {
	if err := r.ParseForm(); err != nil {
		return service.ProductDto{}, fmt.Errorf("invalid form: %w", err)
	}
	product := service.ProductDto{
		ID:   r.PostForm.Get("id"),
		Name: r.PostForm.Get("name"),
	}
	if raw := strings.TrimSpace(r.PostForm.Get("quantity")); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return service.ProductDto{}, fmt.Errorf("invalid quantity: %q", raw)
		}
		product.Quantity = quantity
	}
	return product, nil
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WarnContext(r.Context(), "Invalid product form", "error", err)
	h.render(w, r, http.StatusBadRequest, pageError, errorPage{Title: "Bad Request", Message: err.Error()})
}

// render executes the page into a buffer before writing the status.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.ErrorContext(r.Context(), "Error rendering page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
