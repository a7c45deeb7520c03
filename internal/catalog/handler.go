package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
	"github.com/istmoglobal/storefront/internal/pricing"
)

// Handler exposes the public catalog and its admin CRUD endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	prices    pricing.Source
	validator *validator.Validate
}

// NewHandler constructs a catalog handler.
func NewHandler(logger *slog.Logger, service *Service, prices pricing.Source) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		prices:    prices,
		validator: validator.New(),
	}
}

// MountPublic registers storefront read routes.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/brands", h.listBrands)
	r.Get("/categories", h.listCategories)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.showProduct)
	r.Get("/search", h.quickSearch)
	r.Get("/sizes", h.listSizes)
}

// MountAdmin registers back office CRUD routes.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/brands", h.listBrands)
	r.Post("/brands", h.createBrand)
	r.Put("/brands/{id}", h.updateBrand)
	r.Delete("/brands/{id}", h.deleteBrand)

	r.Get("/categories", h.listCategories)
	r.Post("/categories", h.createCategory)
	r.Put("/categories/{id}", h.updateCategory)
	r.Delete("/categories/{id}", h.deleteCategory)

	r.Get("/products", h.adminListProducts)
	r.Post("/products", h.createProduct)
	r.Get("/products/{id}", h.adminShowProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.Brands(r.Context())
	if err != nil {
		h.logger.Error("list brands", slog.Any("error", err))
		brands = []Brand{}
	}
	httpx.JSON(w, http.StatusOK, brands)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		categories = []Category{}
	}
	httpx.JSON(w, http.StatusOK, categories)
}

// loadActive returns active products and brand names. Read failures are
// logged and yield empty results.
func (h *Handler) loadActive(r *http.Request) ([]Product, map[string]string) {
	products, err := h.service.ActiveProducts(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		products = []Product{}
	}
	brands, err := h.service.Brands(r.Context())
	if err != nil {
		h.logger.Error("list brands", slog.Any("error", err))
		brands = []Brand{}
	}
	return products, BrandNames(brands)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, brands := h.loadActive(r)
	q := r.URL.Query()
	filter := Filter{
		Query:      q.Get("q"),
		Size:       q.Get("size"),
		CategoryID: q.Get("category"),
	}
	matches := Search(products, brands, filter)
	httpx.JSON(w, http.StatusOK, NewProductViews(matches, brands, h.prices.Presenter(r)))
}

func (h *Handler) showProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ActiveProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	brandName := ""
	if brands, err := h.service.Brands(r.Context()); err == nil {
		brandName = BrandNames(brands)[p.BrandID]
	} else {
		h.logger.Error("list brands", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, NewProductView(p, brandName, h.prices.Presenter(r)))
}

func (h *Handler) quickSearch(w http.ResponseWriter, r *http.Request) {
	products, brands := h.loadActive(r)
	q := r.URL.Query()
	matches := QuickSearch(products, brands, q.Get("q"), q.Get("size"))
	httpx.JSON(w, http.StatusOK, NewProductViews(matches, brands, h.prices.Presenter(r)))
}

func (h *Handler) listSizes(w http.ResponseWriter, r *http.Request) {
	products, _ := h.loadActive(r)
	httpx.JSON(w, http.StatusOK, Sizes(products))
}

func (h *Handler) createBrand(w http.ResponseWriter, r *http.Request) {
	var in BrandInput
	if !h.decode(w, r, &in) {
		return
	}
	b, err := h.service.CreateBrand(r.Context(), in)
	if err != nil {
		h.fail(w, "create brand", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *Handler) updateBrand(w http.ResponseWriter, r *http.Request) {
	var in BrandInput
	if !h.decode(w, r, &in) {
		return
	}
	b, err := h.service.UpdateBrand(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, "update brand", err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBrand(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete brand", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in CategoryInput
	if !h.decode(w, r, &in) {
		return
	}
	c, err := h.service.CreateCategory(r.Context(), in)
	if err != nil {
		h.fail(w, "create category", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in CategoryInput
	if !h.decode(w, r, &in) {
		return
	}
	c, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, "update category", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete category", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) adminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) adminShowProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.ValidationProblem(w, err)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Warn(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
