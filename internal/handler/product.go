package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/marketplace-api/internal/service"
)

// ProductHandler exposes the catalog CRUD endpoints. Listing and fetching
// are public; create/update/delete sit behind the auth middleware (wired in
// the server's route table, not here).
type ProductHandler struct {
	products *service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		validate: validator.New(),
		logger:   logger,
	}
}

type createProductRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Image       *string `json:"image"       validate:"omitempty,url"`
}

// updateProductRequest is the partial-update body: every field optional,
// nil meaning "leave unchanged". The handler can't tell an empty body from
// an all-nil one — the service rejects both as "no fields to update".
type updateProductRequest struct {
	Title       *string  `json:"title"       validate:"omitempty"`
	Description *string  `json:"description" validate:"omitempty"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Image       *string  `json:"image"       validate:"omitempty,url"`
}

// HandleList returns a page of the catalog.
//
// HTTP: GET /api/products?search=&page=&limit=
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page := queryInt(r, "page")
	limit := queryInt(r, "limit")

	products, pagination, err := h.products.List(r.Context(), search, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Data:       products,
		Pagination: pagination,
	})
}

// HandleGet returns a single product.
//
// HTTP: GET /api/products/{id}
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// HandleCreate adds a product to the catalog.
//
// HTTP: POST /api/products (auth required)
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, validationError(err))
		return
	}

	product, err := h.products.Create(r.Context(), req.Title, req.Description, req.Price, req.Image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /api/products/{id} (auth required)
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, validationError(err))
		return
	}

	product, err := h.products.Update(r.Context(), id, service.ProductUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// HandleDelete removes a product.
//
// HTTP: DELETE /api/products/{id} (auth required)
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
