package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sakif/marketplace-api/internal/apperror"
	"github.com/sakif/marketplace-api/internal/model"
	"github.com/sakif/marketplace-api/internal/repository"
)

// Pagination bounds. Limit is clamped, not rejected — a caller asking for
// limit=1000 gets 100, a caller asking for page=0 gets page 1.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ProductService handles business logic for the catalog.
type ProductService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewProductService creates a ProductService.
func NewProductService(repo repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// clampPage normalizes (page, limit) into the allowed range and returns the
// pair plus the derived offset.
func clampPage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

// validImageURL reports whether s is an absolute http(s) URL.
func validImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Create validates and saves a new product.
//
// Any authenticated account may create products — there is no per-owner
// restriction anywhere in the catalog, so products carry no owner column.
func (s *ProductService) Create(ctx context.Context, title, description string, price float64, image *string) (*model.Product, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if price < 0 {
		return nil, apperror.ValidationFailed("price", "price must be a positive number")
	}
	if image != nil && !validImageURL(*image) {
		return nil, apperror.ValidationFailed("image", "image must be a valid URL")
	}

	product := &model.Product{
		Title:       title,
		Description: description,
		Price:       price,
		Image:       image,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		s.logger.Error("failed to create product",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating product: %w", err)
	}

	s.logger.Info("product created",
		slog.Int64("id", product.ID),
		slog.String("title", product.Title),
	)

	return product, nil
}

// Get retrieves a product by ID. Returns apperror.ErrNotFound if absent.
func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

// List returns a page of products with the pagination envelope. The search
// term, when non-empty, narrows results to a case-insensitive substring
// match over title and description. Results are newest-first.
func (s *ProductService) List(ctx context.Context, search string, page, limit int) ([]model.Product, model.Pagination, error) {
	page, limit, offset := clampPage(page, limit)

	products, total, err := s.repo.ListProducts(ctx, strings.TrimSpace(search), repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list products", slog.String("error", err.Error()))
		return nil, model.Pagination{}, fmt.Errorf("listing products: %w", err)
	}

	return products, model.NewPagination(page, limit, total), nil
}

// ProductUpdate carries a partial update. Nil fields are left unchanged;
// there is no way to null out an image through an update, matching the
// create contract where image is optional but never empty.
type ProductUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Image       *string
}

// empty reports whether no field was supplied at all.
func (u ProductUpdate) empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.Image == nil
}

// Update applies a partial update to an existing product.
//
// Fetch-then-update: the existing row is read first, so an unknown ID is a
// clean NotFound rather than a silent no-op, and the caller always gets the
// full updated record back.
func (s *ProductService) Update(ctx context.Context, id int64, update ProductUpdate) (*model.Product, error) {
	if update.empty() {
		return nil, apperror.ValidationFailed("fields", "no fields to update")
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title must not be empty")
		}
		product.Title = title
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return nil, apperror.ValidationFailed("description", "description must not be empty")
		}
		product.Description = description
	}
	if update.Price != nil {
		if *update.Price < 0 {
			return nil, apperror.ValidationFailed("price", "price must be a positive number")
		}
		product.Price = *update.Price
	}
	if update.Image != nil {
		if !validImageURL(*update.Image) {
			return nil, apperror.ValidationFailed("image", "image must be a valid URL")
		}
		product.Image = update.Image
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		s.logger.Error("failed to update product",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating product: %w", err)
	}

	s.logger.Info("product updated", slog.Int64("id", product.ID))

	return product, nil
}

// Delete removes a product. Idempotent by contract — deleting an ID that
// was never created, or was already deleted, still succeeds.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		s.logger.Error("failed to delete product",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting product: %w", err)
	}

	s.logger.Info("product deleted", slog.Int64("id", id))
	return nil
}
