package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/marketplace-api/internal/model"
	"github.com/sakif/marketplace-api/internal/repository"
)

// FavoriteService handles the per-user favorites list.
//
// It needs both repositories: favorites for the links themselves, products
// to reject favoriting something that doesn't exist.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	products  repository.ProductRepository
	logger    *slog.Logger
}

// NewFavoriteService creates a FavoriteService.
func NewFavoriteService(
	favorites repository.FavoriteRepository,
	products repository.ProductRepository,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		products:  products,
		logger:    logger,
	}
}

// Add favorites a product for the user.
//
// Returns apperror.ErrNotFound when the product doesn't exist and
// apperror.ErrConflict when the pair is already linked. The existence check
// and the insert are separate statements; if the product disappears between
// them the FK constraint still rejects the insert.
func (s *FavoriteService) Add(ctx context.Context, userID, productID int64) error {
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return err
	}

	if err := s.favorites.AddFavorite(ctx, userID, productID); err != nil {
		return err
	}

	s.logger.Info("favorite added",
		slog.Int64("userID", userID),
		slog.Int64("productID", productID),
	)
	return nil
}

// Remove unfavorites a product. Idempotent — removing a link that doesn't
// exist (or a product that doesn't exist) succeeds.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.favorites.RemoveFavorite(ctx, userID, productID); err != nil {
		return err
	}

	s.logger.Info("favorite removed",
		slog.Int64("userID", userID),
		slog.Int64("productID", productID),
	)
	return nil
}

// List returns a page of the user's favorited products, newest-favorited
// first, with the same pagination envelope as the catalog listing.
func (s *FavoriteService) List(ctx context.Context, userID int64, page, limit int) ([]model.Product, model.Pagination, error) {
	page, limit, offset := clampPage(page, limit)

	products, total, err := s.favorites.ListFavoriteProducts(ctx, userID, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list favorites",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, model.Pagination{}, fmt.Errorf("listing favorites: %w", err)
	}

	return products, model.NewPagination(page, limit, total), nil
}

// Check reports whether the user has favorited the product. Unknown
// products are simply false — this never fails with NotFound.
func (s *FavoriteService) Check(ctx context.Context, userID, productID int64) (bool, error) {
	return s.favorites.FavoriteExists(ctx, userID, productID)
}
