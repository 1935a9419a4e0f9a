// Package repository defines the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute in-memory fakes.
//
// All three interfaces are implemented by the same *sqlite.DB, so the
// method names carry the entity (CreateUser, CreateProduct, ...) rather
// than relying on the receiver to disambiguate.
package repository

import (
	"context"

	"github.com/sakif/marketplace-api/internal/model"
)

// ListOptions carries LIMIT/OFFSET pagination. Callers are expected to
// clamp Limit to a sane range before reaching the repository.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// CreateUser inserts a new user and fills in ID and CreatedAt. A
	// duplicate email surfaces as apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByEmail returns apperror.ErrNotFound when no user has that
	// email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
	// ListProducts returns one page of products plus the total count of
	// rows matching the search term (all rows when search is empty).
	// Matching is a case-insensitive substring match over title and
	// description; results are ordered newest-first.
	ListProducts(ctx context.Context, search string, opts ListOptions) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	// DeleteProduct is idempotent — deleting an absent ID is not an error.
	DeleteProduct(ctx context.Context, id int64) error
}

type FavoriteRepository interface {
	// AddFavorite links a user to a product. An existing (user, product)
	// link surfaces as apperror.ErrConflict.
	AddFavorite(ctx context.Context, userID, productID int64) error
	// RemoveFavorite is idempotent — removing an absent link is not an
	// error.
	RemoveFavorite(ctx context.Context, userID, productID int64) error
	// ListFavoriteProducts returns one page of the user's favorited
	// products, ordered by when they were favorited (newest first), plus
	// the total count.
	ListFavoriteProducts(ctx context.Context, userID int64, opts ListOptions) ([]model.Product, int64, error)
	FavoriteExists(ctx context.Context, userID, productID int64) (bool, error)
}
