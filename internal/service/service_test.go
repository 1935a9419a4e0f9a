package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/sakif/marketplace-api/internal/apperror"
	"github.com/sakif/marketplace-api/internal/model"
	"github.com/sakif/marketplace-api/internal/repository"
)

// In-memory fakes for the repository interfaces. They mirror the documented
// contracts (ErrNotFound, ErrConflict, idempotent deletes, newest-first
// ordering) closely enough for the service tests to exercise real paths.

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memUserRepo struct {
	nextID int64
	users  map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if _, ok := r.users[user.Email]; ok {
		return apperror.Conflict("user already exists")
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, apperror.NotFound("user", 0)
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

type memProductRepo struct {
	nextID   int64
	products map[int64]*model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[int64]*model.Product)}
}

func (r *memProductRepo) CreateProduct(_ context.Context, product *model.Product) error {
	r.nextID++
	product.ID = r.nextID
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) GetProductByID(_ context.Context, id int64) (*model.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, apperror.NotFound("product", id)
	}
	copied := *product
	return &copied, nil
}

func (r *memProductRepo) ListProducts(_ context.Context, search string, opts repository.ListOptions) ([]model.Product, int64, error) {
	matched := make([]model.Product, 0, len(r.products))
	term := strings.ToLower(search)
	for _, product := range r.products {
		if term != "" &&
			!strings.Contains(strings.ToLower(product.Title), term) &&
			!strings.Contains(strings.ToLower(product.Description), term) {
			continue
		}
		matched = append(matched, *product)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return pageOf(matched, opts), int64(len(matched)), nil
}

func (r *memProductRepo) UpdateProduct(_ context.Context, product *model.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return apperror.NotFound("product", product.ID)
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) DeleteProduct(_ context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

type favoriteKey struct{ userID, productID int64 }

type memFavoriteRepo struct {
	products *memProductRepo
	order    []favoriteKey
}

func newMemFavoriteRepo(products *memProductRepo) *memFavoriteRepo {
	return &memFavoriteRepo{products: products}
}

func (r *memFavoriteRepo) AddFavorite(_ context.Context, userID, productID int64) error {
	key := favoriteKey{userID, productID}
	for _, existing := range r.order {
		if existing == key {
			return apperror.Conflict("already in favorites")
		}
	}
	r.order = append(r.order, key)
	return nil
}

func (r *memFavoriteRepo) RemoveFavorite(_ context.Context, userID, productID int64) error {
	key := favoriteKey{userID, productID}
	for i, existing := range r.order {
		if existing == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memFavoriteRepo) ListFavoriteProducts(_ context.Context, userID int64, opts repository.ListOptions) ([]model.Product, int64, error) {
	var matched []model.Product
	// Newest favorite first.
	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		if key.userID != userID {
			continue
		}
		if product, ok := r.products.products[key.productID]; ok {
			matched = append(matched, *product)
		}
	}
	return pageOf(matched, opts), int64(len(matched)), nil
}

func (r *memFavoriteRepo) FavoriteExists(_ context.Context, userID, productID int64) (bool, error) {
	key := favoriteKey{userID, productID}
	for _, existing := range r.order {
		if existing == key {
			return true, nil
		}
	}
	return false, nil
}

func pageOf(items []model.Product, opts repository.ListOptions) []model.Product {
	if opts.Offset >= len(items) {
		return nil
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
