package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/marketplace-api/internal/apperror"
)

func newTestProductService() (*ProductService, *memProductRepo) {
	repo := newMemProductRepo()
	return NewProductService(repo, newTestLogger()), repo
}

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }

func TestProductCreate(t *testing.T) {
	svc, _ := newTestProductService()

	product, err := svc.Create(context.Background(), "  Pen  ", "Blue pen", 1.5, nil)
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Pen", product.Title)
	assert.Nil(t, product.Image)
}

func TestProductCreate_ZeroPriceAllowed(t *testing.T) {
	svc, _ := newTestProductService()

	product, err := svc.Create(context.Background(), "Freebie", "On the house", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, product.Price)
}

func TestProductCreate_Validation(t *testing.T) {
	svc, _ := newTestProductService()

	tests := []struct {
		name        string
		title       string
		description string
		price       float64
		image       *string
	}{
		{"empty title", "   ", "desc", 1, nil},
		{"empty description", "Pen", "", 1, nil},
		{"negative price", "Pen", "desc", -0.01, nil},
		{"bad image URL", "Pen", "desc", 1, strptr("not a url")},
		{"image without scheme", "Pen", "desc", 1, strptr("example.com/pen.jpg")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.title, tt.description, tt.price, tt.image)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestProductList_Clamping(t *testing.T) {
	svc, _ := newTestProductService()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), "item", "desc", 1, nil)
		require.NoError(t, err)
	}

	// Page below 1 is clamped to 1; limit 0 falls back to the default.
	_, pagination, err := svc.List(context.Background(), "", -5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, DefaultPageSize, pagination.Limit)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, int64(1), pagination.Pages)

	// Limit above the cap is clamped to the cap.
	_, pagination, err = svc.List(context.Background(), "", 1, 5000)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, pagination.Limit)
}

func TestProductList_PagesRoundsUp(t *testing.T) {
	svc, _ := newTestProductService()
	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), "item", "desc", 1, nil)
		require.NoError(t, err)
	}

	products, pagination, err := svc.List(context.Background(), "", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pagination.Pages)
	assert.Len(t, products, 1)
}

func TestProductUpdate(t *testing.T) {
	svc, _ := newTestProductService()
	created, err := svc.Create(context.Background(), "Pen", "Blue pen", 1.5, nil)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, ProductUpdate{
		Price: f64ptr(2.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Price)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Pen", updated.Title)
	assert.Equal(t, "Blue pen", updated.Description)
}

func TestProductUpdate_Empty(t *testing.T) {
	svc, _ := newTestProductService()
	created, err := svc.Create(context.Background(), "Pen", "Blue pen", 1.5, nil)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, ProductUpdate{})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestProductUpdate_NotFound(t *testing.T) {
	svc, _ := newTestProductService()

	_, err := svc.Update(context.Background(), 4242, ProductUpdate{Title: strptr("x")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProductUpdate_Validation(t *testing.T) {
	svc, _ := newTestProductService()
	created, err := svc.Create(context.Background(), "Pen", "Blue pen", 1.5, nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		update ProductUpdate
	}{
		{"blank title", ProductUpdate{Title: strptr("  ")}},
		{"blank description", ProductUpdate{Description: strptr("")}},
		{"negative price", ProductUpdate{Price: f64ptr(-1)}},
		{"bad image", ProductUpdate{Image: strptr("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), created.ID, tt.update)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	// A rejected update leaves the record untouched.
	current, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, current.Price)
}

func TestProductDelete_Idempotent(t *testing.T) {
	svc, _ := newTestProductService()
	created, err := svc.Create(context.Background(), "Pen", "Blue pen", 1.5, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
