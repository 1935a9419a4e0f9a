package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/marketplace-api/internal/apperror"
	"github.com/sakif/marketplace-api/internal/repository"
)

func TestAddFavorite(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	product := createTestProduct(t, db, "Pen", 1.5)

	if err := db.AddFavorite(context.Background(), user.ID, product.ID); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	exists, err := db.FavoriteExists(context.Background(), user.ID, product.ID)
	if err != nil {
		t.Fatalf("FavoriteExists() error = %v", err)
	}
	if !exists {
		t.Error("FavoriteExists() = false after AddFavorite()")
	}
}

func TestAddFavorite_Duplicate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	product := createTestProduct(t, db, "Pen", 1.5)

	if err := db.AddFavorite(context.Background(), user.ID, product.ID); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	err := db.AddFavorite(context.Background(), user.ID, product.ID)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("AddFavorite() duplicate error = %v, want ErrConflict", err)
	}
}

func TestRemoveFavorite_Idempotent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	product := createTestProduct(t, db, "Pen", 1.5)

	if err := db.AddFavorite(context.Background(), user.ID, product.ID); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if err := db.RemoveFavorite(context.Background(), user.ID, product.ID); err != nil {
		t.Fatalf("RemoveFavorite() error = %v", err)
	}
	// Removing an absent favorite is not an error.
	if err := db.RemoveFavorite(context.Background(), user.ID, product.ID); err != nil {
		t.Errorf("RemoveFavorite() second call error = %v, want nil", err)
	}

	exists, err := db.FavoriteExists(context.Background(), user.ID, product.ID)
	if err != nil {
		t.Fatalf("FavoriteExists() error = %v", err)
	}
	if exists {
		t.Error("FavoriteExists() = true after RemoveFavorite()")
	}
}

func TestFavoriteExists_False(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	product := createTestProduct(t, db, "Pen", 1.5)

	exists, err := db.FavoriteExists(context.Background(), user.ID, product.ID)
	if err != nil {
		t.Fatalf("FavoriteExists() error = %v", err)
	}
	if exists {
		t.Error("FavoriteExists() = true for a product never favorited")
	}
}

func TestListFavoriteProducts(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	pen := createTestProduct(t, db, "Pen", 1.5)
	mug := createTestProduct(t, db, "Mug", 7)
	notebook := createTestProduct(t, db, "Notebook", 4)

	for _, id := range []int64{pen.ID, mug.ID} {
		if err := db.AddFavorite(context.Background(), alice.ID, id); err != nil {
			t.Fatalf("AddFavorite() error = %v", err)
		}
	}
	if err := db.AddFavorite(context.Background(), bob.ID, notebook.ID); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	products, total, err := db.ListFavoriteProducts(context.Background(), alice.ID, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListFavoriteProducts() error = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(products) != 2 {
		t.Fatalf("len(products) = %d, want 2", len(products))
	}
	// Most recently favorited first.
	if products[0].ID != mug.ID || products[1].ID != pen.ID {
		t.Errorf("order = [%d %d], want [%d %d]", products[0].ID, products[1].ID, mug.ID, pen.ID)
	}
	for _, p := range products {
		if p.ID == notebook.ID {
			t.Error("another user's favorite leaked into the list")
		}
	}
}

func TestListFavoriteProducts_Pagination(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	for i := 0; i < 3; i++ {
		p := createTestProduct(t, db, "item", float64(i))
		if err := db.AddFavorite(context.Background(), user.ID, p.ID); err != nil {
			t.Fatalf("AddFavorite() error = %v", err)
		}
	}

	page, total, err := db.ListFavoriteProducts(context.Background(), user.ID, repository.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListFavoriteProducts() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page) != 1 {
		t.Errorf("len(page) = %d, want 1", len(page))
	}
}

func TestDeleteProduct_CascadesFavorites(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	product := createTestProduct(t, db, "Pen", 1.5)

	if err := db.AddFavorite(context.Background(), user.ID, product.ID); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if err := db.DeleteProduct(context.Background(), product.ID); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}

	exists, err := db.FavoriteExists(context.Background(), user.ID, product.ID)
	if err != nil {
		t.Fatalf("FavoriteExists() error = %v", err)
	}
	if exists {
		t.Error("favorite row survived deletion of its product")
	}
	_, total, err := db.ListFavoriteProducts(context.Background(), user.ID, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListFavoriteProducts() error = %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 after cascade", total)
	}
}
