package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/marketplace-api/internal/model"
)

// newTestDB opens a fresh in-memory database. Fast, isolated, destroyed
// when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Name:         "Test User",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *DB, title string, price float64) *model.Product {
	t.Helper()
	product := &model.Product{
		Title:       title,
		Description: "description of " + title,
		Price:       price,
	}
	if err := db.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}
