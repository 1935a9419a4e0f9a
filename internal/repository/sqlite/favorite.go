package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/marketplace-api/internal/apperror"
	"github.com/sakif/marketplace-api/internal/model"
	"github.com/sakif/marketplace-api/internal/repository"
)

// compile-time check that *DB implements repository.FavoriteRepository
var _ repository.FavoriteRepository = (*DB)(nil)

// AddFavorite links a user to a product. The UNIQUE(user_id, product_id) constraint
// enforces "at most one link per pair"; a violation comes back as
// apperror.ErrConflict for the service to translate.
func (db *DB) AddFavorite(ctx context.Context, userID, productID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO favorites (user_id, product_id) VALUES (?, ?)`,
		userID, productID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("already in favorites")
		}
		return fmt.Errorf("sqlite: adding favorite (user=%d, product=%d): %w", userID, productID, err)
	}
	return nil
}

// RemoveFavorite deletes the link if it exists. Idempotent, no rows affected
// is still success.
func (db *DB) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing favorite (user=%d, product=%d): %w", userID, productID, err)
	}
	return nil
}

// ListFavoriteProducts returns one page of the user's favorited products, ordered
// by when they were favorited (newest first), plus the total count.
func (db *DB) ListFavoriteProducts(ctx context.Context, userID int64, opts repository.ListOptions) ([]model.Product, int64, error) {
	var total int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ?`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting favorites for user %d: %w", userID, err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.title, p.description, p.price, p.image, p.created_at
		 FROM products p
		 INNER JOIN favorites f ON p.id = f.product_id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, f.id DESC
		 LIMIT ? OFFSET ?`,
		userID, opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing favorites for user %d: %w", userID, err)
	}
	defer rows.Close()

	products, err := scanProducts(rows, opts.Limit)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// FavoriteExists reports whether the user has favorited the product. An unknown
// product is simply "not favorited" — never an error.
func (db *DB) FavoriteExists(ctx context.Context, userID, productID int64) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("sqlite: checking favorite (user=%d, product=%d): %w", userID, productID, err)
	}
	return true, nil
}
