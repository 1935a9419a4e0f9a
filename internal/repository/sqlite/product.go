package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/marketplace-api/internal/apperror"
	"github.com/sakif/marketplace-api/internal/model"
	"github.com/sakif/marketplace-api/internal/repository"
)

// compile-time check that *DB implements repository.ProductRepository
var _ repository.ProductRepository = (*DB)(nil)

// CreateProduct inserts a new product and fills in the generated ID and CreatedAt.
// All values are bound parameters — caller input never reaches query text.
func (db *DB) CreateProduct(ctx context.Context, product *model.Product) error {
	product.CreatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO products (title, description, price, image, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		product.Title,
		product.Description,
		product.Price,
		product.Image,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating product: %w", err)
	}

	product.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new product id: %w", err)
	}

	return nil
}

// GetProductByID retrieves a single product. Returns apperror.ErrNotFound if no
// product exists with that ID.
func (db *DB) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, price, image, created_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Image,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("product", id)
		}
		return nil, fmt.Errorf("sqlite: getting product %d: %w", id, err)
	}

	return &p, nil
}

// escapeLike escapes LIKE wildcards in a user-supplied search term so the
// match is a literal substring match. `\` is the ESCAPE character declared
// in the queries below.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// ListProducts returns one page of products plus the total count of matches.
//
// The search term matches title or description as a case-insensitive
// substring (SQLite's LIKE is case-insensitive for ASCII). Two queries run
// per call — COUNT then page — which is fine at single-statement isolation:
// the envelope is advisory, not a snapshot guarantee.
func (db *DB) ListProducts(ctx context.Context, search string, opts repository.ListOptions) ([]model.Product, int64, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = `WHERE title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`
		pattern := "%" + escapeLike(search) + "%"
		args = append(args, pattern, pattern)
	}

	var total int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting products: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, price, image, created_at
		 FROM products `+where+`
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows, opts.Limit)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// UpdateProduct rewrites the mutable columns of an existing product. The service
// has already fetched the row and applied the partial changes, so a full
// column rewrite here keeps the SQL static.
func (db *DB) UpdateProduct(ctx context.Context, product *model.Product) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE products
		 SET title = ?, description = ?, price = ?, image = ?
		 WHERE id = ?`,
		product.Title,
		product.Description,
		product.Price,
		product.Image,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating product %d: %w", product.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("product", product.ID)
	}

	return nil
}

// DeleteProduct removes a product. Idempotent: deleting an ID that doesn't exist
// succeeds. The favorites FK cascade removes dependent links.
func (db *DB) DeleteProduct(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM products WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting product %d: %w", id, err)
	}
	return nil
}

// scanProducts drains rows into a slice. Shared by ListProducts and the
// favorites join in favorite.go — both select the same product columns.
func scanProducts(rows *sql.Rows, capacity int) ([]model.Product, error) {
	if capacity < 0 {
		capacity = 0
	}
	products := make([]model.Product, 0, capacity)

	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.Image,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating products: %w", err)
	}

	return products, nil
}
