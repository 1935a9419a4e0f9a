package model

import (
	"math"
	"time"
)

// Favorite is the join record linking a user to a product they marked.
// The (UserID, ProductID) pair is unique — a product can be favorited by a
// user at most once, enforced by the store.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pagination is the envelope attached to every list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the envelope for a page of `total` items.
// Pages is ceil(total/limit); limit is assumed already clamped to >= 1.
func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int64(math.Ceil(float64(total) / float64(limit))),
	}
}
