package model

import "time"

// Product represents a sellable catalog item.
//
// Image is a pointer because the column is genuinely nullable — a product
// without an image serializes as `"image": null`, matching what clients
// expect from the listing endpoint.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}
