package models

import "gorm.io/gorm"

// MaxProductImages is the hard cap on images attached to a single product.
const MaxProductImages = 6

// Product represents a catalog entry owned by a store.
// Images are persisted as a JSON column. RatingSum/RatingCount are the
// running aggregate; Rating stays nil until the first rating arrives.
type Product struct {
	gorm.Model
	Title        string   `json:"title" validate:"required,min=3,max=100"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Category     string   `json:"category" validate:"omitempty,max=100"`
	StoreID      uint     `json:"store_id"` // immutable after creation
	StoreName    string   `json:"store_name"`
	Details      string   `json:"details" validate:"omitempty,max=500"`
	Images       []string `json:"images" gorm:"serializer:json"`
	Quantity     int64    `json:"quantity" validate:"gte=0"`
	QuantitySold int64    `json:"quantity_sold"`
	RatingSum    int64    `json:"-"`
	RatingCount  int64    `json:"-"`
	Rating       *float64 `json:"rating"`
	Available    bool     `json:"available"`
}

// Purchase is a line item reported by the order side: a product reference
// plus the quantity bought. It arrives over HTTP or the purchase queue.
type Purchase struct {
	ProductID uint  `json:"product_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}
