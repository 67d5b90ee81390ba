package models

// CreateProductRequest is the payload for registering a new product under
// an existing store.
type CreateProductRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=100"`
	Price    float64  `json:"price" validate:"required,gt=0"`
	Category string   `json:"category" validate:"omitempty,max=100"`
	StoreID  uint     `json:"store_id" validate:"required"`
	Details  string   `json:"details" validate:"omitempty,max=500"`
	Images   []string `json:"images" validate:"max=6,dive,required"`
	Quantity int64    `json:"quantity" validate:"gte=0"`
}

// UpdateProductRequest overwrites the mutable fields of an existing
// product. Store reference and aggregates are never part of an update.
type UpdateProductRequest struct {
	ID       uint     `json:"id" validate:"required"`
	Title    string   `json:"title" validate:"required,min=3,max=100"`
	Price    float64  `json:"price" validate:"required,gt=0"`
	Category string   `json:"category" validate:"omitempty,max=100"`
	Details  string   `json:"details" validate:"omitempty,max=500"`
	Images   []string `json:"images" validate:"max=6,dive,required"`
}

// CreateStoreRequest registers a new store.
type CreateStoreRequest struct {
	Name string `json:"name" validate:"required,min=3,max=100"`
}

// RatingRequest carries a single rating for a product.
type RatingRequest struct {
	Value int64 `json:"value" validate:"required,gte=1,lte=5"`
}

// SellRequest carries the quantity for a direct sale against stock.
type SellRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}
