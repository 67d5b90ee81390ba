package models

import "gorm.io/gorm"

// Store is a selling entity owning products and categories. Balance is the
// store's credit, increased whenever one of its products is sold.
type Store struct {
	gorm.Model
	Name    string  `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Balance float64 `json:"balance"`
}

// Category is a named grouping of products scoped to one store. Products
// reference it by title through their Category column, not by foreign key,
// so the graph stays acyclic.
type Category struct {
	gorm.Model
	Title   string `json:"title" validate:"required,min=1,max=100"`
	StoreID uint   `json:"store_id"`
}
