package models

// ProductDTO is the outward-facing projection of a Product. One shape for
// both single-item lookups and bulk listings.
type ProductDTO struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Price        float64  `json:"price"`
	Images       []string `json:"images"`
	Details      string   `json:"details"`
	Quantity     int64    `json:"quantity"`
	QuantitySold int64    `json:"quantity_sold"`
	Rating       *float64 `json:"rating"`
	Available    bool     `json:"available"`
}

// CategoryDTO groups the projected products of one store category.
type CategoryDTO struct {
	Title    string       `json:"title"`
	Products []ProductDTO `json:"products"`
}

// ToProductDTO projects a single product. Field-for-field copy, no side
// effects.
func ToProductDTO(p *Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Price,
		Images:       p.Images,
		Details:      p.Details,
		Quantity:     p.Quantity,
		QuantitySold: p.QuantitySold,
		Rating:       p.Rating,
		Available:    p.Available,
	}
}

// ToProductDTOs projects a slice of products, preserving order.
func ToProductDTOs(products []Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, ToProductDTO(&products[i]))
	}
	return dtos
}

// ToCategoryDTO projects a category together with its already-loaded
// products.
func ToCategoryDTO(c *Category, products []Product) CategoryDTO {
	return CategoryDTO{
		Title:    c.Title,
		Products: ToProductDTOs(products),
	}
}
