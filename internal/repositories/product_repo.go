package repositories

import (
	"mercado/internal/models"
)

// ProductRepository defines the interface for product data access.
// Paging methods take a zero-based page index and a fixed page size.
// UpdateLocked is the hardened read-modify-write primitive for aggregate
// updates: implementations must run fn against a row no concurrent writer
// can touch (row lock in SQL, mutex in memory) and persist the result in
// the same unit of work.
type ProductRepository interface {
	FindByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Delete(id uint) error

	PageByTitle(title string, page, size int) ([]models.Product, error)
	PageByCategory(category string, page, size int) ([]models.Product, error)
	PageByStore(storeID uint, page, size int) ([]models.Product, error)
	PageByStoreAndTitle(storeID uint, title string, page, size int) ([]models.Product, error)

	TopSellers(limit int) ([]models.Product, error)
	TopSellersByStore(storeID uint, limit int) ([]models.Product, error)
	Recent(limit int) ([]models.Product, error)
	FindByIDs(ids []uint) ([]models.Product, error)
	SearchByTerms(terms []string, limit int) ([]models.Product, error)
	ByStoreAndCategory(storeID uint, category string) ([]models.Product, error)

	SetAvailabilityByStore(storeID uint, available bool) error
	UpdateLocked(id uint, fn func(*models.Product) error) error
}
