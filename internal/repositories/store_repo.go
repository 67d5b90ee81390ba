package repositories

import (
	"mercado/internal/models"
)

// StoreRepository defines the interface for store ("loja") data access.
// CreditBalance must apply the amount atomically at the database boundary.
type StoreRepository interface {
	FindByID(id uint) (*models.Store, error)
	Create(store *models.Store) error
	CreditBalance(id uint, amount float64) error
	CategoriesByStore(storeID uint) ([]models.Category, error)
	CreateCategory(category *models.Category) error
}
