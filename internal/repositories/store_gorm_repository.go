package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mercado/internal/apperrors"
	"mercado/internal/models"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// FindByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) FindByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("store with ID %d not found", id))
		}
		return nil, fmt.Errorf("failed to get store by ID %d: %w", id, err)
	}
	return &store, nil
}

// Create inserts a new store; the database assigns the ID.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if err := r.db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// CreditBalance adds amount to the store's balance with a single atomic
// update.
func (r *GORMStoreRepository) CreditBalance(id uint, amount float64) error {
	res := r.db.Model(&models.Store{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit store %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound(fmt.Sprintf("store with ID %d not found for credit", id))
	}
	return nil
}

// CategoriesByStore returns the categories belonging to one store.
func (r *GORMStoreRepository) CategoriesByStore(storeID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("store_id = ?", storeID).Order("id asc").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get categories for store %d: %w", storeID, err)
	}
	return categories, nil
}

// CreateCategory inserts a new category for a store.
func (r *GORMStoreRepository) CreateCategory(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}
