package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mercado/internal/apperrors"
	"mercado/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// FindByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("product with ID %d not found", id))
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product; the database assigns the ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound(fmt.Sprintf("product with ID %d not found for deletion", id))
	}
	return nil
}

func (r *GORMProductRepository) page(query *gorm.DB, page, size int) ([]models.Product, error) {
	var products []models.Product
	err := query.Order("id asc").Offset(page * size).Limit(size).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to page products: %w", err)
	}
	return products, nil
}

// PageByTitle returns one page of products whose title contains the term.
func (r *GORMProductRepository) PageByTitle(title string, page, size int) ([]models.Product, error) {
	return r.page(r.db.Where("title LIKE ?", "%"+title+"%"), page, size)
}

// PageByCategory returns one page of products in the given category.
func (r *GORMProductRepository) PageByCategory(category string, page, size int) ([]models.Product, error) {
	return r.page(r.db.Where("category = ?", category), page, size)
}

// PageByStore returns one page of a store's products.
func (r *GORMProductRepository) PageByStore(storeID uint, page, size int) ([]models.Product, error) {
	return r.page(r.db.Where("store_id = ?", storeID), page, size)
}

// PageByStoreAndTitle returns one page of a store's products whose title
// contains the term.
func (r *GORMProductRepository) PageByStoreAndTitle(storeID uint, title string, page, size int) ([]models.Product, error) {
	return r.page(r.db.Where("store_id = ? AND title LIKE ?", storeID, "%"+title+"%"), page, size)
}

// TopSellers returns up to limit products ordered by units sold, ties
// broken by ID ascending.
func (r *GORMProductRepository) TopSellers(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("quantity_sold desc, id asc").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list top sellers: %w", err)
	}
	return products, nil
}

// TopSellersByStore is TopSellers restricted to one store.
func (r *GORMProductRepository) TopSellersByStore(storeID uint, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("store_id = ?", storeID).
		Order("quantity_sold desc, id asc").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list top sellers for store %d: %w", storeID, err)
	}
	return products, nil
}

// Recent returns up to limit products, newest first.
func (r *GORMProductRepository) Recent(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("created_at desc, id desc").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent products: %w", err)
	}
	return products, nil
}

// FindByIDs returns the products matching the given IDs; missing IDs are
// simply absent from the result.
func (r *GORMProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Order("id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// SearchByTerms returns up to limit products whose title matches any of
// the terms.
func (r *GORMProductRepository) SearchByTerms(terms []string, limit int) ([]models.Product, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	conds := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms))
	for _, term := range terms {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+term+"%")
	}
	var products []models.Product
	err := r.db.Where(strings.Join(conds, " OR "), args...).
		Order("id asc").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products by terms: %w", err)
	}
	return products, nil
}

// ByStoreAndCategory returns every product of a store within one category.
func (r *GORMProductRepository) ByStoreAndCategory(storeID uint, category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("store_id = ? AND category = ?", storeID, category).
		Order("id asc").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products for store %d category %q: %w", storeID, category, err)
	}
	return products, nil
}

// SetAvailabilityByStore flips the availability flag on every product of
// one store in a single statement.
func (r *GORMProductRepository) SetAvailabilityByStore(storeID uint, available bool) error {
	err := r.db.Model(&models.Product{}).
		Where("store_id = ?", storeID).
		Update("available", available).Error
	if err != nil {
		return fmt.Errorf("failed to set availability for store %d: %w", storeID, err)
	}
	return nil
}

// UpdateLocked loads the product under a row lock inside a transaction,
// applies fn, and saves the result. Concurrent aggregate writers serialize
// on the lock.
func (r *GORMProductRepository) UpdateLocked(id uint, fn func(*models.Product) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		loaded := tx
		if tx.Dialector.Name() != "sqlite" {
			loaded = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var product models.Product
		err := loaded.First(&product, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound(fmt.Sprintf("product with ID %d not found", id))
			}
			return fmt.Errorf("failed to lock product %d: %w", id, err)
		}
		if err := fn(&product); err != nil {
			return err
		}
		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to save product %d: %w", id, err)
		}
		return nil
	})
}
