package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mercado/internal/apperrors"
	"mercado/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// sortedByID returns products matching keep, ordered by ID ascending.
// Callers must hold at least the read lock.
func (r *MockProductRepository) sortedByID(keep func(*models.Product) bool) []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep == nil || keep(&p) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func pageOf(list []models.Product, page, size int) []models.Product {
	start := page * size
	if start >= len(list) {
		return nil
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// FindByID returns a product by its ID.
func (r *MockProductRepository) FindByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NewNotFound(fmt.Sprintf("product with ID %d not found", id))
	}
	return &product, nil
}

// Create adds a new product, assigning the next ID.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NewNotFound(fmt.Sprintf("product with ID %d not found for deletion", id))
	}
	delete(r.products, id)
	return nil
}

// PageByTitle returns one page of products whose title contains the term.
func (r *MockProductRepository) PageByTitle(title string, page, size int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sortedByID(func(p *models.Product) bool {
		return strings.Contains(p.Title, title)
	})
	return pageOf(list, page, size), nil
}

// PageByCategory returns one page of products in the given category.
func (r *MockProductRepository) PageByCategory(category string, page, size int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sortedByID(func(p *models.Product) bool { return p.Category == category })
	return pageOf(list, page, size), nil
}

// PageByStore returns one page of a store's products.
func (r *MockProductRepository) PageByStore(storeID uint, page, size int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sortedByID(func(p *models.Product) bool { return p.StoreID == storeID })
	return pageOf(list, page, size), nil
}

// PageByStoreAndTitle returns one page of a store's products whose title
// contains the term.
func (r *MockProductRepository) PageByStoreAndTitle(storeID uint, title string, page, size int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sortedByID(func(p *models.Product) bool {
		return p.StoreID == storeID && strings.Contains(p.Title, title)
	})
	return pageOf(list, page, size), nil
}

func topByQuantitySold(list []models.Product, limit int) []models.Product {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].QuantitySold != list[j].QuantitySold {
			return list[i].QuantitySold > list[j].QuantitySold
		}
		return list[i].ID < list[j].ID
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

// TopSellers returns up to limit products ordered by units sold.
func (r *MockProductRepository) TopSellers(limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return topByQuantitySold(r.sortedByID(nil), limit), nil
}

// TopSellersByStore is TopSellers restricted to one store.
func (r *MockProductRepository) TopSellersByStore(storeID uint, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sortedByID(func(p *models.Product) bool { return p.StoreID == storeID })
	return topByQuantitySold(list, limit), nil
}

// Recent returns up to limit products, newest first. IDs are monotonic
// here, so descending ID order matches creation order.
func (r *MockProductRepository) Recent(limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sortedByID(nil)
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// FindByIDs returns the products matching the given IDs.
func (r *MockProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return r.sortedByID(func(p *models.Product) bool { return wanted[p.ID] }), nil
}

// SearchByTerms returns up to limit products whose title matches any term.
func (r *MockProductRepository) SearchByTerms(terms []string, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sortedByID(func(p *models.Product) bool {
		for _, term := range terms {
			if strings.Contains(p.Title, term) {
				return true
			}
		}
		return false
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ByStoreAndCategory returns every product of a store within one category.
func (r *MockProductRepository) ByStoreAndCategory(storeID uint, category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedByID(func(p *models.Product) bool {
		return p.StoreID == storeID && p.Category == category
	}), nil
}

// SetAvailabilityByStore flips availability on every product of one store.
func (r *MockProductRepository) SetAvailabilityByStore(storeID uint, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.products {
		if p.StoreID == storeID {
			p.Available = available
			r.products[id] = p
		}
	}
	return nil
}

// UpdateLocked applies fn under the repository write lock.
func (r *MockProductRepository) UpdateLocked(id uint, fn func(*models.Product) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return apperrors.NewNotFound(fmt.Sprintf("product with ID %d not found", id))
	}
	if err := fn(&product); err != nil {
		return err
	}
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}
