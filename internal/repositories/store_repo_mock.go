package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"mercado/internal/apperrors"
	"mercado/internal/models"
)

// MockStoreRepository is an in-memory implementation of StoreRepository.
type MockStoreRepository struct {
	stores     map[uint]models.Store
	categories map[uint]models.Category
	nextID     uint
	nextCatID  uint
	mu         sync.RWMutex
}

// NewMockStoreRepository creates a new instance of MockStoreRepository.
func NewMockStoreRepository() *MockStoreRepository {
	return &MockStoreRepository{
		stores:     make(map[uint]models.Store),
		categories: make(map[uint]models.Category),
		nextID:     1,
		nextCatID:  1,
	}
}

// FindByID returns a store by its ID.
func (r *MockStoreRepository) FindByID(id uint) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, apperrors.NewNotFound(fmt.Sprintf("store with ID %d not found", id))
	}
	return &store, nil
}

// Create adds a new store, assigning the next ID.
func (r *MockStoreRepository) Create(store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store.ID == 0 {
		store.ID = r.nextID
		r.nextID++
	} else if store.ID >= r.nextID {
		r.nextID = store.ID + 1
	}
	store.CreatedAt = time.Now()
	store.UpdatedAt = time.Now()
	r.stores[store.ID] = *store
	return nil
}

// CreditBalance adds amount to the store's balance.
func (r *MockStoreRepository) CreditBalance(id uint, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[id]
	if !ok {
		return apperrors.NewNotFound(fmt.Sprintf("store with ID %d not found for credit", id))
	}
	store.Balance += amount
	r.stores[id] = store
	return nil
}

// CategoriesByStore returns the categories belonging to one store.
func (r *MockStoreRepository) CategoriesByStore(storeID uint) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Category, 0)
	for _, c := range r.categories {
		if c.StoreID == storeID {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// CreateCategory adds a new category, assigning the next ID.
func (r *MockStoreRepository) CreateCategory(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == 0 {
		category.ID = r.nextCatID
		r.nextCatID++
	} else if category.ID >= r.nextCatID {
		r.nextCatID = category.ID + 1
	}
	r.categories[category.ID] = *category
	return nil
}
