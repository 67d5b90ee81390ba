package services

import (
	"mercado/internal/models"
	"mercado/internal/repositories"
)

// StoreService handles business logic related to stores ("lojas"). The
// catalog side uses it to resolve owning stores and to credit sale
// proceeds.
type StoreService struct {
	repo repositories.StoreRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(repo repositories.StoreRepository) *StoreService {
	return &StoreService{
		repo: repo,
	}
}

// FindByIDOrFail retrieves a store, failing with NotFound if absent.
func (s *StoreService) FindByIDOrFail(id uint) (*models.Store, error) {
	return s.repo.FindByID(id)
}

// CreateStore registers a new store with a zero balance.
func (s *StoreService) CreateStore(req models.CreateStoreRequest) (*models.Store, error) {
	store := &models.Store{
		Name: req.Name,
	}
	if err := s.repo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// CreditBalance adds sale proceeds to the store's balance.
func (s *StoreService) CreditBalance(id uint, amount float64) error {
	return s.repo.CreditBalance(id, amount)
}

// CategoriesByStore returns the categories belonging to one store.
func (s *StoreService) CategoriesByStore(storeID uint) ([]models.Category, error) {
	return s.repo.CategoriesByStore(storeID)
}

// AddCategory attaches a new category to an existing store.
func (s *StoreService) AddCategory(storeID uint, title string) (*models.Category, error) {
	if _, err := s.repo.FindByID(storeID); err != nil {
		return nil, err
	}
	category := &models.Category{
		Title:   title,
		StoreID: storeID,
	}
	if err := s.repo.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}
