package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"mercado/internal/apperrors"
	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/pkg/cache"
	"mercado/pkg/rabbitmq"
)

// topListLimit caps the top-seller, recent and history listings.
const topListLimit = 10

const topSellersCacheKey = "top_sellers"

func storeTopSellersCacheKey(storeID uint) string {
	return fmt.Sprintf("top_sellers:store:%d", storeID)
}

// CatalogService owns product CRUD, listing orchestration and the rating
// and sold-quantity aggregates. The MQ client and cache are optional; a
// nil client simply skips publication or caching.
type CatalogService struct {
	products      repositories.ProductRepository
	stores        *StoreService
	mqClient      *rabbitmq.Client
	cacheClient   cache.Client
	pageSize      int
	topSellersTTL time.Duration
}

// NewCatalogService creates a new CatalogService. pageSize is the fixed
// page size every listing operation delegates to the repository.
func NewCatalogService(products repositories.ProductRepository, stores *StoreService, mqClient *rabbitmq.Client, cacheClient cache.Client, pageSize int, topSellersTTL time.Duration) *CatalogService {
	return &CatalogService{
		products:      products,
		stores:        stores,
		mqClient:      mqClient,
		cacheClient:   cacheClient,
		pageSize:      pageSize,
		topSellersTTL: topSellersTTL,
	}
}

// FindByIDOrFail retrieves a product, failing with NotFound if absent.
// Every other read and write operation composes on top of this.
func (s *CatalogService) FindByIDOrFail(id uint) (*models.Product, error) {
	return s.products.FindByID(id)
}

// FindByIDAsDTO projects a single product for external consumers.
func (s *CatalogService) FindByIDAsDTO(id uint) (*models.ProductDTO, error) {
	product, err := s.FindByIDOrFail(id)
	if err != nil {
		return nil, err
	}
	dto := models.ToProductDTO(product)
	return &dto, nil
}

// failOnEmpty enforces the empty-result policy: a listing that matched
// zero rows is a client-visible error, never an empty success.
func failOnEmpty(products []models.Product) error {
	if len(products) == 0 {
		return apperrors.NewNoResults("0 results found for the search")
	}
	return nil
}

func projectPage(products []models.Product, err error) ([]models.ProductDTO, error) {
	if err != nil {
		return nil, err
	}
	if err := failOnEmpty(products); err != nil {
		return nil, err
	}
	return models.ToProductDTOs(products), nil
}

// ListByTitle returns one page of products whose title matches the term.
func (s *CatalogService) ListByTitle(title string, page int) ([]models.ProductDTO, error) {
	return projectPage(s.products.PageByTitle(title, page, s.pageSize))
}

// ListByCategory returns one page of products in the given category.
func (s *CatalogService) ListByCategory(category string, page int) ([]models.ProductDTO, error) {
	return projectPage(s.products.PageByCategory(category, page, s.pageSize))
}

// ListByStore returns one page of a store's products.
func (s *CatalogService) ListByStore(storeID uint, page int) ([]models.ProductDTO, error) {
	return projectPage(s.products.PageByStore(storeID, page, s.pageSize))
}

// ListByStoreAndTitle returns one page of a store's products whose title
// matches the term.
func (s *CatalogService) ListByStoreAndTitle(storeID uint, title string, page int) ([]models.ProductDTO, error) {
	return projectPage(s.products.PageByStoreAndTitle(storeID, title, page, s.pageSize))
}

// ListRecent returns the most recently created products, newest first.
func (s *CatalogService) ListRecent() ([]models.ProductDTO, error) {
	return projectPage(s.products.Recent(topListLimit))
}

// Featured returns the products for an explicit list of IDs.
func (s *CatalogService) Featured(ids []uint) ([]models.ProductDTO, error) {
	return projectPage(s.products.FindByIDs(ids))
}

// SearchHistory returns products whose title matches any of the given
// previously searched terms.
func (s *CatalogService) SearchHistory(terms []string) ([]models.ProductDTO, error) {
	return projectPage(s.products.SearchByTerms(terms, topListLimit))
}

// TopSellers returns at most 10 products ordered by units sold. The
// projected list is served from the cache when present.
func (s *CatalogService) TopSellers() ([]models.ProductDTO, error) {
	if dtos, ok := s.cachedDTOs(topSellersCacheKey); ok {
		return dtos, nil
	}
	dtos, err := projectPage(s.products.TopSellers(topListLimit))
	if err != nil {
		return nil, err
	}
	s.cacheDTOs(topSellersCacheKey, dtos)
	return dtos, nil
}

// TopSellersForStore is TopSellers restricted to one store.
func (s *CatalogService) TopSellersForStore(storeID uint) ([]models.ProductDTO, error) {
	key := storeTopSellersCacheKey(storeID)
	if dtos, ok := s.cachedDTOs(key); ok {
		return dtos, nil
	}
	dtos, err := projectPage(s.products.TopSellersByStore(storeID, topListLimit))
	if err != nil {
		return nil, err
	}
	s.cacheDTOs(key, dtos)
	return dtos, nil
}

// Create validates the request, resolves the owning store and persists a
// new product with zeroed aggregates. The store's display name is copied
// into the product at creation time.
func (s *CatalogService) Create(req models.CreateProductRequest) (*models.Product, error) {
	if len(req.Images) > models.MaxProductImages {
		return nil, apperrors.NewValidation(fmt.Sprintf("a product can have at most %d images", models.MaxProductImages))
	}
	store, err := s.stores.FindByIDOrFail(req.StoreID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:        req.Title,
		Price:        req.Price,
		Category:     req.Category,
		StoreID:      store.ID,
		StoreName:    store.Name,
		Details:      req.Details,
		Images:       req.Images,
		Quantity:     req.Quantity,
		QuantitySold: 0,
		RatingSum:    0,
		RatingCount:  0,
		Rating:       nil,
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}

	s.publish("product.created", map[string]interface{}{
		"product_id": product.ID,
		"store_id":   product.StoreID,
		"title":      product.Title,
	})
	return product, nil
}

// Update overwrites the mutable fields of an existing product. Validation
// runs before anything is touched; store reference and aggregates are
// never part of an update. The mutation runs under the same lock the
// aggregate writers use, so a rating or sale landing concurrently is never
// overwritten by the row write.
func (s *CatalogService) Update(req models.UpdateProductRequest) error {
	if len(req.Images) > models.MaxProductImages {
		return apperrors.NewValidation(fmt.Sprintf("a product can have at most %d images", models.MaxProductImages))
	}
	return s.products.UpdateLocked(req.ID, func(product *models.Product) error {
		product.Title = req.Title
		product.Price = req.Price
		product.Category = req.Category
		product.Images = req.Images
		product.Details = req.Details
		return nil
	})
}

// Delete removes a product, failing with NotFound if it does not exist.
func (s *CatalogService) Delete(id uint) error {
	return s.products.Delete(id)
}

// RateProduct folds one rating into the product's running aggregate. The
// average truncates toward zero: ratings 4 and 3 average to 3.
func (s *CatalogService) RateProduct(id uint, value int64) error {
	return s.products.UpdateLocked(id, func(p *models.Product) error {
		p.RatingCount++
		p.RatingSum += value
		avg := float64(p.RatingSum / p.RatingCount)
		p.Rating = &avg
		return nil
	})
}

// RecordSale adds a purchased quantity to the product's cumulative sold
// count. Stock on hand is not touched here; SellAndCredit owns that side.
func (s *CatalogService) RecordSale(purchase models.Purchase) error {
	if purchase.Quantity <= 0 {
		return apperrors.NewValidation("purchased quantity must be positive")
	}
	var storeID uint
	err := s.products.UpdateLocked(purchase.ProductID, func(p *models.Product) error {
		p.QuantitySold += purchase.Quantity
		storeID = p.StoreID
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateTopSellers(storeID)
	return nil
}

// SellAndCredit sells quantity units against stock: stock goes down, the
// sold count goes up by the same rule RecordSale uses, and the owning
// store is credited price times quantity.
func (s *CatalogService) SellAndCredit(id uint, quantity int64) error {
	if quantity <= 0 {
		return apperrors.NewValidation("sold quantity must be positive")
	}
	var (
		storeID uint
		price   float64
	)
	err := s.products.UpdateLocked(id, func(p *models.Product) error {
		if p.Quantity < quantity {
			return apperrors.NewValidation(fmt.Sprintf("insufficient stock for product %d (requested: %d, available: %d)", p.ID, quantity, p.Quantity))
		}
		p.Quantity -= quantity
		p.QuantitySold += quantity
		storeID = p.StoreID
		price = p.Price
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.stores.CreditBalance(storeID, price*float64(quantity)); err != nil {
		return fmt.Errorf("failed to credit store %d for sale of product %d: %w", storeID, id, err)
	}

	s.invalidateTopSellers(storeID)
	s.publish("product.sold", map[string]interface{}{
		"product_id": id,
		"store_id":   storeID,
		"quantity":   quantity,
		"amount":     price * float64(quantity),
	})
	return nil
}

// SetStoreAvailability bulk-sets the availability flag on every product of
// one store. The store must exist.
func (s *CatalogService) SetStoreAvailability(storeID uint, available bool) error {
	if _, err := s.stores.FindByIDOrFail(storeID); err != nil {
		return err
	}
	return s.products.SetAvailabilityByStore(storeID, available)
}

// CategorizedListingForStore projects a store's categories, each with its
// nested products.
func (s *CatalogService) CategorizedListingForStore(storeID uint) ([]models.CategoryDTO, error) {
	if _, err := s.stores.FindByIDOrFail(storeID); err != nil {
		return nil, err
	}
	categories, err := s.stores.CategoriesByStore(storeID)
	if err != nil {
		return nil, err
	}
	dtos := make([]models.CategoryDTO, 0, len(categories))
	for i := range categories {
		products, err := s.products.ByStoreAndCategory(storeID, categories[i].Title)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, models.ToCategoryDTO(&categories[i], products))
	}
	return dtos, nil
}

func (s *CatalogService) publish(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishCatalogEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}

func (s *CatalogService) cachedDTOs(key string) ([]models.ProductDTO, bool) {
	if s.cacheClient == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	raw, err := s.cacheClient.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("Warning: cache get %s failed: %v", key, err)
		}
		return nil, false
	}
	var dtos []models.ProductDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		log.Printf("Warning: cache entry %s is corrupt: %v", key, err)
		return nil, false
	}
	return dtos, true
}

func (s *CatalogService) cacheDTOs(key string, dtos []models.ProductDTO) {
	if s.cacheClient == nil {
		return
	}
	body, err := json.Marshal(dtos)
	if err != nil {
		log.Printf("Warning: failed to marshal cache entry %s: %v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.cacheClient.Set(ctx, key, body, s.topSellersTTL); err != nil {
		log.Printf("Warning: cache set %s failed: %v", key, err)
	}
}

func (s *CatalogService) invalidateTopSellers(storeID uint) {
	if s.cacheClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, key := range []string{topSellersCacheKey, storeTopSellersCacheKey(storeID)} {
		if err := s.cacheClient.Delete(ctx, key); err != nil {
			log.Printf("Warning: cache delete %s failed: %v", key, err)
		}
	}
}
