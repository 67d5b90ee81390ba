package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"mercado/internal/models"
	"mercado/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/top", h.HandleTopSellers)
	productRoutes.Get("/recent", h.HandleRecent)
	productRoutes.Get("/featured", h.HandleFeatured)
	productRoutes.Get("/history", h.HandleSearchHistory)
	productRoutes.Get("/title/:title", h.HandleListByTitle)
	productRoutes.Get("/category/:category", h.HandleListByCategory)
	productRoutes.Get("/store/:storeId/top", h.HandleTopSellersForStore)
	productRoutes.Get("/store/:storeId/title/:title", h.HandleListByStoreAndTitle)
	productRoutes.Get("/store/:storeId", h.HandleListByStore)
	productRoutes.Put("/store/:storeId/activate", h.HandleActivateStore)
	productRoutes.Put("/store/:storeId/deactivate", h.HandleDeactivateStore)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Put("/", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
	productRoutes.Post("/:id/ratings", h.HandleRate)
	productRoutes.Post("/:id/sell", h.HandleSell)
	productRoutes.Post("/sales", h.HandleRecordSale)
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}

// HandleGetByID returns a single product projection.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a number",
		})
	}
	dto, err := h.service.FindByIDAsDTO(id)
	if err != nil {
		log.Printf("Error getting product %d: %v", id, err)
		return respondServiceError(c, "Could not retrieve product", err)
	}
	return c.JSON(dto)
}

// HandleListByTitle returns one page of products matching a title term.
func (h *ProductHandler) HandleListByTitle(c *fiber.Ctx) error {
	dtos, err := h.service.ListByTitle(c.Params("title"), c.QueryInt("page", 0))
	if err != nil {
		log.Printf("Error listing products by title: %v", err)
		return respondServiceError(c, "Could not list products", err)
	}
	return c.JSON(dtos)
}

// HandleListByCategory returns one page of products in a category.
func (h *ProductHandler) HandleListByCategory(c *fiber.Ctx) error {
	dtos, err := h.service.ListByCategory(c.Params("category"), c.QueryInt("page", 0))
	if err != nil {
		log.Printf("Error listing products by category: %v", err)
		return respondServiceError(c, "Could not list products", err)
	}
	return c.JSON(dtos)
}

// HandleListByStore returns one page of a store's products.
func (h *ProductHandler) HandleListByStore(c *fiber.Ctx) error {
	storeID, err := paramUint(c, "storeId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store ID must be a number",
		})
	}
	dtos, err := h.service.ListByStore(storeID, c.QueryInt("page", 0))
	if err != nil {
		log.Printf("Error listing products for store %d: %v", storeID, err)
		return respondServiceError(c, "Could not list products", err)
	}
	return c.JSON(dtos)
}

// HandleListByStoreAndTitle returns one page of a store's products
// matching a title term.
func (h *ProductHandler) HandleListByStoreAndTitle(c *fiber.Ctx) error {
	storeID, err := paramUint(c, "storeId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store ID must be a number",
		})
	}
	dtos, err := h.service.ListByStoreAndTitle(storeID, c.Params("title"), c.QueryInt("page", 0))
	if err != nil {
		log.Printf("Error listing products for store %d by title: %v", storeID, err)
		return respondServiceError(c, "Could not list products", err)
	}
	return c.JSON(dtos)
}

// HandleTopSellers returns the best selling products across all stores.
func (h *ProductHandler) HandleTopSellers(c *fiber.Ctx) error {
	dtos, err := h.service.TopSellers()
	if err != nil {
		log.Printf("Error listing top sellers: %v", err)
		return respondServiceError(c, "Could not list top sellers", err)
	}
	return c.JSON(dtos)
}

// HandleTopSellersForStore returns the best selling products of one store.
func (h *ProductHandler) HandleTopSellersForStore(c *fiber.Ctx) error {
	storeID, err := paramUint(c, "storeId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store ID must be a number",
		})
	}
	dtos, err := h.service.TopSellersForStore(storeID)
	if err != nil {
		log.Printf("Error listing top sellers for store %d: %v", storeID, err)
		return respondServiceError(c, "Could not list top sellers", err)
	}
	return c.JSON(dtos)
}

// HandleRecent returns the most recently created products.
func (h *ProductHandler) HandleRecent(c *fiber.Ctx) error {
	dtos, err := h.service.ListRecent()
	if err != nil {
		log.Printf("Error listing recent products: %v", err)
		return respondServiceError(c, "Could not list recent products", err)
	}
	return c.JSON(dtos)
}

// HandleFeatured returns the products for an explicit id list, e.g.
// /products/featured?ids=1,2,3.
func (h *ProductHandler) HandleFeatured(c *fiber.Ctx) error {
	var ids []uint
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "ids must be a comma-separated list of numbers",
			})
		}
		ids = append(ids, uint(id))
	}
	dtos, err := h.service.Featured(ids)
	if err != nil {
		log.Printf("Error listing featured products: %v", err)
		return respondServiceError(c, "Could not list featured products", err)
	}
	return c.JSON(dtos)
}

// HandleSearchHistory returns products matching previously searched words,
// e.g. /products/history?terms=laptop,mouse.
func (h *ProductHandler) HandleSearchHistory(c *fiber.Ctx) error {
	var terms []string
	for _, raw := range strings.Split(c.Query("terms"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			terms = append(terms, raw)
		}
	}
	dtos, err := h.service.SearchHistory(terms)
	if err != nil {
		log.Printf("Error searching products by history: %v", err)
		return respondServiceError(c, "Could not search products", err)
	}
	return c.JSON(dtos)
}

// HandleCreate registers a new product under an existing store.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	product, err := h.service.Create(req)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondServiceError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate overwrites the mutable fields of an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.Update(req); err != nil {
		log.Printf("Error updating product %d: %v", req.ID, err)
		return respondServiceError(c, "Could not update product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a number",
		})
	}
	if err := h.service.Delete(id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return respondServiceError(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRate folds one rating into a product's aggregate.
func (h *ProductHandler) HandleRate(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a number",
		})
	}
	var req models.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing rating request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.RateProduct(id, req.Value); err != nil {
		log.Printf("Error rating product %d: %v", id, err)
		return respondServiceError(c, "Could not rate product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRecordSale adds a purchased quantity to a product's sold count.
func (h *ProductHandler) HandleRecordSale(c *fiber.Ctx) error {
	var purchase models.Purchase
	if err := c.BodyParser(&purchase); err != nil {
		log.Printf("Error parsing purchase request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(purchase); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.RecordSale(purchase); err != nil {
		log.Printf("Error recording sale for product %d: %v", purchase.ProductID, err)
		return respondServiceError(c, "Could not record sale", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSell sells units against stock and credits the owning store.
func (h *ProductHandler) HandleSell(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a number",
		})
	}
	var req models.SellRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sell request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.SellAndCredit(id, req.Quantity); err != nil {
		log.Printf("Error selling product %d: %v", id, err)
		return respondServiceError(c, "Could not sell product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) setStoreAvailability(c *fiber.Ctx, available bool) error {
	storeID, err := paramUint(c, "storeId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store ID must be a number",
		})
	}
	if err := h.service.SetStoreAvailability(storeID, available); err != nil {
		log.Printf("Error setting availability for store %d: %v", storeID, err)
		return respondServiceError(c, "Could not change product availability", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleActivateStore makes every product of a store available.
func (h *ProductHandler) HandleActivateStore(c *fiber.Ctx) error {
	return h.setStoreAvailability(c, true)
}

// HandleDeactivateStore makes every product of a store unavailable.
func (h *ProductHandler) HandleDeactivateStore(c *fiber.Ctx) error {
	return h.setStoreAvailability(c, false)
}
