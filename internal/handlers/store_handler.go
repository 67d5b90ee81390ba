package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"mercado/internal/models"
	"mercado/internal/services"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	stores   *services.StoreService
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(stores *services.StoreService, catalog *services.CatalogService) *StoreHandler {
	return &StoreHandler{
		stores:   stores,
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the store routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Post("/", h.HandleCreate)
	storeRoutes.Get("/:storeId/categories", h.HandleCategorizedListing)
	storeRoutes.Post("/:storeId/categories", h.HandleAddCategory)
}

// HandleCreate registers a new store.
func (h *StoreHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create store request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	store, err := h.stores.CreateStore(req)
	if err != nil {
		log.Printf("Error creating store: %v", err)
		return respondServiceError(c, "Could not create store", err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleCategorizedListing returns a store's categories, each with its
// projected products.
func (h *StoreHandler) HandleCategorizedListing(c *fiber.Ctx) error {
	storeID, err := strconv.ParseUint(c.Params("storeId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store ID must be a number",
		})
	}
	dtos, err := h.catalog.CategorizedListingForStore(uint(storeID))
	if err != nil {
		log.Printf("Error listing categories for store %d: %v", storeID, err)
		return respondServiceError(c, "Could not list store categories", err)
	}
	return c.JSON(dtos)
}

// HandleAddCategory attaches a new category to a store.
func (h *StoreHandler) HandleAddCategory(c *fiber.Ctx) error {
	storeID, err := strconv.ParseUint(c.Params("storeId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store ID must be a number",
		})
	}
	var req struct {
		Title string `json:"title" validate:"required,min=1,max=100"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create category request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	category, err := h.stores.AddCategory(uint(storeID), req.Title)
	if err != nil {
		log.Printf("Error adding category to store %d: %v", storeID, err)
		return respondServiceError(c, "Could not add category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
