package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"mercado/internal/handlers"
	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds a Fiber app against a fresh in-memory SQLite database.
// The database name is keyed by the test so tests stay isolated.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Store{}, &models.Category{}))

	productRepo := repositories.NewGORMProductRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)

	storeService := services.NewStoreService(storeRepo)
	catalogService := services.NewCatalogService(productRepo, storeService, nil, nil, 20, time.Minute)

	productHandler := handlers.NewProductHandler(catalogService)
	storeHandler := handlers.NewStoreHandler(storeService, catalogService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	storeHandler.RegisterRoutes(apiV1)

	return app
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createStore(t *testing.T, app *fiber.App, name string) uint {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/stores/", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var store models.Store
	decode(t, resp, &store)
	return store.ID
}

func createProduct(t *testing.T, app *fiber.App, storeID uint, title, category string) models.Product {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", models.CreateProductRequest{
		Title:    title,
		Price:    9.99,
		Category: category,
		StoreID:  storeID,
		Images:   []string{"a", "b"},
		Quantity: 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decode(t, resp, &product)
	return product
}

func TestCreateProductFlow(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")

	product := createProduct(t, app, storeID, "Widget", "tools")
	assert.NotZero(t, product.ID)
	assert.Equal(t, int64(0), product.QuantitySold)
	assert.Nil(t, product.Rating)
	assert.Equal(t, "Acme Store", product.StoreName)

	// the image cap is enforced on create
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", models.CreateProductRequest{
		Title:   "Too many images",
		Price:   1,
		StoreID: storeID,
		Images:  []string{"1", "2", "3", "4", "5", "6", "7"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// creating under a missing store fails
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products/", models.CreateProductRequest{
		Title:   "Orphan product",
		Price:   1,
		StoreID: 9999,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetProductDTO(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")
	product := createProduct(t, app, storeID, "Widget", "tools")

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dto models.ProductDTO
	decode(t, resp, &dto)
	assert.Equal(t, product.ID, dto.ID)
	assert.Equal(t, "Widget", dto.Title)
	assert.Equal(t, int64(10), dto.Quantity)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/424242", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmptySearchIsClientError(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/title/nothing", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "0 results found for the search", body["error"])
}

func TestUpdateAndDelete(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")
	product := createProduct(t, app, storeID, "Widget", "tools")

	resp := doJSON(t, app, http.MethodPut, "/api/v1/products/", models.UpdateProductRequest{
		ID:     product.ID,
		Title:  "Widget v2",
		Price:  12.5,
		Images: []string{"x"},
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dto models.ProductDTO
	decode(t, resp, &dto)
	assert.Equal(t, "Widget v2", dto.Title)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRatingEndpoint(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")
	product := createProduct(t, app, storeID, "Widget", "tools")

	for _, value := range []int{5, 3} {
		resp := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/v1/products/%d/ratings", product.ID),
			map[string]int{"value": value})
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dto models.ProductDTO
	decode(t, resp, &dto)
	require.NotNil(t, dto.Rating)
	assert.Equal(t, 4.0, *dto.Rating)
}

func TestSaleEndpoints(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")
	product := createProduct(t, app, storeID, "Widget", "tools")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products/sales",
		models.Purchase{ProductID: product.ID, Quantity: 2})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/v1/products/%d/sell", product.ID),
		map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dto models.ProductDTO
	decode(t, resp, &dto)
	assert.Equal(t, int64(5), dto.QuantitySold)
	assert.Equal(t, int64(7), dto.Quantity)

	// selling more than the stock on hand is rejected
	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/v1/products/%d/sell", product.ID),
		map[string]int{"quantity": 1000})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStoreAvailabilityToggle(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")
	otherID := createStore(t, app, "Other Store")
	product := createProduct(t, app, storeID, "Widget", "tools")
	other := createProduct(t, app, otherID, "Gadget", "tools")

	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/store/%d/activate", storeID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/store/%d/activate", otherID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/store/%d/deactivate", storeID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var dto models.ProductDTO
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &dto)
	assert.False(t, dto.Available)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", other.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &dto)
	assert.True(t, dto.Available)

	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/store/9999/deactivate", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTopSellersEndpoint(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")
	first := createProduct(t, app, storeID, "Widget", "tools")
	second := createProduct(t, app, storeID, "Gadget", "tools")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products/sales",
		models.Purchase{ProductID: second.ID, Quantity: 9})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products/sales",
		models.Purchase{ProductID: first.ID, Quantity: 2})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/top", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dtos []models.ProductDTO
	decode(t, resp, &dtos)
	require.Len(t, dtos, 2)
	assert.Equal(t, second.ID, dtos[0].ID)
	assert.Equal(t, first.ID, dtos[1].ID)
}

func TestCategorizedListingEndpoint(t *testing.T) {
	app := setupApp(t)
	storeID := createStore(t, app, "Acme Store")

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/stores/%d/categories", storeID),
		map[string]string{"title": "tools"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	createProduct(t, app, storeID, "Hammer", "tools")
	createProduct(t, app, storeID, "Wrench", "tools")

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/stores/%d/categories", storeID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.CategoryDTO
	decode(t, resp, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "tools", categories[0].Title)
	assert.Len(t, categories[0].Products, 2)
}
