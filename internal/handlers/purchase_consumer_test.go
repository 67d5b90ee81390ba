package handlers_test

import (
	"fmt"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercado/internal/handlers"
	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/internal/services"
)

func newConsumerFixture(t *testing.T) (func(amqp.Delivery) error, *services.CatalogService, *models.Product) {
	t.Helper()

	products := repositories.NewMockProductRepository()
	stores := repositories.NewMockStoreRepository()
	storeService := services.NewStoreService(stores)
	catalog := services.NewCatalogService(products, storeService, nil, nil, 10, 0)

	store, err := storeService.CreateStore(models.CreateStoreRequest{Name: "Acme"})
	require.NoError(t, err)
	product, err := catalog.Create(models.CreateProductRequest{
		Title: "Widget", Price: 9.99, StoreID: store.ID, Quantity: 10,
	})
	require.NoError(t, err)

	return handlers.NewPurchaseMessageHandler(catalog), catalog, product
}

func TestPurchaseMessageHandler_RecordsSale(t *testing.T) {
	handle, catalog, product := newConsumerFixture(t)

	body := []byte(fmt.Sprintf(`{"product_id": %d, "quantity": 3}`, product.ID))
	require.NoError(t, handle(amqp.Delivery{Body: body, DeliveryTag: 1}))

	after, err := catalog.FindByIDOrFail(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), after.QuantitySold)
}

// Deliveries that can never succeed must report success so the consumer
// acks them instead of requeueing the same message forever.
func TestPurchaseMessageHandler_DiscardsTerminalDeliveries(t *testing.T) {
	handle, catalog, product := newConsumerFixture(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed payload", `{"product_id": "not a number"}`},
		{"unknown product", `{"product_id": 9999, "quantity": 1}`},
		{"non-positive quantity", fmt.Sprintf(`{"product_id": %d, "quantity": 0}`, product.ID)},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := handle(amqp.Delivery{Body: []byte(tc.body), DeliveryTag: uint64(i + 2)})
			assert.NoError(t, err)
		})
	}

	after, err := catalog.FindByIDOrFail(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.QuantitySold)
}
