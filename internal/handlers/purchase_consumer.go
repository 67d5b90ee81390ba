package handlers

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"

	"mercado/internal/apperrors"
	"mercado/internal/models"
	"mercado/internal/services"
)

// NewPurchaseMessageHandler builds the callback the purchase-queue consumer
// runs for each delivery. Malformed payloads and domain rejections (unknown
// product, non-positive quantity) are terminal for the message: redelivery
// would fail the same way forever, so the handler logs and reports success
// to have the delivery acked. Any other error is returned so the consumer
// requeues the message.
func NewPurchaseMessageHandler(catalog *services.CatalogService) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var purchase models.Purchase
		if err := json.Unmarshal(msg.Body, &purchase); err != nil {
			log.Printf("Discarding malformed purchase event (Tag: %d): %v", msg.DeliveryTag, err)
			return nil
		}
		err := catalog.RecordSale(purchase)
		if err != nil && (apperrors.IsKind(err, apperrors.KindNotFound) || apperrors.IsKind(err, apperrors.KindValidation)) {
			log.Printf("Discarding unprocessable purchase event (Tag: %d): %v", msg.DeliveryTag, err)
			return nil
		}
		return err
	}
}
