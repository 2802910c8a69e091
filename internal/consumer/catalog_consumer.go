package consumer

import (
	"context"
	"log"
	"time"

	"github.com/Eursukkul/train-reservation/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	KeyCatalogReload  = "catalog.reload"
	KeyCatalogUpdated = "catalog.updated"

	reloadTimeout = 30 * time.Second
)

type CatalogReloader interface {
	ReloadCatalog(ctx context.Context) (models.LoadReport, error)
}

type CatalogConsumer struct {
	svc CatalogReloader
}

func NewCatalogConsumer(svc CatalogReloader) *CatalogConsumer {
	return &CatalogConsumer{svc: svc}
}

// Start reloads the train catalog whenever a catalog message arrives.
func (cc *CatalogConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[CatalogConsumer] channel closed, stopping consumer")
	}()
}

func (cc *CatalogConsumer) handleMessage(msg amqp.Delivery) {
	switch msg.RoutingKey {
	case KeyCatalogReload, KeyCatalogUpdated:
	default:
		log.Printf("[CatalogConsumer] ignoring routing key %q", msg.RoutingKey)
		msg.Ack(false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	report, err := cc.svc.ReloadCatalog(ctx)
	if err != nil {
		// A bad catalog file will not fix itself on redelivery
		log.Printf("[CatalogConsumer] reload failed, keeping current catalog: %v", err)
		msg.Nack(false, false)
		return
	}

	log.Printf("[CatalogConsumer] catalog reloaded: %d trains, %d skipped", report.Rows, report.Skipped)
	msg.Ack(false)
}
