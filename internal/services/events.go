package services

import (
	"encoding/json"
	"log"
	"time"

	"greenbuild/internal/models"
)

// Routing keys for order events.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

// EventPublisher delivers order events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderEvent is the message body published after a confirmed store write.
type OrderEvent struct {
	Type       string             `json:"type"`
	BillID     string             `json:"billId,omitempty"`
	OrderIDs   []string           `json:"orderIds"`
	Status     models.OrderStatus `json:"status,omitempty"`
	FinalPrice *float64           `json:"finalPrice,omitempty"`
	GreenCount int                `json:"greenCount"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// publish sends ev when a publisher is configured. Failures are logged only;
// the store write has already been confirmed.
func publish(p EventPublisher, ev OrderEvent) {
	if p == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", ev.Type, err)
		return
	}
	if err := p.Publish("", ev.Type, body); err != nil {
		log.Printf("Warning: failed to publish %s event for %v: %v", ev.Type, ev.OrderIDs, err)
		return
	}
	log.Printf("Published %s event for %d order(s)", ev.Type, len(ev.OrderIDs))
}
