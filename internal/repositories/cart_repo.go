package repositories

import (
	"greenbuild/internal/models"
)

// CartRepository defines durable storage for a session's unsubmitted items.
type CartRepository interface {
	List(sessionID string) ([]models.OrderItem, error)
	Append(sessionID string, item models.OrderItem) error
	Remove(sessionID, itemID string) error
	Clear(sessionID string) error
}
