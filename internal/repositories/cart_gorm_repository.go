package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"greenbuild/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// List retrieves the session's cart ordered by insertion.
func (r *GORMCartRepository) List(sessionID string) ([]models.OrderItem, error) {
	var entries []models.CartEntry
	if err := r.db.Where("session_id = ?", sessionID).Order("position asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart for session %s: %w", sessionID, err)
	}

	items := make([]models.OrderItem, 0, len(entries))
	for _, entry := range entries {
		var item models.OrderItem
		if err := json.Unmarshal([]byte(entry.Payload), &item); err != nil {
			return nil, fmt.Errorf("failed to decode cart entry %s: %w", entry.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Append stores an item at the end of the session's cart.
func (r *GORMCartRepository) Append(sessionID string, item models.OrderItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode cart item: %w", err)
	}
	entry := models.CartEntry{
		ID:        item.ID,
		SessionID: sessionID,
		Position:  time.Now().UnixNano(),
		Payload:   string(payload),
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

// Remove deletes a single cart line. Removing an absent line is not an error.
func (r *GORMCartRepository) Remove(sessionID, itemID string) error {
	if err := r.db.Where("session_id = ? AND id = ?", sessionID, itemID).Delete(&models.CartEntry{}).Error; err != nil {
		return fmt.Errorf("failed to remove cart item %s: %w", itemID, err)
	}
	return nil
}

// Clear removes every line of the session's cart.
func (r *GORMCartRepository) Clear(sessionID string) error {
	if err := r.db.Where("session_id = ?", sessionID).Delete(&models.CartEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart for session %s: %w", sessionID, err)
	}
	return nil
}
