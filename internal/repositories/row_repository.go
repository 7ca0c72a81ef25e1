package repositories

import (
	"errors"
	"fmt"

	"greenbuild/internal/models"

	"gorm.io/gorm"
)

// ErrRowNotFound is returned when no store row carries the requested ID.
var ErrRowNotFound = errors.New("row not found")

// RowRepository defines access to the tabular order store.
type RowRepository interface {
	GetAll() ([]models.StoreRow, error)
	GetByID(id string) (*models.StoreRow, error)
	CreateMany(rows []models.StoreRow) error
	Update(row *models.StoreRow) error
}

// GORMRowRepository is a GORM implementation of RowRepository.
type GORMRowRepository struct {
	db *gorm.DB
}

// NewGORMRowRepository creates a new instance of GORMRowRepository.
func NewGORMRowRepository(db *gorm.DB) *GORMRowRepository {
	return &GORMRowRepository{
		db: db,
	}
}

// GetAll retrieves every row in insertion order.
func (r *GORMRowRepository) GetAll() ([]models.StoreRow, error) {
	var rows []models.StoreRow
	if err := r.db.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get all rows: %w", err)
	}
	return rows, nil
}

// GetByID retrieves a single row.
func (r *GORMRowRepository) GetByID(id string) (*models.StoreRow, error) {
	var row models.StoreRow
	if err := r.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRowNotFound
		}
		return nil, fmt.Errorf("failed to get row %s: %w", id, err)
	}
	return &row, nil
}

// CreateMany inserts all rows in one transaction.
func (r *GORMRowRepository) CreateMany(rows []models.StoreRow) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create rows: %w", err)
	}
	return nil
}

// Update replaces the payload of an existing row.
func (r *GORMRowRepository) Update(row *models.StoreRow) error {
	res := r.db.Model(&models.StoreRow{}).Where("id = ?", row.ID).Update("payload", row.Payload)
	if res.Error != nil {
		return fmt.Errorf("failed to update row: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}
