package repositories

import (
	"errors"
	"fmt"

	"greenbuild/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProfileNotFound is returned when a session has no remembered profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAdminNotFound is returned when no admin has the identifier.
	ErrAdminNotFound = errors.New("admin not found")
)

// GORMProfileRepository is a GORM implementation of ProfileRepository.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{
		db: db,
	}
}

// GetBySession retrieves the profile remembered for sessionID.
func (r *GORMProfileRepository) GetBySession(sessionID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile for session %s: %w", sessionID, err)
	}
	return &profile, nil
}

// Save inserts or replaces the profile for its session.
func (r *GORMProfileRepository) Save(profile *models.Profile) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_name", "department", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

// NewGORMAdminRepository creates a new instance of GORMAdminRepository.
func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{
		db: db,
	}
}

// Create stores a new admin credential.
func (r *GORMAdminRepository) Create(admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if err := r.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetByIdentifier retrieves an admin by login identifier.
func (r *GORMAdminRepository) GetByIdentifier(identifier string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, "identifier = ?", identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admin with identifier %s: %w", identifier, ErrAdminNotFound)
		}
		return nil, fmt.Errorf("failed to get admin %s: %w", identifier, err)
	}
	return &admin, nil
}
