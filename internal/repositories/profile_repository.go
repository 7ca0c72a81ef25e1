package repositories

import "greenbuild/internal/models"

// ProfileRepository defines storage for remembered requester identities.
type ProfileRepository interface {
	GetBySession(sessionID string) (*models.Profile, error)
	Save(profile *models.Profile) error
}

// AdminRepository defines storage for admin credentials.
type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByIdentifier(identifier string) (*models.Admin, error)
}
