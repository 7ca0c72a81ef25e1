package repositories

import (
	"sync"

	"greenbuild/internal/models"
)

// MockProfileRepository is an in-memory implementation of ProfileRepository.
type MockProfileRepository struct {
	profiles map[string]models.Profile
	mu       sync.RWMutex
}

// NewMockProfileRepository creates a new instance of MockProfileRepository.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]models.Profile),
	}
}

// GetBySession returns the profile for sessionID.
func (r *MockProfileRepository) GetBySession(sessionID string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[sessionID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

// Save stores the profile, replacing any previous one.
func (r *MockProfileRepository) Save(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.SessionID] = *profile
	return nil
}
