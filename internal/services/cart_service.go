package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"greenbuild/internal/models"
	"greenbuild/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CartService manages a session's private cart and remembered profile.
type CartService struct {
	cartRepo    repositories.CartRepository
	profileRepo repositories.ProfileRepository
	builder     *OrderBuilder
	validate    *validator.Validate
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, profileRepo repositories.ProfileRepository, builder *OrderBuilder) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		profileRepo: profileRepo,
		builder:     builder,
		validate:    models.NewValidator(),
	}
}

// GetProfile returns the remembered requester identity, or an empty profile.
func (s *CartService) GetProfile(sessionID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetBySession(sessionID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return &models.Profile{SessionID: sessionID}, nil
	}
	return profile, err
}

// SaveProfile validates and remembers the requester identity for the session.
func (s *CartService) SaveProfile(sessionID string, profile *models.Profile) error {
	profile.SessionID = sessionID
	profile.UserName = strings.TrimSpace(profile.UserName)
	profile.Department = strings.TrimSpace(profile.Department)
	if err := models.ValidateStruct(s.validate, profile); err != nil {
		return err
	}
	profile.UpdatedAt = time.Now()
	return s.profileRepo.Save(profile)
}

// requester resolves the session's identity; submissions need a full profile.
func (s *CartService) requester(sessionID string) (Requester, error) {
	profile, err := s.GetProfile(sessionID)
	if err != nil {
		return Requester{}, err
	}
	if profile.UserName == "" || profile.Department == "" {
		return Requester{}, models.NewValidationError("Profile", "user name and department must be set before ordering")
	}
	return Requester{UserName: profile.UserName, Department: profile.Department}, nil
}

// AddItem builds an item from input and appends it to the cart.
// Identical lines are kept as separate entries.
func (s *CartService) AddItem(sessionID string, input models.ItemInput) (*models.OrderItem, error) {
	who, err := s.requester(sessionID)
	if err != nil {
		return nil, err
	}
	item, err := s.builder.NewItem(input, who)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Append(sessionID, *item); err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}
	return item, nil
}

// Items returns the cart in insertion order.
func (s *CartService) Items(sessionID string) ([]models.OrderItem, error) {
	return s.cartRepo.List(sessionID)
}

// Remove drops a cart line. Unknown IDs are ignored.
func (s *CartService) Remove(sessionID, itemID string) error {
	return s.cartRepo.Remove(sessionID, itemID)
}

// Clear empties the cart. Only checkout calls it, after a confirmed submit.
func (s *CartService) Clear(sessionID string) error {
	return s.cartRepo.Clear(sessionID)
}
