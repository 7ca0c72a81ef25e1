package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"greenbuild/internal/models"
	"greenbuild/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService checks admin credentials and issues admin session tokens.
type AuthService struct {
	adminRepo  repositories.AdminRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 8 * time.Hour, // one working day
	}
}

// EnsureAdmin stores the credential when no admin with identifier exists.
// Only the bcrypt hash of secret is kept.
func (s *AuthService) EnsureAdmin(identifier, secret string) error {
	if identifier == "" || secret == "" {
		return fmt.Errorf("admin identifier and secret are required")
	}
	_, err := s.adminRepo.GetByIdentifier(identifier)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrAdminNotFound) {
		return fmt.Errorf("failed to look up admin %s: %w", identifier, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin secret: %w", err)
	}
	if err := s.adminRepo.Create(&models.Admin{Identifier: identifier, SecretHash: string(hashed)}); err != nil {
		return fmt.Errorf("failed to create admin %s: %w", identifier, err)
	}
	log.Printf("Admin %s provisioned", identifier)
	return nil
}

// Login checks the credential and returns a signed token.
func (s *AuthService) Login(identifier, secret string) (string, error) {
	admin, err := s.adminRepo.GetByIdentifier(identifier)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.SecretHash), []byte(secret)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id":   admin.ID,
		"identifier": admin.Identifier,
		"role":       "admin",
		"exp":        time.Now().Add(s.tokenDurat).Unix(),
		"iat":        time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates an admin token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims["role"] != "admin" {
		return nil, fmt.Errorf("token does not grant admin access")
	}
	return claims, nil
}
