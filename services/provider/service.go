package provider

import (
	"fmt"
	"strings"
	"time"

	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"
	"fundilink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 72 * time.Hour

// ProviderService manages fundi accounts.
type ProviderService interface {
	Register(p *models.Provider) (*models.Provider, string, error)
	Login(email, password string) (*models.Provider, string, error)
	GetByID(id string) (*models.Provider, error)
	Update(p *models.Provider) error
	UpdateFCMToken(id, token string) error
}

// DefaultProviderService implements ProviderService.
type DefaultProviderService struct {
	Repo   providerRepo.ProviderRepository
	Logger *zap.Logger
}

// Register creates a fundi account. New fundis start unverified on the free
// tier; verification is an admin action.
func (s *DefaultProviderService) Register(p *models.Provider) (*models.Provider, string, error) {
	if p.Name == "" || p.Phone == "" || p.Security.Password == "" {
		return nil, "", fmt.Errorf("name, phone and password are required")
	}
	if len(p.Categories) == 0 {
		return nil, "", fmt.Errorf("at least one service category is required")
	}

	if existing, err := s.Repo.GetByPhone(p.Phone); err == nil && existing != nil {
		return nil, "", fmt.Errorf("a fundi with this phone number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Security.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	p.ID = uuid.New().String()
	p.Role = "fundi"
	p.IsVerified = false
	p.Subscription = models.SubscriptionInfo{Status: models.SubscriptionFree}
	p.Security = models.Security{PasswordHash: string(hash)}
	for i, c := range p.Categories {
		p.Categories[i] = strings.ToLower(strings.TrimSpace(c))
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.Repo.Create(p); err != nil {
		return nil, "", fmt.Errorf("failed to create fundi: %w", err)
	}

	token, err := utils.GenerateToken(p.ID, "fundi", tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("fundi registered", zap.String("providerId", p.ID))
	return p, token, nil
}

func (s *DefaultProviderService) Login(email, password string) (*models.Provider, string, error) {
	p, err := s.Repo.GetByEmail(email)
	if err != nil || p == nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(p.Security.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}
	token, err := utils.GenerateToken(p.ID, "fundi", tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return p, token, nil
}

func (s *DefaultProviderService) GetByID(id string) (*models.Provider, error) {
	return s.Repo.GetByID(id)
}

func (s *DefaultProviderService) Update(p *models.Provider) error {
	p.UpdatedAt = time.Now()
	return s.Repo.Update(p)
}

func (s *DefaultProviderService) UpdateFCMToken(id, token string) error {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	p.FCMToken = token
	return s.Update(p)
}
