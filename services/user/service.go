package user

import (
	"fmt"
	"time"

	userRepo "fundilink/database/repository/user"
	"fundilink/models"
	"fundilink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 72 * time.Hour

// UserService manages client accounts. A client can book entirely over
// WhatsApp without one; accounts exist for the app surface.
type UserService interface {
	Register(u *models.User) (*models.User, string, error)
	Login(phone, password string) (*models.User, string, error)
	GetByID(id string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

func (s *DefaultUserService) Register(u *models.User) (*models.User, string, error) {
	if u.Name == "" || u.Phone == "" || u.Security.Password == "" {
		return nil, "", fmt.Errorf("name, phone and password are required")
	}

	if existing, err := s.Repo.GetByPhone(u.Phone); err == nil && existing != nil {
		return nil, "", fmt.Errorf("an account with this phone number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Security.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u.ID = uuid.New().String()
	u.Security = models.Security{PasswordHash: string(hash)}
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.Repo.Create(u); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateToken(u.ID, "user", tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("user registered", zap.String("userId", u.ID))
	return u, token, nil
}

func (s *DefaultUserService) Login(phone, password string) (*models.User, string, error) {
	u, err := s.Repo.GetByPhone(phone)
	if err != nil || u == nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Security.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}
	token, err := utils.GenerateToken(u.ID, "user", tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return u, token, nil
}

func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	return s.Repo.GetByID(id)
}

func (s *DefaultUserService) GetByPhone(phone string) (*models.User, error) {
	return s.Repo.GetByPhone(phone)
}
