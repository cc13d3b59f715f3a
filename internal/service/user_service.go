package service

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"starter-api/internal/entities"
	"starter-api/internal/models"
	"starter-api/internal/password"
	"starter-api/internal/repository"
)

// UserService defines the interface for user business logic.
// Each method reuses the session it is handed and opens no transaction of its own.
type UserService interface {
	Get(db *gorm.DB, id uint) (entities.User, bool, error)
	GetByEmail(db *gorm.DB, email string) (entities.User, bool, error)
	Create(db *gorm.DB, req *models.UserCreate) (entities.User, error)
	List(db *gorm.DB, skip, limit int) ([]entities.User, error)
	Authenticate(db *gorm.DB, email, plaintext string) (entities.User, bool, error)
}

type userService struct {
	userRepo  repository.UserRepository
	hasher    *password.Hasher
	log       *zap.Logger
	dummyHash string
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, hasher *password.Hasher, log *zap.Logger) UserService {
	// Verified against when the email is unknown so both failure paths cost one bcrypt run.
	dummyHash, err := hasher.Hash("dummy-password")
	if err != nil {
		log.Warn("Failed to precompute dummy hash", zap.Error(err))
	}

	return &userService{
		userRepo:  userRepo,
		hasher:    hasher,
		log:       log,
		dummyHash: dummyHash,
	}
}

// Get retrieves a user by id
func (s *userService) Get(db *gorm.DB, id uint) (entities.User, bool, error) {
	return s.userRepo.FindByID(db, id)
}

// GetByEmail retrieves a user by email
func (s *userService) GetByEmail(db *gorm.DB, email string) (entities.User, bool, error) {
	return s.userRepo.FindByEmail(db, email)
}

// Create hashes the password and stores a new user. It does not check for an
// existing email; a clash at insert time is reported as repository.ErrDuplicate.
func (s *userService) Create(db *gorm.DB, req *models.UserCreate) (entities.User, error) {
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return entities.User{}, err
	}

	user, err := s.userRepo.Create(db, entities.User{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		return entities.User{}, err
	}

	s.log.Info("User created", zap.Uint("user_id", user.ID))
	return user, nil
}

// List returns a page of users
func (s *userService) List(db *gorm.DB, skip, limit int) ([]entities.User, error) {
	users, err := s.userRepo.List(db, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Authenticate reports whether plaintext is the password of the user with email
func (s *userService) Authenticate(db *gorm.DB, email, plaintext string) (entities.User, bool, error) {
	user, found, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		return entities.User{}, false, err
	}
	if !found {
		s.hasher.Verify(plaintext, s.dummyHash)
		return entities.User{}, false, nil
	}
	if !s.hasher.Verify(plaintext, user.HashedPassword) {
		return entities.User{}, false, nil
	}
	return user, true, nil
}
