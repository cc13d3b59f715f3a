package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"starter-api/internal/database"
	"starter-api/internal/entities"
)

// UserRepository defines the interface for user database operations.
// Every method runs on the session handle it is given.
type UserRepository interface {
	FindByID(db *gorm.DB, id uint) (entities.User, bool, error)
	FindByEmail(db *gorm.DB, email string) (entities.User, bool, error)
	List(db *gorm.DB, offset, limit int) ([]entities.User, error)
	Create(db *gorm.DB, user entities.User) (entities.User, error)
}

type userRepository struct{}

// NewUserRepository creates a new user repository
func NewUserRepository() UserRepository {
	return &userRepository{}
}

// FindByID finds a user by primary key
func (r *userRepository) FindByID(db *gorm.DB, id uint) (entities.User, bool, error) {
	return r.findOne(db.Where("id = ?", id))
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(db *gorm.DB, email string) (entities.User, bool, error) {
	return r.findOne(db.Where("email = ?", email))
}

func (r *userRepository) findOne(query *gorm.DB) (entities.User, bool, error) {
	var row userRow
	err := query.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.User{}, false, nil
	}
	if err != nil {
		return entities.User{}, false, fmt.Errorf("failed to find user: %w", err)
	}
	return row.toEntity(), true, nil
}

// List returns users ordered by id, offset/limit paginated
func (r *userRepository) List(db *gorm.DB, offset, limit int) ([]entities.User, error) {
	var rows []userRow
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toEntity())
	}
	return users, nil
}

// Create inserts a new user and returns it with its assigned id
func (r *userRepository) Create(db *gorm.DB, user entities.User) (entities.User, error) {
	row := toUserRow(user)
	row.ID = 0

	if err := db.Create(&row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return entities.User{}, fmt.Errorf("failed to create user: %w", ErrDuplicate)
		}
		return entities.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return row.toEntity(), nil
}
