package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"starter-api/internal/database"
	"starter-api/internal/entities"
)

// ItemRepository defines the interface for item database operations
type ItemRepository interface {
	FindByID(db *gorm.DB, id uint) (entities.Item, bool, error)
	List(db *gorm.DB, offset, limit int) ([]entities.Item, error)
	Create(db *gorm.DB, item entities.Item) (entities.Item, error)
}

type itemRepository struct{}

// NewItemRepository creates a new item repository
func NewItemRepository() ItemRepository {
	return &itemRepository{}
}

// FindByID finds an item by primary key
func (r *itemRepository) FindByID(db *gorm.DB, id uint) (entities.Item, bool, error) {
	var row itemRow
	err := db.Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Item{}, false, nil
	}
	if err != nil {
		return entities.Item{}, false, fmt.Errorf("failed to find item: %w", err)
	}
	return row.toEntity(), true, nil
}

// List returns items ordered by id, offset/limit paginated
func (r *itemRepository) List(db *gorm.DB, offset, limit int) ([]entities.Item, error) {
	var rows []itemRow
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]entities.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// Create inserts a new item. No name pre-check is made; the unique index
// on items.name decides, and a clash comes back as ErrDuplicate.
func (r *itemRepository) Create(db *gorm.DB, item entities.Item) (entities.Item, error) {
	row := toItemRow(item)
	row.ID = 0

	if err := db.Create(&row).Error; err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return entities.Item{}, fmt.Errorf("failed to create item: %w", ErrDuplicate)
		case database.IsCheckViolation(err):
			return entities.Item{}, fmt.Errorf("failed to create item: %w", ErrConstraint)
		}
		return entities.Item{}, fmt.Errorf("failed to create item: %w", err)
	}
	return row.toEntity(), nil
}
