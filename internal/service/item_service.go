package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"starter-api/internal/cache"
	"starter-api/internal/entities"
	"starter-api/internal/models"
	"starter-api/internal/repository"
)

// ItemService defines the interface for item business logic
type ItemService interface {
	Get(db *gorm.DB, id uint) (entities.Item, bool, error)
	List(db *gorm.DB, skip, limit int) ([]entities.Item, error)
	Create(db *gorm.DB, req *models.ItemCreate) (entities.Item, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewItemService creates a new item service. cacheClient may be nil, in which
// case every read goes to the database. Items are never updated or deleted,
// so cached entries cannot go stale.
func NewItemService(itemRepo repository.ItemRepository, cacheClient cache.Cache, cacheTTL time.Duration, log *zap.Logger) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func itemCacheKey(id uint) string {
	return fmt.Sprintf("item:%d", id)
}

// Get retrieves an item by id, consulting the cache first
func (s *itemService) Get(db *gorm.DB, id uint) (entities.Item, bool, error) {
	ctx := contextOf(db)

	if s.cache != nil {
		var cached entities.Item
		err := s.cache.GetJSON(ctx, itemCacheKey(id), &cached)
		if err == nil {
			return cached, true, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("Item cache read failed", zap.Uint("item_id", id), zap.Error(err))
		}
	}

	item, found, err := s.itemRepo.FindByID(db, id)
	if err != nil || !found {
		return item, found, err
	}

	s.store(ctx, item)
	return item, true, nil
}

// List returns a page of items
func (s *itemService) List(db *gorm.DB, skip, limit int) ([]entities.Item, error) {
	items, err := s.itemRepo.List(db, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Create stores a new item. Unlike users there is no pre-check for an
// existing name; a clash is reported as repository.ErrDuplicate.
func (s *itemService) Create(db *gorm.DB, req *models.ItemCreate) (entities.Item, error) {
	item, err := s.itemRepo.Create(db, entities.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	})
	if err != nil {
		return entities.Item{}, err
	}

	s.log.Info("Item created", zap.Uint("item_id", item.ID), zap.String("name", item.Name))
	s.store(contextOf(db), item)
	return item, nil
}

func (s *itemService) store(ctx context.Context, item entities.Item) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, itemCacheKey(item.ID), item, s.cacheTTL); err != nil {
		s.log.Warn("Item cache write failed", zap.Uint("item_id", item.ID), zap.Error(err))
	}
}

func contextOf(db *gorm.DB) context.Context {
	if db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}
