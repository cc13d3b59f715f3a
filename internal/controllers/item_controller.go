package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"starter-api/internal/models"
	"starter-api/internal/repository"
	"starter-api/internal/service"
)

type ItemController struct {
	itemService service.ItemService
	log         *zap.Logger
}

func NewItemController(itemService service.ItemService, log *zap.Logger) *ItemController {
	registerFieldNames()
	return &ItemController{
		itemService: itemService,
		log:         log,
	}
}

// ListItems handles GET /items?skip=&limit=
func (ic *ItemController) ListItems(c *gin.Context) {
	var page models.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		respondBindError(c, err, "query")
		return
	}

	db, ok := sessionDB(c, ic.log)
	if !ok {
		return
	}

	items, err := ic.itemService.List(db, page.Skip, page.Limit)
	if err != nil {
		respondInternal(c, ic.log, "Failed to list items", err)
		return
	}

	c.JSON(http.StatusOK, models.NewItemReads(items))
}

// CreateItem handles POST /items
func (ic *ItemController) CreateItem(c *gin.Context) {
	var req models.ItemCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "body")
		return
	}

	db, ok := sessionDB(c, ic.log)
	if !ok {
		return
	}

	item, err := ic.itemService.Create(db, &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			respondError(c, http.StatusBadRequest, "Item name already exists")
		case errors.Is(err, repository.ErrConstraint):
			respondError(c, http.StatusUnprocessableEntity, "Item violates a storage constraint")
		default:
			respondInternal(c, ic.log, "Failed to create item", err)
		}
		return
	}

	c.JSON(http.StatusCreated, models.NewItemRead(item))
}

// GetItem handles GET /items/:id
func (ic *ItemController) GetItem(c *gin.Context) {
	var param models.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		respondBindError(c, err, "id")
		return
	}

	db, ok := sessionDB(c, ic.log)
	if !ok {
		return
	}

	item, found, err := ic.itemService.Get(db, param.ID)
	if err != nil {
		respondInternal(c, ic.log, "Failed to get item", err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Item not found")
		return
	}

	c.JSON(http.StatusOK, models.NewItemRead(item))
}
