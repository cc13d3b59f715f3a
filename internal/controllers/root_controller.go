package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"starter-api/internal/database"
	"starter-api/internal/models"
)

const welcomeMessage = "Welcome to the Starter API!"

type RootController struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRootController(db *gorm.DB, log *zap.Logger) *RootController {
	return &RootController{db: db, log: log}
}

// Root handles GET /
func (rc *RootController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: welcomeMessage})
}

// Health handles GET /health
func (rc *RootController) Health(c *gin.Context) {
	if err := database.Ping(c.Request.Context(), rc.db); err != nil {
		rc.log.Error("Database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
