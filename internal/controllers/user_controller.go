package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"starter-api/internal/models"
	"starter-api/internal/password"
	"starter-api/internal/repository"
	"starter-api/internal/service"
)

const errEmailRegistered = "Email already registered"

type UserController struct {
	userService service.UserService
	log         *zap.Logger
}

func NewUserController(userService service.UserService, log *zap.Logger) *UserController {
	registerFieldNames()
	return &UserController{
		userService: userService,
		log:         log,
	}
}

// ListUsers handles GET /users?skip=&limit=
func (uc *UserController) ListUsers(c *gin.Context) {
	var page models.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		respondBindError(c, err, "query")
		return
	}

	db, ok := sessionDB(c, uc.log)
	if !ok {
		return
	}

	users, err := uc.userService.List(db, page.Skip, page.Limit)
	if err != nil {
		respondInternal(c, uc.log, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, models.NewUserReads(users))
}

// CreateUser handles POST /users
func (uc *UserController) CreateUser(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "body")
		return
	}

	db, ok := sessionDB(c, uc.log)
	if !ok {
		return
	}

	_, exists, err := uc.userService.GetByEmail(db, req.Email)
	if err != nil {
		respondInternal(c, uc.log, "Failed to check existing email", err)
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, errEmailRegistered)
		return
	}

	user, err := uc.userService.Create(db, &req)
	if err != nil {
		// A concurrent registration got past the check above
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(c, http.StatusBadRequest, errEmailRegistered)
			return
		}
		// max=72 counts runes, bcrypt counts bytes
		if errors.Is(err, password.ErrTooLong) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "Validation failed",
				Details: []models.FieldError{{
					Field:   "password",
					Message: fmt.Sprintf("must be at most %d bytes", password.MaxBytes),
				}},
			})
			return
		}
		respondInternal(c, uc.log, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, models.NewUserRead(user))
}

// GetUser handles GET /users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	var param models.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		respondBindError(c, err, "id")
		return
	}

	db, ok := sessionDB(c, uc.log)
	if !ok {
		return
	}

	user, found, err := uc.userService.Get(db, param.ID)
	if err != nil {
		respondInternal(c, uc.log, "Failed to get user", err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, models.NewUserRead(user))
}

// GetUserByEmail handles GET /users/by-email?email=
func (uc *UserController) GetUserByEmail(c *gin.Context) {
	var query models.EmailQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err, "query")
		return
	}

	db, ok := sessionDB(c, uc.log)
	if !ok {
		return
	}

	user, found, err := uc.userService.GetByEmail(db, query.Email)
	if err != nil {
		respondInternal(c, uc.log, "Failed to get user by email", err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, models.NewUserRead(user))
}

// Login handles POST /users/login. It verifies the password and returns the
// user; no token or session is issued.
func (uc *UserController) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "body")
		return
	}

	db, ok := sessionDB(c, uc.log)
	if !ok {
		return
	}

	user, ok, err := uc.userService.Authenticate(db, req.Email, req.Password)
	if err != nil {
		respondInternal(c, uc.log, "Failed to authenticate user", err)
		return
	}
	if !ok {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	c.JSON(http.StatusOK, models.NewUserRead(user))
}
