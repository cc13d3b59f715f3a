package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"starter-api/internal/database"
	"starter-api/internal/middleware"
	"starter-api/internal/models"
)

var registerFieldNamesOnce sync.Once

// registerFieldNames makes validation errors report json/form/uri names
// instead of Go field names. It must run before the first request is bound.
func registerFieldNames() {
	registerFieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// respondBindError writes a 422 describing why the request was rejected.
// location names the part of the request that failed to bind.
func respondBindError(c *gin.Context, err error, location string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   "Validation failed",
		Details: fieldErrors(err, location),
	})
}

func fieldErrors(err error, location string) []models.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]models.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, models.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []models.FieldError{{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}}
	}

	return []models.FieldError{{Field: location, Message: err.Error()}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func respondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, models.ErrorResponse{Error: message})
}

// respondInternal logs err and hides it from the client.
func respondInternal(c *gin.Context, log *zap.Logger, msg string, err error) {
	log.Error(msg,
		zap.Error(err),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
	)
	respondError(c, http.StatusInternalServerError, "Internal server error")
}

// sessionDB returns the request's database handle, aborting with 500 when the
// session middleware is missing from the chain.
func sessionDB(c *gin.Context, log *zap.Logger) (*gorm.DB, bool) {
	session, ok := database.SessionFrom(c)
	if !ok {
		respondInternal(c, log, "No database session on request", errors.New("session middleware not installed"))
		return nil, false
	}
	return session.DB(), true
}
