package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/bookclub-server/config"
	"github.com/vnkhanh/bookclub-server/middleware"
	"github.com/vnkhanh/bookclub-server/services"
)

// dbFor scopes the shared connection to the request context.
func dbFor(c *gin.Context) *gorm.DB {
	return config.DB.WithContext(c.Request.Context())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrStaleState):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Unexpected errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": services.Message(err)})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "Invalid data",
		"error":   err.Error(),
	})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, ok := middleware.ParseID(c, name)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
	}
	return id, ok
}
