package middleware

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/bookclub-server/config"
	"github.com/vnkhanh/bookclub-server/models"
	"gorm.io/gorm"
)

const CtxRoom = "roomObj" // models.Room loaded by CheckRoomHost

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CheckRoomHost loads the room in :id into the context and lets only its host through.
func CheckRoomHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		roomID, ok := ParseID(c, "id")
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid room id"})
			return
		}

		var room models.Room
		if err := config.DB.WithContext(c.Request.Context()).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Room not found."})
				return
			}
			log.Printf("[CheckRoomHost] room=%d: %v", roomID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		if !room.IsHost(user.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You are not allowed here!"})
			return
		}

		c.Set(CtxRoom, room)
		c.Next()
	}
}
