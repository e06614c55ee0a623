package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/bookclub-server/middleware"
	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/services"
	"github.com/vnkhanh/bookclub-server/utils"
)

type RegisterReq struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Username string `form:"username" json:"username" binding:"required,max=150"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
	Name     string `form:"name" json:"name" binding:"max=200"`
}

type LoginReq struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Register creates the account and logs it in.
func Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := services.RegisterUser(dbFor(c), services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logIn(c, http.StatusCreated, "Account created", user)
}

func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := services.Authenticate(dbFor(c), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	logIn(c, http.StatusOK, "Logged in", user)
}

func logIn(c *gin.Context, status int, msg string, user *models.User) {
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := middleware.StartSession(c, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"message":    msg,
		"token":      token,
		"user":       user.Account(),
		"profile_id": user.ID,
	})
}

// Logout ends the cookie session and revokes the bearer token used for the request.
func Logout(c *gin.Context) {
	if err := middleware.RevokeCurrentToken(c); err != nil {
		log.Printf("[%s] revoke token: %v", middleware.GetRequestID(c), err)
	}
	if err := middleware.EndSession(c); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": middleware.CurrentUser(c).Account()})
}
