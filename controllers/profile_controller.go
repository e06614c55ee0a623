package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/bookclub-server/middleware"
	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/services"
)

// profileActionReq is either an invitation decision (action + invitation_id) or profile fields.
type profileActionReq struct {
	Action       string `form:"action" json:"action" binding:"omitempty,oneof=accept reject"`
	InvitationID uint   `form:"invitation_id" json:"invitation_id"`

	Name     *string `form:"name" json:"name" binding:"omitempty,max=200"`
	Username *string `form:"username" json:"username" binding:"omitempty,max=150"`
	Email    *string `form:"email" json:"email" binding:"omitempty,email"`
	Bio      *string `form:"bio" json:"bio"`
	Avatar   *string `form:"avatar" json:"avatar" binding:"omitempty,max=255"`
}

// GetProfile shows a user's rooms and messages; pending invitations only to the user themself.
func GetProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := services.UserProfile(dbFor(c), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// ProfileAction processes an invitation decision or updates the profile. Self only.
func ProfileAction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor := middleware.CurrentUser(c)
	if actor.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not allowed here!"})
		return
	}

	var req profileActionReq
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if req.Action != "" {
		if req.InvitationID == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invitation_id is required"})
			return
		}
		resolveInvitation(c, req.Action, req.InvitationID)
		return
	}

	user, err := services.UpdateProfile(dbFor(c), actor, id, services.ProfileInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "data": user.Account()})
}

// ListMyInvitations returns the caller's pending invitations.
func ListMyInvitations(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	invs, err := services.PendingInvitations(dbFor(c), actor, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invs})
}

func AcceptInvitation(c *gin.Context) {
	if id, ok := pathID(c, "id"); ok {
		resolveInvitation(c, "accept", id)
	}
}

func RejectInvitation(c *gin.Context) {
	if id, ok := pathID(c, "id"); ok {
		resolveInvitation(c, "reject", id)
	}
}

func resolveInvitation(c *gin.Context, action string, invitationID uint) {
	var (
		inv *models.Invitation
		err error
		msg string
	)
	actor := middleware.CurrentUser(c)
	if action == "accept" {
		inv, err = services.AcceptInvitation(dbFor(c), actor, invitationID)
		msg = "Invitation accepted."
	} else {
		inv, err = services.RejectInvitation(dbFor(c), actor, invitationID)
		msg = "Invitation rejected."
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "data": inv})
}
