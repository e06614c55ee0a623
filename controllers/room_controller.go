package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/bookclub-server/middleware"
	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/services"
)

type RoomReq struct {
	Book        string `form:"book" json:"book" binding:"required,max=200"`
	Name        string `form:"name" json:"name" binding:"required,max=200"`
	Description string `form:"description" json:"description"`
}

func (r RoomReq) input() services.RoomInput {
	return services.RoomInput{BookName: r.Book, Name: r.Name, Description: r.Description}
}

// roomActionReq mirrors the room page form: either a message body or an invite email.
type roomActionReq struct {
	Body        *string `form:"body" json:"body"`
	InviteEmail *string `form:"invite_email" json:"invite_email"`
}

type messageReq struct {
	Body string `form:"body" json:"body" binding:"required"`
}

type inviteReq struct {
	InviteEmail string `form:"invite_email" json:"invite_email" binding:"required"`
}

// ListRooms is the home feed, filtered by ?q= on book name.
func ListRooms(c *gin.Context) {
	feed, err := services.Home(dbFor(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": feed})
}

func ListBooks(c *gin.Context) {
	books, err := services.ListBooks(dbFor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": books})
}

func CreateRoom(c *gin.Context) {
	var req RoomReq
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := services.CreateRoom(dbFor(c), middleware.CurrentUser(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Room created",
		"data":    room,
	})
}

func GetRoomDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := services.GetRoom(dbFor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// RoomAction handles a POST to the room page. A body posts a message; otherwise invite_email
// sends an invitation, counted against inviteLimiter.
func RoomAction(inviteLimiter *middleware.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req roomActionReq
		if err := c.ShouldBind(&req); err != nil {
			respondBindError(c, err)
			return
		}

		switch {
		case req.Body != nil:
			postMessage(c, id, *req.Body)
		case req.InviteEmail != nil:
			if middleware.OverLimit(c, inviteLimiter) {
				return
			}
			sendInvitation(c, id, *req.InviteEmail)
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Either body or invite_email is required"})
		}
	}
}

func PostMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req messageReq
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	postMessage(c, id, req.Body)
}

func SendInvitation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req inviteReq
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	sendInvitation(c, id, req.InviteEmail)
}

func postMessage(c *gin.Context, roomID uint, body string) {
	msg, err := services.PostMessage(dbFor(c), middleware.CurrentUser(c), roomID, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message posted", "data": msg})
}

func sendInvitation(c *gin.Context, roomID uint, email string) {
	inv, err := services.SendInvitation(dbFor(c), middleware.CurrentUser(c), roomID, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Invitation sent to %s.", inv.Receiver.Username),
		"data":    inv,
	})
}

// ListRoomInvitations is host-only; CheckRoomHost has loaded the room.
func ListRoomInvitations(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)

	invs, err := services.RoomInvitations(dbFor(c), middleware.CurrentUser(c), room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invs})
}

// UpdateRoom is host-only; CheckRoomHost has loaded the room.
func UpdateRoom(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)

	var req RoomReq
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := services.UpdateRoom(dbFor(c), middleware.CurrentUser(c), room.ID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Room updated",
		"data":    updated,
	})
}

// DeleteRoom is host-only; CheckRoomHost has loaded the room.
func DeleteRoom(c *gin.Context) {
	room := c.MustGet(middleware.CtxRoom).(models.Room)

	if err := services.DeleteRoom(dbFor(c), middleware.CurrentUser(c), room.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}
