package services

import (
	"errors"
	"strings"

	"github.com/vnkhanh/bookclub-server/models"
	"gorm.io/gorm"
)

const msgAlreadyInvited = "User has already been sent an invitation or is already a participant."

// SendInvitation invites the user registered under receiverEmail to a room. Host only.
//
// The pending check and insert share a transaction, and idx_invitations_pending rejects a
// second PENDING row for the same (room, receiver) if two requests race past the check.
func SendInvitation(db *gorm.DB, sender *models.User, roomID uint, receiverEmail string) (*models.Invitation, error) {
	if err := requireActor(sender); err != nil {
		return nil, err
	}

	var inv models.Invitation
	err := db.Transaction(func(tx *gorm.DB) error {
		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}
		if !room.IsHost(sender.ID) {
			return newError(ErrPermission, "You are not allowed to send invitations.")
		}

		var receiver models.User
		if err := tx.Where("email = ?", normalizeEmail(receiverEmail)).First(&receiver).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "User with that email does not exist.")
			}
			return err
		}

		member, err := IsParticipant(tx, room.ID, receiver.ID)
		if err != nil {
			return err
		}
		if member {
			return newError(ErrConflict, msgAlreadyInvited)
		}

		var pending int64
		err = tx.Model(&models.Invitation{}).
			Where("room_id = ? AND receiver_id = ? AND status = ?", room.ID, receiver.ID, models.InvitationPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return newError(ErrConflict, msgAlreadyInvited)
		}

		inv = models.Invitation{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			RoomID:     room.ID,
			Status:     models.InvitationPending,
		}
		if err := tx.Create(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(ErrConflict, msgAlreadyInvited)
			}
			return err
		}

		inv.Receiver = &receiver
		inv.Room = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// AcceptInvitation moves a PENDING invitation addressed to actor to ACCEPTED and adds
// actor to the room.
func AcceptInvitation(db *gorm.DB, actor *models.User, invitationID uint) (*models.Invitation, error) {
	return resolveInvitation(db, actor, invitationID, models.InvitationAccepted)
}

// RejectInvitation moves a PENDING invitation addressed to actor to REJECTED.
func RejectInvitation(db *gorm.DB, actor *models.User, invitationID uint) (*models.Invitation, error) {
	return resolveInvitation(db, actor, invitationID, models.InvitationRejected)
}

func resolveInvitation(db *gorm.DB, actor *models.User, invitationID uint, status string) (*models.Invitation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var inv models.Invitation
	err := db.Transaction(func(tx *gorm.DB) error {
		// Conditional update: only one caller can observe PENDING.
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND receiver_id = ? AND status = ?", invitationID, actor.ID, models.InvitationPending).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}

		err := tx.Preload("Sender").Preload("Room").
			Where("id = ? AND receiver_id = ?", invitationID, actor.ID).
			First(&inv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "Invitation not found.")
			}
			return err
		}
		if res.RowsAffected == 0 {
			return newError(ErrStaleState, "Invitation no longer valid.")
		}

		if status == models.InvitationAccepted {
			return joinRoom(tx, inv.RoomID, actor.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// PendingInvitations lists the PENDING invitations received by userID.
// They are private: anyone other than userID gets an empty list.
func PendingInvitations(db *gorm.DB, viewer *models.User, userID uint) ([]models.Invitation, error) {
	invs := []models.Invitation{}
	if viewer == nil || viewer.ID != userID {
		return invs, nil
	}

	err := db.Preload("Sender").Preload("Room").
		Where("receiver_id = ? AND status = ?", userID, models.InvitationPending).
		Order(newestFirst).
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// RoomInvitations lists every invitation issued for a room, in any state. Host only.
func RoomInvitations(db *gorm.DB, actor *models.User, roomID uint) ([]models.Invitation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	room, err := findRoom(db, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsHost(actor.ID) {
		return nil, newError(ErrPermission, "You are not allowed here!")
	}

	invs := []models.Invitation{}
	err = db.Preload("Receiver").
		Where("room_id = ?", roomID).
		Order(newestFirst).
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
