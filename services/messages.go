package services

import (
	"errors"
	"strings"

	"github.com/vnkhanh/bookclub-server/models"
	"gorm.io/gorm"
)

// PostMessage adds a message to a room. Posting makes the author a participant.
func PostMessage(db *gorm.DB, actor *models.User, roomID uint, body string) (*models.Message, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, newError(ErrValidation, "Message body is required.")
	}

	var msg models.Message
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findRoom(tx, roomID); err != nil {
			return err
		}

		msg = models.Message{UserID: actor.ID, RoomID: roomID, Body: body}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return joinRoom(tx, roomID, actor.ID)
	})
	if err != nil {
		return nil, err
	}

	author := *actor
	msg.User = &author
	return &msg, nil
}

// DeleteMessage removes a message. Author only.
func DeleteMessage(db *gorm.DB, actor *models.User, messageID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, messageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(ErrNotFound, "Message not found.")
			}
			return err
		}
		if msg.UserID != actor.ID {
			return newError(ErrPermission, "You are not allowed here!")
		}
		return tx.Delete(&msg).Error
	})
}
