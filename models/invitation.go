package models

import "time"

const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationRejected = "REJECTED"
)

// Invitation rows with status PENDING are unique per (room, receiver); see idx_invitations_pending.
type Invitation struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID   uint      `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Sender     *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;" json:"sender,omitempty"`
	ReceiverID uint      `gorm:"column:receiver_id;not null;index;uniqueIndex:idx_invitations_pending,where:status = 'PENDING'" json:"receiver_id"`
	Receiver   *User     `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE;" json:"receiver,omitempty"`
	RoomID     uint      `gorm:"column:room_id;not null;index;uniqueIndex:idx_invitations_pending" json:"room_id"`
	Room       *Room     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE;" json:"room,omitempty"`
	Status     string    `gorm:"column:status;size:10;not null;default:'PENDING'" json:"status"` // PENDING | ACCEPTED | REJECTED
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Invitation) TableName() string {
	return "invitations"
}
