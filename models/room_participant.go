package models

import "time"

// RoomParticipant is the join row behind Room.Participants.
type RoomParticipant struct {
	RoomID   uint      `gorm:"column:room_id;primaryKey" json:"room_id"`
	UserID   uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (RoomParticipant) TableName() string {
	return "room_participants"
}
