package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	RoomID    uint      `gorm:"column:room_id;not null;index" json:"room_id"`
	Room      *Room     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE;" json:"room,omitempty"`
	Body      string    `gorm:"column:body;type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Preview string `gorm:"-" json:"preview"`
}

func (Message) TableName() string {
	return "messages"
}

// Summary returns at most the first 50 characters of the body.
func (m Message) Summary() string {
	r := []rune(m.Body)
	if len(r) > 50 {
		return string(r[:50])
	}
	return m.Body
}

func (m *Message) AfterFind(tx *gorm.DB) error {
	m.Preview = m.Summary()
	return nil
}

func (m *Message) AfterCreate(tx *gorm.DB) error {
	m.Preview = m.Summary()
	return nil
}
