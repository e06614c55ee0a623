package models

import "time"

type Room struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	HostID      *uint     `gorm:"column:host_id;index" json:"host_id"`
	Host        *User     `gorm:"foreignKey:HostID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"host,omitempty"`
	BookID      *uint     `gorm:"column:book_id;index" json:"book_id"`
	Book        *Book     `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"book,omitempty"`
	Name        string    `gorm:"column:name;size:200;not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Participants []User `gorm:"many2many:room_participants;constraint:OnDelete:CASCADE;" json:"participants,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}

// IsHost reports whether userID owns the room. A room whose host was removed has no owner.
func (r Room) IsHost(userID uint) bool {
	return r.HostID != nil && *r.HostID == userID
}
