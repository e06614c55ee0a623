package models

import "time"

const DefaultAvatar = "avatar.svg"

type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"column:email;size:254;uniqueIndex;not null" json:"-"` // login identity, see Account
	Username  string    `gorm:"column:username;size:150;uniqueIndex;not null" json:"username"`
	Name      *string   `gorm:"column:name;size:200" json:"name"`
	Bio       *string   `gorm:"column:bio;type:text" json:"bio"`
	Avatar    string    `gorm:"column:avatar;size:255;default:'avatar.svg'" json:"avatar"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Account is the owner's own view of a user. Embedded users elsewhere omit the email.
type Account struct {
	*User
	Email string `json:"email"`
}

func (u *User) Account() Account {
	return Account{User: u, Email: u.Email}
}
