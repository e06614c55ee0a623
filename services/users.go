package services

import (
	"errors"
	"strings"

	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/utils"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string
	Username string
	Password string
	Name     string
}

// ProfileInput carries a partial profile update; nil fields are left unchanged.
type ProfileInput struct {
	Name     *string
	Username *string
	Email    *string
	Bio      *string
	Avatar   *string
}

type Profile struct {
	User               models.User         `json:"user"`
	Rooms              []models.Room       `json:"rooms"`
	Messages           []models.Message    `json:"messages"`
	Books              []models.Book       `json:"books"`
	PendingInvitations []models.Invitation `json:"pending_invitations"`
}

func RegisterUser(db *gorm.DB, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if email == "" || username == "" || in.Password == "" {
		return nil, newError(ErrValidation, "Email, username and password are required.")
	}

	if err := ensureIdentityFree(db, email, username, 0); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		Email:    email,
		Username: username,
		Name:     optionalText(in.Name),
		Avatar:   models.DefaultAvatar,
		Password: hash,
	}
	if err := db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(ErrConflict, "Email or username already taken.")
		}
		return nil, err
	}
	return &u, nil
}

// Authenticate checks credentials. Unknown email and wrong password fail the same way.
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var u models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrAuthentication, "Incorrect email or password.")
		}
		return nil, err
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, newError(ErrAuthentication, "Incorrect email or password.")
	}
	return &u, nil
}

func GetUser(db *gorm.DB, userID uint) (*models.User, error) {
	var u models.User
	if err := db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "User not found.")
		}
		return nil, err
	}
	return &u, nil
}

// UserProfile gathers a user's hosted rooms and messages. Pending invitations are only
// included when viewer is the profile owner.
func UserProfile(db *gorm.DB, viewer *models.User, userID uint) (*Profile, error) {
	u, err := GetUser(db, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		User:     *u,
		Rooms:    []models.Room{},
		Messages: []models.Message{},
	}

	err = db.Preload("Host").Preload("Book").
		Where("host_id = ?", userID).
		Order(roomsNewestFirst).
		Find(&p.Rooms).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("Room").
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&p.Messages).Error
	if err != nil {
		return nil, err
	}

	if p.Books, err = ListBooks(db); err != nil {
		return nil, err
	}
	if p.PendingInvitations, err = PendingInvitations(db, viewer, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile applies in to the target user. Users may only edit themselves.
func UpdateProfile(db *gorm.DB, actor *models.User, targetID uint, in ProfileInput) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.ID != targetID {
		return nil, newError(ErrPermission, "You are not allowed here!")
	}

	updates := map[string]interface{}{}
	var email, username string
	if in.Email != nil {
		if email = normalizeEmail(*in.Email); email == "" {
			return nil, newError(ErrValidation, "Email cannot be empty.")
		}
		updates["email"] = email
	}
	if in.Username != nil {
		if username = strings.ToLower(strings.TrimSpace(*in.Username)); username == "" {
			return nil, newError(ErrValidation, "Username cannot be empty.")
		}
		updates["username"] = username
	}
	if in.Name != nil {
		updates["name"] = nullableText(*in.Name)
	}
	if in.Bio != nil {
		updates["bio"] = nullableText(*in.Bio)
	}
	if in.Avatar != nil {
		avatar := strings.TrimSpace(*in.Avatar)
		if avatar == "" {
			avatar = models.DefaultAvatar
		}
		updates["avatar"] = avatar
	}

	if err := ensureIdentityFree(db, email, username, targetID); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		err := db.Model(&models.User{}).Where("id = ?", targetID).Updates(updates).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, newError(ErrConflict, "Email or username already taken.")
			}
			return nil, err
		}
	}
	return GetUser(db, targetID)
}

// ensureIdentityFree reports a conflict if another user (not exceptID) already owns email or
// username. Empty values are not checked.
func ensureIdentityFree(db *gorm.DB, email, username string, exceptID uint) error {
	if email == "" && username == "" {
		return nil
	}

	q := db.Model(&models.User{}).Where("id <> ?", exceptID)
	switch {
	case email != "" && username != "":
		q = q.Where("email = ? OR username = ?", email, username)
	case email != "":
		q = q.Where("email = ?", email)
	default:
		q = q.Where("username = ?", username)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return newError(ErrConflict, "Email or username already taken.")
	}
	return nil
}

func nullableText(s string) interface{} {
	if p := optionalText(s); p != nil {
		return *p
	}
	return nil
}
