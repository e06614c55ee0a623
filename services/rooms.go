package services

import (
	"errors"
	"strings"

	"github.com/vnkhanh/bookclub-server/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	newestFirst      = "created_at DESC, id DESC"
	roomsNewestFirst = "rooms.created_at DESC, rooms.updated_at DESC, rooms.id DESC"
)

type RoomInput struct {
	BookName    string
	Name        string
	Description string
}

type RoomDetail struct {
	Room         models.Room      `json:"room"`
	Messages     []models.Message `json:"messages"`
	Participants []models.User    `json:"participants"`
}

// GetOrCreateBook resolves a book by exact name, inserting it if absent.
// Concurrent callers with the same name end up with the same row.
func GetOrCreateBook(tx *gorm.DB, name string) (*models.Book, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(ErrValidation, "Book name is required.")
	}

	book := models.Book{Name: name}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&book)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 && book.ID != 0 {
		return &book, nil
	}

	book = models.Book{}
	if err := tx.Where("name = ?", name).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func ListBooks(db *gorm.DB) ([]models.Book, error) {
	books := []models.Book{}
	if err := db.Order("name ASC, id ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// CreateRoom creates a room for host, who becomes its first participant.
func CreateRoom(db *gorm.DB, host *models.User, in RoomInput) (*models.Room, error) {
	if err := requireActor(host); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(ErrValidation, "Room name is required.")
	}

	hostID := host.ID
	var room models.Room
	err := db.Transaction(func(tx *gorm.DB) error {
		book, err := GetOrCreateBook(tx, in.BookName)
		if err != nil {
			return err
		}

		room = models.Room{
			HostID:      &hostID,
			BookID:      &book.ID,
			Name:        name,
			Description: optionalText(in.Description),
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		return joinRoom(tx, room.ID, hostID)
	})
	if err != nil {
		return nil, err
	}

	return loadRoom(db, room.ID)
}

// UpdateRoom overwrites the book, name and description of a room. Host only.
func UpdateRoom(db *gorm.DB, actor *models.User, roomID uint, in RoomInput) (*models.Room, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}
		if !room.IsHost(actor.ID) {
			return newError(ErrPermission, "You are not allowed here!")
		}
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return newError(ErrValidation, "Room name is required.")
		}

		book, err := GetOrCreateBook(tx, in.BookName)
		if err != nil {
			return err
		}

		err = tx.Model(room).Updates(map[string]interface{}{
			"name":        name,
			"description": nullableText(in.Description),
			"book_id":     book.ID,
		}).Error
		if err != nil {
			return err
		}
		return joinRoom(tx, room.ID, actor.ID)
	})
	if err != nil {
		return nil, err
	}

	return loadRoom(db, roomID)
}

// DeleteRoom removes a room with its messages, invitations and participant rows. Host only.
func DeleteRoom(db *gorm.DB, actor *models.User, roomID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}
		if !room.IsHost(actor.ID) {
			return newError(ErrPermission, "You are not allowed here!")
		}

		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.RoomParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(room).Error
	})
}

// GetRoom returns a room with its messages (newest first) and participants.
func GetRoom(db *gorm.DB, roomID uint) (*RoomDetail, error) {
	room, err := loadRoom(db, roomID)
	if err != nil {
		return nil, err
	}

	messages := []models.Message{}
	if err := db.Preload("User").Where("room_id = ?", roomID).Order(newestFirst).Find(&messages).Error; err != nil {
		return nil, err
	}

	participants, err := Participants(db, roomID)
	if err != nil {
		return nil, err
	}

	return &RoomDetail{Room: *room, Messages: messages, Participants: participants}, nil
}

// Participants lists the members of a room in join order.
func Participants(db *gorm.DB, roomID uint) ([]models.User, error) {
	users := []models.User{}
	err := db.Model(&models.User{}).
		Joins("JOIN room_participants ON room_participants.user_id = users.id").
		Where("room_participants.room_id = ?", roomID).
		Order("room_participants.joined_at ASC, users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func IsParticipant(db *gorm.DB, roomID, userID uint) (bool, error) {
	var n int64
	err := db.Model(&models.RoomParticipant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error
	return n > 0, err
}

func joinRoom(tx *gorm.DB, roomID, userID uint) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RoomParticipant{RoomID: roomID, UserID: userID}).Error
}

func findRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Room not found.")
		}
		return nil, err
	}
	return &room, nil
}

func loadRoom(db *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := db.Preload("Host").Preload("Book").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Room not found.")
		}
		return nil, err
	}
	return &room, nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
