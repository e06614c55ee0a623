package services

import (
	"strings"

	"github.com/vnkhanh/bookclub-server/models"
	"gorm.io/gorm"
)

type HomeFeed struct {
	Query     string           `json:"q"`
	Rooms     []models.Room    `json:"rooms"`
	Books     []models.Book    `json:"books"`
	RoomCount int64            `json:"room_count"`
	Messages  []models.Message `json:"messages"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Home returns rooms whose book name contains q (case-insensitive), all books, and the
// messages posted in the matching rooms. An empty q matches every room.
func Home(db *gorm.DB, q string) (*HomeFeed, error) {
	q = strings.TrimSpace(q)
	feed := &HomeFeed{
		Query:    q,
		Rooms:    []models.Room{},
		Messages: []models.Message{},
	}

	query := db.Model(&models.Room{}).Preload("Host").Preload("Book")
	if q != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		books := db.Model(&models.Book{}).Select("id").Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
		query = query.Where("book_id IN (?)", books)
	}
	if err := query.Order(roomsNewestFirst).Find(&feed.Rooms).Error; err != nil {
		return nil, err
	}
	feed.RoomCount = int64(len(feed.Rooms))

	books, err := ListBooks(db)
	if err != nil {
		return nil, err
	}
	feed.Books = books

	if len(feed.Rooms) == 0 {
		return feed, nil
	}
	ids := make([]uint, 0, len(feed.Rooms))
	for _, r := range feed.Rooms {
		ids = append(ids, r.ID)
	}
	err = db.Preload("User").Preload("Room").
		Where("room_id IN ?", ids).
		Order(newestFirst).
		Find(&feed.Messages).Error
	if err != nil {
		return nil, err
	}
	return feed, nil
}
