package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/testutil"
)

func roomNames(rooms []models.Room) []string {
	names := make([]string, 0, len(rooms))
	for _, r := range rooms {
		names = append(names, r.Name)
	}
	return names
}

func TestHomeFiltersByBookName(t *testing.T) {
	db := testutil.NewDB(t)
	host := testutil.CreateUser(t, db, "host")

	dune, err := CreateRoom(db, &host, RoomInput{BookName: "Dune", Name: "dune-1"})
	require.NoError(t, err)
	_, err = CreateRoom(db, &host, RoomInput{BookName: "Emma", Name: "emma-1"})
	require.NoError(t, err)
	messiah, err := CreateRoom(db, &host, RoomInput{BookName: "Dune Messiah", Name: "dune-2"})
	require.NoError(t, err)

	_, err = PostMessage(db, &host, dune.ID, "on dune")
	require.NoError(t, err)
	_, err = PostMessage(db, &host, messiah.ID, "on messiah")
	require.NoError(t, err)

	t.Run("empty query matches all", func(t *testing.T) {
		feed, err := Home(db, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"dune-2", "emma-1", "dune-1"}, roomNames(feed.Rooms))
		assert.Equal(t, int64(3), feed.RoomCount)
		assert.Len(t, feed.Books, 3)
		assert.Len(t, feed.Messages, 2)
	})

	t.Run("case-insensitive substring", func(t *testing.T) {
		feed, err := Home(db, "dUnE")
		require.NoError(t, err)
		assert.Equal(t, []string{"dune-2", "dune-1"}, roomNames(feed.Rooms))
		assert.Equal(t, int64(2), feed.RoomCount)
		assert.Len(t, feed.Books, 3)

		require.Len(t, feed.Messages, 2)
		assert.Equal(t, "on messiah", feed.Messages[0].Body)
		assert.Equal(t, "on messiah", feed.Messages[0].Preview)
		require.NotNil(t, feed.Messages[0].Room)
		require.NotNil(t, feed.Messages[0].User)
	})

	t.Run("no match", func(t *testing.T) {
		feed, err := Home(db, "Ulysses")
		require.NoError(t, err)
		assert.Empty(t, feed.Rooms)
		assert.Empty(t, feed.Messages)
		assert.Zero(t, feed.RoomCount)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		feed, err := Home(db, "%")
		require.NoError(t, err)
		assert.Empty(t, feed.Rooms)
	})
}

func TestHomeExcludesRoomsWithoutBookWhenFiltering(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.Room{Name: "bookless"}).Error)

	all, err := Home(db, "  ")
	require.NoError(t, err)
	assert.Len(t, all.Rooms, 1)

	filtered, err := Home(db, "a")
	require.NoError(t, err)
	assert.Empty(t, filtered.Rooms)
}
