// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/bookclub-server/config"
	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database.
// The pool is pinned to a single connection so every query sees the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// CreateUser inserts a user whose email is <username>@example.com and password "password123".
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	u := models.User{
		Email:    fmt.Sprintf("%s@example.com", username),
		Username: username,
		Avatar:   models.DefaultAvatar,
		Password: hash,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}
