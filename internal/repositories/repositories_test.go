package repositories

import (
	"path/filepath"
	"testing"

	"contacts_backend/database"
	"contacts_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, PasswordHash: "hash", Subscription: models.SubscriptionStarter}
	require.NoError(t, NewUserRepository().Create(db, user))
	return user
}
