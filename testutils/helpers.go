package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/greenpoll/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory database migrated with models, or
// with every GreenPoll model when none are given.
func SetupTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Each connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(migrate) == 0 {
		migrate = models.All()
	}
	require.NoError(t, db.AutoMigrate(migrate...))

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username, email string, verified bool) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    email,
		Password: TestPasswordHash(t, TestPasswords.Valid),
		Verified: verified,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreatePoll(t *testing.T, db *gorm.DB, ownerID uint, title string, options ...string) (*models.Poll, []models.PollOption) {
	t.Helper()

	poll := &models.Poll{UserID: ownerID, Title: title}
	require.NoError(t, db.Create(poll).Error)

	created := make([]models.PollOption, 0, len(options))
	for _, value := range options {
		option := models.PollOption{PollID: poll.ID, Value: value}
		require.NoError(t, db.Create(&option).Error)
		created = append(created, option)
	}
	return poll, created
}

func CountRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var count int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&count).Error)
	return count
}
