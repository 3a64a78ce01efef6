package services

import (
	"fmt"
	"testing"

	"github.com/amou-arta/ostadsanj3/internal/db"
	"github.com/amou-arta/ostadsanj3/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-global db.DB at a fresh in-memory
// sqlite database. The named DSN keeps the database alive across the
// pooled connections GORM opens.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Professor{},
		&models.Review{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.DailyLimit{},
		&models.Evaluation{},
	))

	db.DB = gdb
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := models.User{Username: "tester", Email: email, Password: "x"}
	require.NoError(t, db.DB.Create(&user).Error)
	return &user
}

func createTestProfessor(t *testing.T) *models.Professor {
	t.Helper()
	professor := models.Professor{Name: "Test Professor", Department: "Testing"}
	require.NoError(t, db.DB.Create(&professor).Error)
	return &professor
}
