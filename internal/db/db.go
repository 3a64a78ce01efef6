package db

import (
	"os"

	"github.com/amou-arta/ostadsanj3/internal/logger"
	"github.com/amou-arta/ostadsanj3/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=ostadsanj port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	logger.Info().Msg("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Professor{},
		&models.Review{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.DailyLimit{},
		&models.Evaluation{},
	)
	if err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info().Msg("Database migration completed")

	seedProfessors()
}

func seedProfessors() {
	var count int64
	DB.Model(&models.Professor{}).Count(&count)
	if count > 0 {
		logger.Info().Msg("Professors already seeded, skipping")
		return
	}

	professors := []models.Professor{
		{Name: "Sara Ahmadi", Department: "Computer Engineering", Title: "Associate Professor"},
		{Name: "Reza Karimi", Department: "Electrical Engineering", Title: "Professor"},
		{Name: "Maryam Hosseini", Department: "Mathematics", Title: "Assistant Professor"},
		{Name: "Ali Moradi", Department: "Physics", Title: "Associate Professor"},
	}

	for _, professor := range professors {
		if err := DB.Create(&professor).Error; err != nil {
			logger.Errorf("Failed to create professor %s: %v", professor.Name, err)
		}
	}
	logger.Info().Msg("Initial professors created successfully")
}
