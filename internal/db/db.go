package db

import (
	"log"
	"os"
	"resourcehub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=resourcehub port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	// TranslateError surfaces unique violations as gorm.ErrDuplicatedKey so
	// handlers can report them as conflicts instead of generic failures.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate. Key must precede VoteInformation for the FK constraint.
	err = DB.AutoMigrate(
		&models.Key{},
		&models.Category{},
		&models.Language{},
		&models.Resource{},
		&models.VoteInformation{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}
