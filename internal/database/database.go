package database

import (
	"fmt"
	"log"

	"party-game-backend/internal/config"
	"party-game-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	// Nickname uniqueness used to be global; it is scoped per room now.
	db.Exec("DROP INDEX IF EXISTS idx_players_nickname")

	err := db.AutoMigrate(
		&models.Room{},
		&models.RoomSettings{},
		&models.Player{},
		&models.RoomMember{},
		&models.PlayerSession{},
		&models.Challenge{},
		&models.PlayerChallenge{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}
