package database

import (
	"log"

	"party-game-backend/internal/models"

	"gorm.io/gorm"
)

var defaultChallenges = []models.Challenge{
	{Title: "Group selfie", Description: "Take a selfie with at least three other people in frame."},
	{Title: "Something blue", Description: "Photograph the most unusual blue object you can find."},
	{Title: "Mirror shot", Description: "Take a photo of yourself using only a reflection."},
	{Title: "Slow-mo cheers", Description: "Record a slow-motion video of a toast."},
	{Title: "Stranger's pet", Description: "Get a photo with an animal that is not yours."},
	{Title: "Worm's-eye view", Description: "Shoot a photo from ground level looking straight up."},
	{Title: "Twin outfits", Description: "Find someone dressed like you and take a photo together."},
	{Title: "Freeze frame", Description: "Record a video where everyone in frame holds perfectly still for five seconds."},
	{Title: "Hidden letter", Description: "Photograph an object that naturally forms a letter of the alphabet."},
	{Title: "Shadow puppet", Description: "Record a shadow-puppet performance of an animal."},
	{Title: "Three generations", Description: "Take a photo of three objects from three different decades."},
	{Title: "Air guitar", Description: "Record a ten-second air guitar solo, commitment mandatory."},
	{Title: "Color gradient", Description: "Photograph five objects arranged from lightest to darkest."},
	{Title: "Dramatic reading", Description: "Record a dramatic reading of the nearest piece of packaging text."},
	{Title: "Highest point", Description: "Take a photo from the highest spot you can safely reach."},
}

// SeedChallenges inserts any catalog entries not present yet, matched by
// title. Safe to call repeatedly.
func SeedChallenges(db *gorm.DB) (inserted int, err error) {
	for _, c := range defaultChallenges {
		var count int64
		if err := db.Model(&models.Challenge{}).Where("title = ?", c.Title).Count(&count).Error; err != nil {
			return inserted, err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	if inserted > 0 {
		log.Printf("seeded %d challenge templates", inserted)
	}
	return inserted, nil
}
