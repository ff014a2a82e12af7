package models

import "time"

// Challenge is a template from the global catalog. Templates own no room;
// assignment instantiates them per player and block.
type Challenge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
}

// PlayerChallenge is one assignment of a template to a player for a block.
// The set of rows for a (player, block_start) pair is fixed once created;
// only completion and media state mutate afterwards.
type PlayerChallenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PlayerID    uint      `gorm:"not null;uniqueIndex:idx_player_block_challenge" json:"player_id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_player_block_challenge" json:"challenge_id"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
	BlockStart  time.Time `gorm:"not null;uniqueIndex:idx_player_block_challenge;index" json:"block_start"`

	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	MediaPath       string     `gorm:"size:500" json:"media_path,omitempty"`
	MediaMime       string     `gorm:"size:100" json:"media_mime,omitempty"`
	MediaType       string     `gorm:"size:10" json:"media_type,omitempty"`
	MediaUploadedAt *time.Time `json:"media_uploaded_at,omitempty"`
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)
