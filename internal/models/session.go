package models

import "time"

// PlayerSession maps an opaque bearer token to a player. Tokens stay valid
// until the row is deleted (leave/close) or the optional TTL expires.
type PlayerSession struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PlayerID     uint      `gorm:"not null;index" json:"player_id"`
	SessionToken string    `gorm:"size:64;uniqueIndex;not null" json:"session_token"`
	CreatedAt    time.Time `json:"created_at"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}
