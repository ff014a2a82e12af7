package models

import "time"

type Room struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"size:40" json:"name,omitempty"`
	Status        string    `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Rounds        int       `gorm:"not null;default:1" json:"rounds"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	OwnerPlayerID uint      `gorm:"default:0" json:"owner_player_id"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	RoomStatusScheduled = "scheduled"
	RoomStatusRunning   = "running"
	RoomStatusEnded     = "ended"

	MinRounds = 1
	MaxRounds = 10

	// One round is a fixed 30-minute block.
	RoundDuration = 30 * time.Minute
)

// RoomSettings carries per-room game state that changes independently of the
// room row: the pause switch and the authoritative game-start marker set when
// the owner actually presses start (StartsAt is a placeholder until then).
type RoomSettings struct {
	RoomID        uint       `gorm:"primaryKey" json:"room_id"`
	GameStatus    string     `gorm:"size:20;not null;default:'running'" json:"game_status"`
	GameStartedAt *time.Time `json:"game_started_at,omitempty"`
}

const (
	GameStatusRunning = "running"
	GameStatusPaused  = "paused"
)
