package models

import "time"

// Player is a device identity. RoomID is nil when the player is not currently
// in a room (after an owner transfer-leave the row survives detached).
// CreatedAt doubles as the seniority order for ownership succession.
type Player struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    *uint     `gorm:"uniqueIndex:idx_room_nickname" json:"room_id"`
	Nickname  string    `gorm:"size:24;not null;uniqueIndex:idx_room_nickname" json:"nickname"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

type RoomMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	RoomID   uint      `gorm:"not null;uniqueIndex:idx_room_player" json:"room_id"`
	PlayerID uint      `gorm:"not null;uniqueIndex:idx_room_player" json:"player_id"`
	Role     string    `gorm:"size:10;not null;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)
