package services

import (
	"time"

	"party-game-backend/internal/models"

	"gorm.io/gorm"
)

// FinalService serves the end-of-game views. Everything here is read-only and
// gated on the room being ended, explicitly or by elapsed time.
type FinalService struct {
	db    *gorm.DB
	rooms *RoomService
}

func NewFinalService(db *gorm.DB, rooms *RoomService) *FinalService {
	return &FinalService{db: db, rooms: rooms}
}

type FinalSummary struct {
	RoomName string             `json:"roomName,omitempty"`
	Leaders  []LeaderboardEntry `json:"leaders"`
}

func (s *FinalService) Summary(player *models.Player) (*FinalSummary, error) {
	roomID, err := s.endedRoomID(player)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	leaders, err := s.rooms.Leaderboard(roomID)
	if err != nil {
		return nil, err
	}
	return &FinalSummary{RoomName: room.Name, Leaders: leaders}, nil
}

type FinalMediaEntry struct {
	ID          uint           `json:"id"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Player      *models.Player `json:"player,omitempty"`
	Media       *MediaInfo     `json:"media,omitempty"`
}

type FinalChallenge struct {
	Challenge *models.Challenge `json:"challenge"`
	Media     []FinalMediaEntry `json:"media"`
}

// ChallengeMedia collects every room player's media for one template, newest
// completion first.
func (s *FinalService) ChallengeMedia(player *models.Player, challengeID uint) (*FinalChallenge, error) {
	roomID, err := s.endedRoomID(player)
	if err != nil {
		return nil, err
	}

	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		return nil, ErrNotFound
	}

	var playerIDs []uint
	if err := s.db.Model(&models.Player{}).Where("room_id = ?", roomID).
		Pluck("id", &playerIDs).Error; err != nil {
		return nil, err
	}
	if len(playerIDs) == 0 {
		return &FinalChallenge{Challenge: &challenge, Media: []FinalMediaEntry{}}, nil
	}

	var rows []models.PlayerChallenge
	if err := s.db.Where("challenge_id = ? AND player_id IN ? AND media_path != ''", challengeID, playerIDs).
		Order("completed_at DESC NULLS LAST").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	var players []models.Player
	if err := s.db.Where("id IN ?", playerIDs).Find(&players).Error; err != nil {
		return nil, err
	}
	playersByID := make(map[uint]models.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	media := make([]FinalMediaEntry, 0, len(rows))
	for _, row := range rows {
		entry := FinalMediaEntry{
			ID:          row.ID,
			CompletedAt: row.CompletedAt,
			Media:       &MediaInfo{URL: ServeURL(row.MediaPath), Mime: row.MediaMime, Type: row.MediaType},
		}
		if p, ok := playersByID[row.PlayerID]; ok {
			entry.Player = &p
		}
		media = append(media, entry)
	}

	return &FinalChallenge{Challenge: &challenge, Media: media}, nil
}

func (s *FinalService) endedRoomID(player *models.Player) (uint, error) {
	if player.RoomID == nil {
		return 0, ErrRoomNotFound
	}
	roomID := *player.RoomID
	if !s.rooms.IsEnded(roomID) {
		return 0, ErrGameNotEnded
	}
	return roomID, nil
}
