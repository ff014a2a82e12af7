package services

import (
	"math/rand"
	"time"

	"party-game-backend/internal/models"

	"gorm.io/gorm"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type RoomService struct {
	db *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

// CreateRoom creates a scheduled room with its settings row. StartsAt is a
// placeholder until the owner presses start; EndsAt is always derived from it.
func (s *RoomService) CreateRoom(rounds int, name string) (*models.Room, error) {
	if rounds < models.MinRounds || rounds > models.MaxRounds {
		return nil, ErrInvalidRounds
	}

	now := time.Now().UTC()
	room := models.Room{
		Code:     s.generateUniqueCode(),
		Name:     name,
		Status:   models.RoomStatusScheduled,
		Rounds:   rounds,
		StartsAt: now,
		EndsAt:   now.Add(time.Duration(rounds) * models.RoundDuration),
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}

	settings := models.RoomSettings{
		RoomID:     room.ID,
		GameStatus: models.GameStatusRunning,
	}
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, err
	}

	return &room, nil
}

func (s *RoomService) GetRoomByCode(code string) (*models.Room, error) {
	normalized, err := NormalizeRoomCode(code)
	if err != nil {
		return nil, err
	}
	var room models.Room
	if err := s.db.Where("code = ?", normalized).First(&room).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

func (s *RoomService) GetSettings(roomID uint) (*models.RoomSettings, error) {
	var settings models.RoomSettings
	if err := s.db.Where("room_id = ?", roomID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// requireOwner resolves the room by code and checks that player is its owner
// and currently affiliated with it.
func (s *RoomService) requireOwner(player *models.Player, code string) (*models.Room, error) {
	room, err := s.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}
	if player.RoomID == nil || *player.RoomID != room.ID {
		return nil, ErrNotAllowed
	}

	var member models.RoomMember
	if err := s.db.Where("room_id = ? AND player_id = ?", room.ID, player.ID).
		First(&member).Error; err != nil {
		return nil, ErrNotAllowed
	}
	if member.Role != models.RoleOwner {
		return nil, ErrNotAllowed
	}
	return room, nil
}

type StartResult struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

// Start transitions the room to running, rebasing StartsAt to now and stamping
// the game-start marker that end-time computation prefers.
func (s *RoomService) Start(player *models.Player, code string) (*StartResult, error) {
	room, err := s.requireOwner(player, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rounds := clampRounds(room.Rounds)
	endsAt := now.Add(time.Duration(rounds) * models.RoundDuration)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
			"status":    models.RoomStatusRunning,
			"starts_at": now,
			"ends_at":   endsAt,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.RoomSettings{}).Where("room_id = ?", room.ID).
			Update("game_started_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	return &StartResult{StartsAt: now, EndsAt: endsAt}, nil
}

// SetRounds changes the round count, allowed only while the room is still
// scheduled. EndsAt is recomputed from the unchanged StartsAt.
func (s *RoomService) SetRounds(player *models.Player, code string, rounds int) (*models.Room, error) {
	room, err := s.requireOwner(player, code)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusScheduled {
		return nil, ErrNotAllowed
	}
	if rounds < models.MinRounds || rounds > models.MaxRounds {
		return nil, ErrInvalidRounds
	}

	room.Rounds = rounds
	room.EndsAt = room.StartsAt.Add(time.Duration(rounds) * models.RoundDuration)
	if err := s.db.Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
		"rounds":  room.Rounds,
		"ends_at": room.EndsAt,
	}).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// End force-ends the room regardless of elapsed time; the ranking freezes
// as-is.
func (s *RoomService) End(player *models.Player, code string) error {
	room, err := s.requireOwner(player, code)
	if err != nil {
		return err
	}
	return s.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", models.RoomStatusEnded).Error
}

func (s *RoomService) Rename(player *models.Player, code, name string) (*models.Room, error) {
	normalized, err := NormalizeRoomName(name)
	if err != nil {
		return nil, err
	}
	room, err := s.requireOwner(player, code)
	if err != nil {
		return nil, err
	}
	room.Name = normalized
	if err := s.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("name", normalized).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// TogglePause flips the room's challenge-serving switch. Admin action. The
// resolved room is returned alongside the new status so callers don't have to
// look it up again.
func (s *RoomService) TogglePause(code string) (*models.Room, string, error) {
	room, err := s.GetRoomByCode(code)
	if err != nil {
		return nil, "", err
	}
	settings, err := s.GetSettings(room.ID)
	if err != nil {
		return nil, "", err
	}

	next := models.GameStatusPaused
	if settings.GameStatus == models.GameStatusPaused {
		next = models.GameStatusRunning
	}
	if err := s.db.Model(&models.RoomSettings{}).Where("room_id = ?", room.ID).
		Update("game_status", next).Error; err != nil {
		return nil, "", err
	}
	return room, next, nil
}

// IsEndedAt reports whether the room counts as ended at the given instant:
// either its status is explicitly ended, or the configured duration has
// elapsed since the effective start. The game-start marker is authoritative;
// StartsAt is trusted only once the room is running (before that it is a
// creation-time placeholder).
func (s *RoomService) IsEndedAt(roomID uint, now time.Time) bool {
	room, err := s.GetRoom(roomID)
	if err != nil {
		return false
	}
	if room.Status == models.RoomStatusEnded {
		return true
	}

	var effectiveStart *time.Time
	if settings, err := s.GetSettings(roomID); err == nil && settings.GameStartedAt != nil {
		effectiveStart = settings.GameStartedAt
	} else if room.Status == models.RoomStatusRunning {
		t := room.StartsAt
		effectiveStart = &t
	}
	if effectiveStart == nil {
		return false
	}

	endsAt := effectiveStart.Add(time.Duration(clampRounds(room.Rounds)) * models.RoundDuration)
	return !now.Before(endsAt)
}

func (s *RoomService) IsEnded(roomID uint) bool {
	return s.IsEndedAt(roomID, time.Now().UTC())
}

type LeaderboardEntry struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
	Points   int    `json:"points"`
}

// Leaderboard ranks the room's players by points, with join time as the
// tie-break.
func (s *RoomService) Leaderboard(roomID uint) ([]LeaderboardEntry, error) {
	var players []models.Player
	if err := s.db.Where("room_id = ?", roomID).
		Order("points DESC").
		Order("created_at ASC").
		Limit(50).
		Find(&players).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{ID: p.ID, Nickname: p.Nickname, Points: p.Points}
	}
	return entries, nil
}

func (s *RoomService) generateUniqueCode() string {
	for {
		code := randomCode(6)
		var count int64
		s.db.Model(&models.Room{}).Where("code = ?", code).Count(&count)
		if count == 0 {
			return code
		}
	}
}

func randomCode(length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(out)
}

func clampRounds(rounds int) int {
	if rounds < models.MinRounds {
		return models.MinRounds
	}
	if rounds > models.MaxRounds {
		return models.MaxRounds
	}
	return rounds
}
