package services

import (
	"log"
	"time"

	"party-game-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionService struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionService builds the resolver. ttlHours of 0 keeps tokens valid
// indefinitely, until the session row is deleted on leave/close.
func NewSessionService(db *gorm.DB, ttlHours int) *SessionService {
	return &SessionService{db: db, ttl: time.Duration(ttlHours) * time.Hour}
}

func (s *SessionService) Create(playerID uint) (string, error) {
	token := uuid.NewString()
	now := time.Now().UTC()
	session := models.PlayerSession{
		PlayerID:     playerID,
		SessionToken: token,
		CreatedAt:    now,
		LastSeenAt:   now,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", err
	}
	return token, nil
}

// ResolvePlayer maps a bearer token to its player and stamps the session's
// last-seen time. The heartbeat is best-effort: a failed update is logged,
// not surfaced.
func (s *SessionService) ResolvePlayer(token string) (*models.Player, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	var session models.PlayerSession
	if err := s.db.Where("session_token = ?", token).First(&session).Error; err != nil {
		return nil, ErrUnauthorized
	}

	if s.ttl > 0 && time.Since(session.LastSeenAt) > s.ttl {
		s.db.Delete(&models.PlayerSession{}, session.ID)
		return nil, ErrUnauthorized
	}

	var player models.Player
	if err := s.db.First(&player, session.PlayerID).Error; err != nil {
		return nil, ErrUnauthorized
	}

	if err := s.db.Model(&models.PlayerSession{}).
		Where("id = ?", session.ID).
		Update("last_seen_at", time.Now().UTC()).Error; err != nil {
		log.Printf("session heartbeat failed for player %d: %v", player.ID, err)
	}

	return &player, nil
}

func (s *SessionService) DeleteForPlayer(tx *gorm.DB, playerID uint) error {
	return tx.Where("player_id = ?", playerID).Delete(&models.PlayerSession{}).Error
}
