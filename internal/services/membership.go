package services

import (
	"errors"
	"time"

	"party-game-backend/internal/models"
	"party-game-backend/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type MembershipService struct {
	db       *gorm.DB
	rooms    *RoomService
	sessions *SessionService
	store    *storage.DiskStore
}

func NewMembershipService(db *gorm.DB, rooms *RoomService, sessions *SessionService, store *storage.DiskStore) *MembershipService {
	return &MembershipService{db: db, rooms: rooms, sessions: sessions, store: store}
}

type JoinResult struct {
	Room         *models.Room   `json:"room"`
	Player       *models.Player `json:"player"`
	SessionToken string         `json:"sessionToken"`
}

// CreateRoom creates a room with the caller as sole player and owner.
func (s *MembershipService) CreateRoom(nickname string, rounds int, roomName string) (*JoinResult, error) {
	nickname, err := ValidateNickname(nickname)
	if err != nil {
		return nil, err
	}
	name := ""
	if roomName != "" {
		if name, err = NormalizeRoomName(roomName); err != nil {
			return nil, err
		}
	}

	room, err := s.rooms.CreateRoom(rounds, name)
	if err != nil {
		return nil, err
	}

	player, err := s.addPlayer(room.ID, nickname, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("owner_player_id", player.ID).Error; err != nil {
		return nil, err
	}
	room.OwnerPlayerID = player.ID

	token, err := s.sessions.Create(player.ID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Room: room, Player: player, SessionToken: token}, nil
}

// Join adds a player to an existing room as a regular member.
func (s *MembershipService) Join(code, nickname string) (*JoinResult, error) {
	nickname, err := ValidateNickname(nickname)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}

	player, err := s.addPlayer(room.ID, nickname, models.RoleMember)
	if err != nil {
		return nil, err
	}
	token, err := s.sessions.Create(player.ID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Room: room, Player: player, SessionToken: token}, nil
}

// addPlayer creates the player and membership rows. Nickname uniqueness is
// scoped per room and enforced by the database's unique index; the constraint
// violation is translated rather than pre-checked.
func (s *MembershipService) addPlayer(roomID uint, nickname, role string) (*models.Player, error) {
	player := models.Player{
		RoomID:   &roomID,
		Nickname: nickname,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&player).Error; err != nil {
			return err
		}
		member := models.RoomMember{
			RoomID:   roomID,
			PlayerID: player.ID,
			Role:     role,
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrNicknameTaken
		}
		return nil, err
	}
	return &player, nil
}

// Leave removes the calling player entirely: assignments, media, sessions,
// membership and the player row. The room itself is untouched.
func (s *MembershipService) Leave(player *models.Player) error {
	s.removePlayerMedia(player.ID)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", player.ID).Delete(&models.PlayerChallenge{}).Error; err != nil {
			return err
		}
		if err := s.sessions.DeleteForPlayer(tx, player.ID); err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", player.ID).Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Player{}, player.ID).Error
	})
}

type TransferResult struct {
	Closed     bool `json:"closed"`
	NewOwnerID uint `json:"newOwnerId,omitempty"`
}

// LeaveWithTransfer is the owner's exit. With other players present,
// ownership passes to the earliest-joined survivor and the departing owner's
// player row is kept but detached (no room, points reset) so the same device
// identity can join another room without re-registering. With nobody left it
// degrades to a full room close.
func (s *MembershipService) LeaveWithTransfer(player *models.Player) (*TransferResult, error) {
	var member models.RoomMember
	if err := s.db.Where("player_id = ?", player.ID).First(&member).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	if member.Role != models.RoleOwner {
		return nil, ErrNotAllowed
	}
	roomID := member.RoomID

	var successor models.Player
	err := s.db.Where("room_id = ? AND id != ?", roomID, player.ID).
		Order("created_at ASC").
		First(&successor).Error
	if err != nil {
		// Close only when nobody is left. Any other lookup failure must not
		// tear down a populated room.
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.closeRoom(roomID); err != nil {
			return nil, err
		}
		return &TransferResult{Closed: true}, nil
	}

	s.removePlayerMedia(player.ID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RoomMember{}).
			Where("room_id = ? AND player_id = ?", roomID, successor.ID).
			Update("role", models.RoleOwner).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
			Update("owner_player_id", successor.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", player.ID).Delete(&models.PlayerChallenge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ? AND player_id = ?", roomID, player.ID).
			Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}
		// Soft leave: the identity row survives, detached from the room.
		return tx.Model(&models.Player{}).Where("id = ?", player.ID).
			Updates(map[string]interface{}{"room_id": nil, "points": 0}).Error
	})
	if err != nil {
		return nil, err
	}
	return &TransferResult{NewOwnerID: successor.ID}, nil
}

// Close is the owner's explicit full teardown of the room, any size.
func (s *MembershipService) Close(player *models.Player, code string) error {
	room, err := s.rooms.requireOwner(player, code)
	if err != nil {
		return err
	}
	return s.closeRoom(room.ID)
}

// closeRoom cascades the delete of everything the room owns. Media removal is
// best-effort and never blocks the database cleanup.
func (s *MembershipService) closeRoom(roomID uint) error {
	var playerIDs []uint
	if err := s.db.Model(&models.Player{}).Where("room_id = ?", roomID).
		Pluck("id", &playerIDs).Error; err != nil {
		return err
	}

	if len(playerIDs) > 0 {
		var paths []string
		s.db.Model(&models.PlayerChallenge{}).
			Where("player_id IN ? AND media_path != ''", playerIDs).
			Pluck("media_path", &paths)
		s.store.RemoveAll(paths)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(playerIDs) > 0 {
			if err := tx.Where("player_id IN ?", playerIDs).Delete(&models.PlayerChallenge{}).Error; err != nil {
				return err
			}
			if err := tx.Where("player_id IN ?", playerIDs).Delete(&models.PlayerSession{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.RoomSettings{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, roomID).Error
	})
}

func (s *MembershipService) removePlayerMedia(playerID uint) {
	var paths []string
	s.db.Model(&models.PlayerChallenge{}).
		Where("player_id = ? AND media_path != ''", playerID).
		Pluck("media_path", &paths)
	s.store.RemoveAll(paths)
}
