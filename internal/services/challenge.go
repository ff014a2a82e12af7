package services

import (
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"party-game-backend/internal/models"
	"party-game-backend/internal/storage"
	"party-game-backend/internal/timeblock"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// Challenges assigned per player per block.
	ChallengesPerBlock = 3

	// Templates seen in this many previous blocks are not reassigned.
	recencyBlocks = 6

	// Points awarded on the first completion of an assignment.
	PointsPerChallenge = 1
)

type ChallengeService struct {
	db    *gorm.DB
	rooms *RoomService
	store *storage.DiskStore
}

func NewChallengeService(db *gorm.DB, rooms *RoomService, store *storage.DiskStore) *ChallengeService {
	return &ChallengeService{db: db, rooms: rooms, store: store}
}

// BlockView is the player's view of the current half-hour block. Paused and
// ended rooms expose the countdown but withhold the challenge rows.
type BlockView struct {
	Paused         bool                `json:"paused"`
	Ended          bool                `json:"ended,omitempty"`
	BlockStart     time.Time           `json:"blockStart"`
	NextBlockInSec int                 `json:"nextBlockInSec"`
	Challenges     []AssignedChallenge `json:"challenges,omitempty"`
}

// CurrentBlock gates assignment on the room's state: a paused room serves no
// challenges, an ended room reports so instead of erroring, and only a live
// room gets (or creates) its assignment set.
func (s *ChallengeService) CurrentBlock(player *models.Player, now time.Time) (*BlockView, error) {
	if player.RoomID == nil {
		return nil, ErrRoomNotFound
	}
	roomID := *player.RoomID
	now = now.UTC()

	view := &BlockView{
		BlockStart:     timeblock.BlockStart(now),
		NextBlockInSec: timeblock.SecondsToNextBlock(now),
	}

	settings, err := s.rooms.GetSettings(roomID)
	if err != nil {
		return nil, err
	}
	if settings.GameStatus == models.GameStatusPaused {
		view.Paused = true
		return view, nil
	}

	if s.rooms.IsEndedAt(roomID, now) {
		view.Ended = true
		return view, nil
	}

	assigned, err := s.AssignForBlock(player.ID, view.BlockStart)
	if err != nil {
		return nil, err
	}
	view.Challenges = assigned
	return view, nil
}

type AssignedChallenge struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	HasMedia    bool   `json:"hasMedia"`
}

// AssignForBlock returns the player's challenge set for the given block,
// creating it on first call. Repeat calls within the same block return the
// same assignment rows; only completion and media state may differ. Template
// selection is seeded from (player, block) so concurrent first fetches pick
// the same set, and the unique index on (player_id, challenge_id, block_start)
// backstops the race.
func (s *ChallengeService) AssignForBlock(playerID uint, blockStart time.Time) ([]AssignedChallenge, error) {
	blockStart = blockStart.UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PlayerChallenge{}).
			Where("player_id = ? AND block_start = ?", playerID, blockStart).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		picks, err := s.pickTemplates(tx, playerID, blockStart)
		if err != nil {
			return err
		}
		for _, challengeID := range picks {
			pc := models.PlayerChallenge{
				PlayerID:    playerID,
				ChallengeID: challengeID,
				BlockStart:  blockStart,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var rows []models.PlayerChallenge
	if err := s.db.Preload("Challenge").
		Where("player_id = ? AND block_start = ?", playerID, blockStart).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	assigned := make([]AssignedChallenge, len(rows))
	for i, row := range rows {
		assigned[i] = AssignedChallenge{
			ID:          row.ID,
			Title:       row.Challenge.Title,
			Description: row.Challenge.Description,
			Completed:   row.Completed,
			HasMedia:    row.MediaPath != "",
		}
	}
	return assigned, nil
}

// pickTemplates chooses up to ChallengesPerBlock template ids the player has
// not seen in the recency window. If exclusion leaves too few candidates the
// window is ignored rather than under-assigning.
func (s *ChallengeService) pickTemplates(tx *gorm.DB, playerID uint, blockStart time.Time) ([]uint, error) {
	windowStart := blockStart.Add(-recencyBlocks * models.RoundDuration)

	var recent []uint
	if err := tx.Model(&models.PlayerChallenge{}).
		Where("player_id = ? AND block_start >= ? AND block_start < ?", playerID, windowStart, blockStart).
		Pluck("challenge_id", &recent).Error; err != nil {
		return nil, err
	}

	var candidates []uint
	q := tx.Model(&models.Challenge{})
	if len(recent) > 0 {
		q = q.Where("id NOT IN ?", recent)
	}
	if err := q.Pluck("id", &candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) < ChallengesPerBlock {
		candidates = candidates[:0]
		if err := tx.Model(&models.Challenge{}).Pluck("id", &candidates).Error; err != nil {
			return nil, err
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	rng := rand.New(rand.NewSource(assignmentSeed(playerID, blockStart)))
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > ChallengesPerBlock {
		candidates = candidates[:ChallengesPerBlock]
	}
	return candidates, nil
}

func assignmentSeed(playerID uint, blockStart time.Time) int64 {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(uint64(playerID) >> (8 * i))
		buf[8+i] = byte(uint64(blockStart.Unix()) >> (8 * i))
	}
	h.Write(buf[:])
	return int64(h.Sum64())
}

type CompleteResult struct {
	Points       int  `json:"points"`
	CompletedNow bool `json:"completedNow"`
}

// Complete marks an assignment done and awards its point, at most once.
// Repeat calls are no-ops that report the current total. The award rides on
// the conditional update's row count, so two racing calls cannot both score.
func (s *ChallengeService) Complete(playerID, playerChallengeID uint, requireMedia bool) (*CompleteResult, error) {
	result := &CompleteResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pc models.PlayerChallenge
		if err := tx.Where("id = ? AND player_id = ?", playerChallengeID, playerID).
			First(&pc).Error; err != nil {
			return ErrNotFound
		}

		if !pc.Completed && requireMedia && pc.MediaPath == "" {
			return ErrMediaRequired
		}

		now := time.Now().UTC()
		res := tx.Model(&models.PlayerChallenge{}).
			Where("id = ? AND player_id = ? AND completed = false", playerChallengeID, playerID).
			Updates(map[string]interface{}{
				"completed":    true,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			result.CompletedNow = true
			if err := tx.Model(&models.Player{}).Where("id = ?", playerID).
				Update("points", gorm.Expr("points + ?", PointsPerChallenge)).Error; err != nil {
				return err
			}
		}

		var player models.Player
		if err := tx.First(&player, playerID).Error; err != nil {
			return err
		}
		result.Points = player.Points
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type RejectResult struct {
	Points      int  `json:"points"`
	RejectedNow bool `json:"rejectedNow"`
	PlayerID    uint `json:"playerId"`
}

// Reject is the moderation inverse of Complete: it takes the point back and
// clears completion and media, idempotently. Only completed assignments are
// affected; rejecting an incomplete one is a no-op.
func (s *ChallengeService) Reject(playerChallengeID uint) (*RejectResult, error) {
	result := &RejectResult{}
	var mediaPath string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pc models.PlayerChallenge
		if err := tx.First(&pc, playerChallengeID).Error; err != nil {
			return ErrNotFound
		}
		result.PlayerID = pc.PlayerID
		mediaPath = pc.MediaPath

		res := tx.Model(&models.PlayerChallenge{}).
			Where("id = ? AND completed = true", playerChallengeID).
			Updates(map[string]interface{}{
				"completed":         false,
				"completed_at":      nil,
				"media_path":        "",
				"media_mime":        "",
				"media_type":        "",
				"media_uploaded_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			result.RejectedNow = true
			if err := tx.Model(&models.Player{}).Where("id = ?", pc.PlayerID).
				Update("points", gorm.Expr("points - ?", PointsPerChallenge)).Error; err != nil {
				return err
			}
		}

		var player models.Player
		if err := tx.First(&player, pc.PlayerID).Error; err != nil {
			return err
		}
		result.Points = player.Points
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.RejectedNow && mediaPath != "" {
		s.store.Remove(mediaPath)
	}
	return result, nil
}
