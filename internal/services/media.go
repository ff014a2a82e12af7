package services

import (
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"party-game-backend/internal/models"
	"party-game-backend/internal/storage"

	"gorm.io/gorm"
)

const MaxMediaBytes = 500 << 20

type MediaService struct {
	db    *gorm.DB
	store *storage.DiskStore
}

func NewMediaService(db *gorm.DB, store *storage.DiskStore) *MediaService {
	return &MediaService{db: db, store: store}
}

type MediaInfo struct {
	URL  string `json:"url"`
	Mime string `json:"mime"`
	Type string `json:"type"`
}

// Attach stores an upload for the caller's assignment and records the pointer
// on the row. Re-uploading replaces the previous object (same path layout, so
// the old file is overwritten or removed first).
func (s *MediaService) Attach(playerID, playerChallengeID uint, file *multipart.FileHeader) (*MediaInfo, error) {
	if file == nil {
		return nil, ErrMissingFile
	}
	if file.Size <= 0 || file.Size > MaxMediaBytes {
		return nil, ErrFileTooLarge
	}

	mime := file.Header.Get("Content-Type")
	mediaType, err := mediaTypeFromMime(mime)
	if err != nil {
		return nil, err
	}

	var pc models.PlayerChallenge
	if err := s.db.Where("id = ? AND player_id = ?", playerChallengeID, playerID).
		First(&pc).Error; err != nil {
		return nil, ErrNotAllowed
	}

	if pc.MediaPath != "" {
		s.store.Remove(pc.MediaPath)
	}

	relPath := fmt.Sprintf("%d/%s/%d%s",
		playerID, pc.BlockStart.UTC().Format(time.RFC3339), pc.ID, extFromMime(mime))

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	if err := s.store.Save(relPath, src); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.db.Model(&models.PlayerChallenge{}).Where("id = ?", pc.ID).
		Updates(map[string]interface{}{
			"media_path":        relPath,
			"media_mime":        mime,
			"media_type":        mediaType,
			"media_uploaded_at": now,
		}).Error; err != nil {
		return nil, err
	}

	return &MediaInfo{URL: ServeURL(relPath), Mime: mime, Type: mediaType}, nil
}

// Fetch returns the serve URL for the caller's own attached media.
func (s *MediaService) Fetch(playerID, playerChallengeID uint) (*MediaInfo, error) {
	var pc models.PlayerChallenge
	if err := s.db.First(&pc, playerChallengeID).Error; err != nil {
		return nil, ErrNotAllowed
	}
	if pc.PlayerID != playerID {
		return nil, ErrNotAllowed
	}
	if pc.MediaPath == "" {
		return nil, ErrNoMedia
	}
	return &MediaInfo{URL: ServeURL(pc.MediaPath), Mime: pc.MediaMime, Type: pc.MediaType}, nil
}

type DeleteMediaResult struct {
	Points            int  `json:"points"`
	CompletionRevoked bool `json:"completionRevoked"`
}

// Delete is a compensating sequence: remove the stored object (best-effort),
// clear the pointer, and if the assignment had been completed on the strength
// of that media, roll the completion and its point back too.
func (s *MediaService) Delete(playerID, playerChallengeID uint) (*DeleteMediaResult, error) {
	var pc models.PlayerChallenge
	if err := s.db.Where("id = ? AND player_id = ?", playerChallengeID, playerID).
		First(&pc).Error; err != nil {
		return nil, ErrNotAllowed
	}
	if pc.MediaPath == "" {
		return nil, ErrNoMedia
	}

	s.store.Remove(pc.MediaPath)

	result := &DeleteMediaResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PlayerChallenge{}).Where("id = ?", pc.ID).
			Updates(map[string]interface{}{
				"media_path":        "",
				"media_mime":        "",
				"media_type":        "",
				"media_uploaded_at": nil,
			}).Error; err != nil {
			return err
		}

		res := tx.Model(&models.PlayerChallenge{}).
			Where("id = ? AND completed = true", pc.ID).
			Updates(map[string]interface{}{
				"completed":    false,
				"completed_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			result.CompletionRevoked = true
			if err := tx.Model(&models.Player{}).Where("id = ?", playerID).
				Update("points", gorm.Expr("points - ?", PointsPerChallenge)).Error; err != nil {
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

// ServeURL maps a stored path to its static serve route.
func ServeURL(relPath string) string {
	return "/uploads/" + relPath
}

func mediaTypeFromMime(mime string) (string, error) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaTypeImage, nil
	case strings.HasPrefix(mime, "video/"):
		return models.MediaTypeVideo, nil
	default:
		return "", ErrInvalidFileType
	}
}

func extFromMime(mime string) string {
	if _, sub, ok := strings.Cut(mime, "/"); ok && sub != "" {
		return "." + path.Base(sub)
	}
	return ""
}
