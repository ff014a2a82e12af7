package handlers

import (
	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload attaches a photo/video to one of the caller's assignments.
func (h *MediaHandler) Upload(c *gin.Context) {
	id, err := parseID(c.PostForm("playerChallengeId"), services.ErrInvalidPlayerChallengeID)
	if err != nil {
		fail(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		fail(c, services.ErrMissingFile)
		return
	}

	player := currentPlayer(c)
	info, err := h.media.Attach(player.ID, id, file)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"media": info})
}

func (h *MediaHandler) Get(c *gin.Context) {
	id, err := parseID(c.Query("playerChallengeId"), services.ErrInvalidPlayerChallengeID)
	if err != nil {
		fail(c, err)
		return
	}

	player := currentPlayer(c)
	info, err := h.media.Fetch(player.ID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"url": info.URL, "mime": info.Mime, "type": info.Type})
}

func (h *MediaHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Query("playerChallengeId"), services.ErrInvalidPlayerChallengeID)
	if err != nil {
		fail(c, err)
		return
	}

	player := currentPlayer(c)
	result, err := h.media.Delete(player.ID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"points": result.Points, "completionRevoked": result.CompletionRevoked})
}
