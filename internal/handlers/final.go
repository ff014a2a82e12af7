package handlers

import (
	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Final endpoints are only reachable once the room counts as ended.
type FinalHandler struct {
	final *services.FinalService
}

func NewFinalHandler(final *services.FinalService) *FinalHandler {
	return &FinalHandler{final: final}
}

func (h *FinalHandler) Summary(c *gin.Context) {
	summary, err := h.final.Summary(currentPlayer(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"roomName": summary.RoomName, "leaders": summary.Leaders})
}

func (h *FinalHandler) Challenge(c *gin.Context) {
	id, err := parseID(c.Query("challengeId"), services.ErrInvalidChallengeID)
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.final.ChallengeMedia(currentPlayer(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"challenge": result.Challenge, "media": result.Media})
}
