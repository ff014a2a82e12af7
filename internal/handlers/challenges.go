package handlers

import (
	"time"

	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	rooms        *services.RoomService
	challenges   *services.ChallengeService
	requireMedia bool
}

func NewChallengeHandler(rooms *services.RoomService, challenges *services.ChallengeService, requireMedia bool) *ChallengeHandler {
	return &ChallengeHandler{rooms: rooms, challenges: challenges, requireMedia: requireMedia}
}

// List returns the caller's challenge set for the current block.
func (h *ChallengeHandler) List(c *gin.Context) {
	view, err := h.challenges.CurrentBlock(currentPlayer(c), time.Now())
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"paused":         view.Paused,
		"blockStart":     view.BlockStart,
		"nextBlockInSec": view.NextBlockInSec,
	}
	if view.Ended {
		body["ended"] = true
	}
	if !view.Paused && !view.Ended {
		body["challenges"] = view.Challenges
	}
	ok(c, body)
}

type CompleteRequest struct {
	PlayerChallengeID uint `json:"playerChallengeId"`
}

func (h *ChallengeHandler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerChallengeID == 0 {
		fail(c, services.ErrInvalidPlayerChallengeID)
		return
	}

	player := currentPlayer(c)
	result, err := h.challenges.Complete(player.ID, req.PlayerChallengeID, h.requireMedia)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"points": result.Points, "completedNow": result.CompletedNow})
}

func (h *ChallengeHandler) Me(c *gin.Context) {
	ok(c, gin.H{"player": currentPlayer(c)})
}

func (h *ChallengeHandler) Leaderboard(c *gin.Context) {
	player := currentPlayer(c)
	if player.RoomID == nil {
		fail(c, services.ErrRoomNotFound)
		return
	}

	leaders, err := h.rooms.Leaderboard(*player.RoomID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"leaders": leaders})
}
