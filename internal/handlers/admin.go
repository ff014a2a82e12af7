package handlers

import (
	"party-game-backend/internal/database"
	"party-game-backend/internal/services"
	"party-game-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db         *gorm.DB
	admin      *services.AdminService
	rooms      *services.RoomService
	challenges *services.ChallengeService
	hub        *ws.Hub
}

func NewAdminHandler(db *gorm.DB, admin *services.AdminService, rooms *services.RoomService, challenges *services.ChallengeService, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{db: db, admin: admin, rooms: rooms, challenges: challenges, hub: hub}
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type AdminToggleRequest struct {
	Code string `json:"code"`
}

type AdminRejectRequest struct {
	PlayerChallengeID uint `json:"playerChallengeId"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		fail(c, services.ErrInvalidPassword)
		return
	}

	token, err := h.admin.Login(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"token": token})
}

// Toggle flips a room's pause switch; paused rooms serve no challenges.
func (h *AdminHandler) Toggle(c *gin.Context) {
	var req AdminToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidRoomCode)
		return
	}

	room, status, err := h.rooms.TogglePause(req.Code)
	if err != nil {
		fail(c, err)
		return
	}

	h.hub.BroadcastToRoom(room.ID, ws.WSMessage{Type: "game_status", Data: gin.H{"gameStatus": status}})
	ok(c, gin.H{"gameStatus": status})
}

// Reject is the moderation inverse of complete.
func (h *AdminHandler) Reject(c *gin.Context) {
	var req AdminRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerChallengeID == 0 {
		fail(c, services.ErrInvalidPlayerChallengeID)
		return
	}

	result, err := h.challenges.Reject(req.PlayerChallengeID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"points": result.Points, "rejectedNow": result.RejectedNow, "playerId": result.PlayerID})
}

func (h *AdminHandler) Seed(c *gin.Context) {
	inserted, err := database.SeedChallenges(h.db)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"inserted": inserted})
}
