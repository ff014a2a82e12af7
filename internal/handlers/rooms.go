package handlers

import (
	"net/http"

	"party-game-backend/internal/middleware"
	"party-game-backend/internal/services"
	"party-game-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

const sessionCookieMaxAge = 60 * 60 * 24 * 30

type RoomHandler struct {
	rooms      *services.RoomService
	membership *services.MembershipService
	hub        *ws.Hub
}

func NewRoomHandler(rooms *services.RoomService, membership *services.MembershipService, hub *ws.Hub) *RoomHandler {
	return &RoomHandler{rooms: rooms, membership: membership, hub: hub}
}

type CreateRoomRequest struct {
	Nickname string `json:"nickname"`
	Rounds   int    `json:"rounds"`
	RoomName string `json:"roomName"`
}

type JoinRoomRequest struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
}

type RoomCodeRequest struct {
	Code string `json:"code"`
}

type SetRoundsRequest struct {
	Code   string `json:"code"`
	Rounds int    `json:"rounds"`
}

type RenameRoomRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidNickname)
		return
	}

	result, err := h.membership.CreateRoom(req.Nickname, req.Rounds, req.RoomName)
	if err != nil {
		fail(c, err)
		return
	}

	setSessionCookie(c, result.SessionToken)
	ok(c, gin.H{
		"room": gin.H{
			"id":     result.Room.ID,
			"code":   result.Room.Code,
			"rounds": result.Room.Rounds,
		},
		"sessionToken": result.SessionToken,
		"player":       result.Player,
	})
}

func (h *RoomHandler) Join(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidRoomCode)
		return
	}

	result, err := h.membership.Join(req.Code, req.Nickname)
	if err != nil {
		fail(c, err)
		return
	}

	h.hub.BroadcastToRoom(result.Room.ID, ws.WSMessage{Type: "member_joined", Data: result.Player})

	setSessionCookie(c, result.SessionToken)
	ok(c, gin.H{
		"room": gin.H{
			"id":   result.Room.ID,
			"code": result.Room.Code,
		},
		"sessionToken": result.SessionToken,
		"player":       result.Player,
	})
}

func (h *RoomHandler) Info(c *gin.Context) {
	room, err := h.rooms.GetRoomByCode(c.Query("code"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"room": room})
}

func (h *RoomHandler) Start(c *gin.Context) {
	var req RoomCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidRoomCode)
		return
	}

	player := currentPlayer(c)
	result, err := h.rooms.Start(player, req.Code)
	if err != nil {
		fail(c, err)
		return
	}

	if player.RoomID != nil {
		h.hub.BroadcastToRoom(*player.RoomID, ws.WSMessage{Type: "game_started", Data: result})
	}
	ok(c, gin.H{"startsAt": result.StartsAt, "endsAt": result.EndsAt})
}

func (h *RoomHandler) SetRounds(c *gin.Context) {
	var req SetRoundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidRounds)
		return
	}

	player := currentPlayer(c)
	room, err := h.rooms.SetRounds(player, req.Code, req.Rounds)
	if err != nil {
		fail(c, err)
		return
	}

	h.hub.BroadcastToRoom(room.ID, ws.WSMessage{Type: "rounds_changed", Data: gin.H{"rounds": room.Rounds}})
	ok(c, gin.H{"room": room})
}

func (h *RoomHandler) End(c *gin.Context) {
	var req RoomCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidRoomCode)
		return
	}

	player := currentPlayer(c)
	if err := h.rooms.End(player, req.Code); err != nil {
		fail(c, err)
		return
	}

	if player.RoomID != nil {
		h.hub.BroadcastToRoom(*player.RoomID, ws.WSMessage{Type: "game_ended", Data: nil})
	}
	ok(c, gin.H{})
}

func (h *RoomHandler) Rename(c *gin.Context) {
	var req RenameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidRoomName)
		return
	}

	player := currentPlayer(c)
	room, err := h.rooms.Rename(player, req.Code, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"room": gin.H{"code": room.Code, "name": room.Name}})
}

func (h *RoomHandler) Leave(c *gin.Context) {
	player := currentPlayer(c)
	roomID := player.RoomID

	if err := h.membership.Leave(player); err != nil {
		fail(c, err)
		return
	}

	if roomID != nil {
		h.hub.BroadcastToRoom(*roomID, ws.WSMessage{Type: "member_left", Data: gin.H{"playerId": player.ID}})
	}
	ok(c, gin.H{})
}

func (h *RoomHandler) LeaveTransfer(c *gin.Context) {
	player := currentPlayer(c)
	roomID := player.RoomID

	result, err := h.membership.LeaveWithTransfer(player)
	if err != nil {
		fail(c, err)
		return
	}

	if roomID != nil {
		if result.Closed {
			h.hub.BroadcastToRoom(*roomID, ws.WSMessage{Type: "room_closed", Data: nil})
		} else {
			h.hub.BroadcastToRoom(*roomID, ws.WSMessage{
				Type: "owner_changed",
				Data: gin.H{"newOwnerId": result.NewOwnerID},
			})
		}
	}

	if result.Closed {
		ok(c, gin.H{"closed": true})
		return
	}
	ok(c, gin.H{"newOwnerId": result.NewOwnerID})
}

func (h *RoomHandler) Close(c *gin.Context) {
	var req RoomCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, services.ErrInvalidRoomCode)
		return
	}

	player := currentPlayer(c)
	roomID := player.RoomID

	if err := h.membership.Close(player, req.Code); err != nil {
		fail(c, err)
		return
	}

	if roomID != nil {
		h.hub.BroadcastToRoom(*roomID, ws.WSMessage{Type: "room_closed", Data: nil})
	}
	ok(c, gin.H{})
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, sessionCookieMaxAge, "/", "", false, false)
}
