package handlers

import (
	"log"
	"net/http"

	"party-game-backend/internal/services"
	"party-game-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	rooms *services.RoomService
	hub   *ws.Hub
}

func NewWSHandler(rooms *services.RoomService, hub *ws.Hub) *WSHandler {
	return &WSHandler{rooms: rooms, hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *WSHandler) HandleRoomWebSocket(c *gin.Context) {
	room, err := h.rooms.GetRoomByCode(c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddRoomConnection(room.ID, conn)
	defer h.hub.RemoveRoomConnection(room.ID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
