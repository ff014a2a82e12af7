package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"party-game-backend/internal/middleware"
	"party-game-backend/internal/models"
	"party-game-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Every response carries a top-level ok flag; failures add the error code.

func ok(c *gin.Context, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotAllowed),
		errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrRoomMismatch):
		return http.StatusForbidden
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrNoMedia):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNicknameTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidRoomCode),
		errors.Is(err, services.ErrInvalidRoomName),
		errors.Is(err, services.ErrInvalidNickname),
		errors.Is(err, services.ErrInvalidRounds),
		errors.Is(err, services.ErrInvalidChallengeID),
		errors.Is(err, services.ErrInvalidPlayerChallengeID),
		errors.Is(err, services.ErrInvalidFileType),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrMissingFile),
		errors.Is(err, services.ErrGameNotEnded),
		errors.Is(err, services.ErrMediaRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func currentPlayer(c *gin.Context) *models.Player {
	return c.MustGet(middleware.PlayerKey).(*models.Player)
}

func parseID(raw string, invalid error) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, invalid
	}
	return uint(id), nil
}
