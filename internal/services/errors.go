package services

import "errors"

// Service errors carry the wire error code as their message; handlers map
// them to HTTP statuses.
var (
	ErrUnauthorized    = errors.New("UNAUTHORIZED")
	ErrNotAllowed      = errors.New("NOT_ALLOWED")
	ErrForbidden       = errors.New("FORBIDDEN")
	ErrRoomNotFound    = errors.New("ROOM_NOT_FOUND")
	ErrRoomMismatch    = errors.New("ROOM_MISMATCH")
	ErrNotFound        = errors.New("NOT_FOUND")
	ErrNoMedia         = errors.New("NO_MEDIA")
	ErrNicknameTaken   = errors.New("NICKNAME_TAKEN")
	ErrGameNotEnded    = errors.New("GAME_NOT_ENDED")
	ErrMediaRequired   = errors.New("MEDIA_REQUIRED")
	ErrInvalidPassword = errors.New("INVALID_PASSWORD")

	ErrInvalidRoomCode          = errors.New("INVALID_ROOM_CODE")
	ErrInvalidRoomName          = errors.New("INVALID_ROOM_NAME")
	ErrInvalidNickname          = errors.New("INVALID_NICKNAME")
	ErrInvalidRounds            = errors.New("INVALID_ROUNDS")
	ErrInvalidChallengeID       = errors.New("INVALID_CHALLENGE_ID")
	ErrInvalidPlayerChallengeID = errors.New("INVALID_PLAYER_CHALLENGE_ID")
	ErrInvalidFileType          = errors.New("INVALID_FILE_TYPE")
	ErrFileTooLarge             = errors.New("FILE_TOO_LARGE")
	ErrMissingFile              = errors.New("MISSING_FILE")
)
