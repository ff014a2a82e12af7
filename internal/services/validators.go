package services

import (
	"regexp"
	"strings"
)

var (
	roomCodeRe = regexp.MustCompile(`^[A-Z0-9]{4,10}$`)
	nicknameRe = regexp.MustCompile(`^[A-Za-z0-9 _-]{3,24}$`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// NormalizeRoomCode uppercases and validates a join code (4-10 alphanumeric).
func NormalizeRoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !roomCodeRe.MatchString(code) {
		return "", ErrInvalidRoomCode
	}
	return code, nil
}

func ValidateNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if !nicknameRe.MatchString(nickname) {
		return "", ErrInvalidNickname
	}
	return nickname, nil
}

// NormalizeRoomName collapses whitespace and caps length at 40.
func NormalizeRoomName(name string) (string, error) {
	name = strings.TrimSpace(spacesRe.ReplaceAllString(name, " "))
	if name == "" || len(name) > 40 {
		return "", ErrInvalidRoomName
	}
	return name, nil
}
