package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminService gates moderation actions behind a single configured password.
// A successful login yields a short-lived bearer token.
type AdminService struct {
	passwordHash []byte
	jwtSecret    []byte
}

func NewAdminService(passwordHash, jwtSecret string) *AdminService {
	return &AdminService{passwordHash: []byte(passwordHash), jwtSecret: []byte(jwtSecret)}
}

func (s *AdminService) Login(password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AdminService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return ErrUnauthorized
	}
	return nil
}
