package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const TokenTTL = 12 * time.Hour

// Claims carries the signed-in user's identity and role flags.
type Claims struct {
	UserID  uuid.UUID `json:"id"`
	IsAdmin bool      `json:"isAdmin"`
	IsStaff bool      `json:"isStaff"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken signs a session token for the given user.
func GenerateToken(userID uuid.UUID, isAdmin, isStaff bool) (string, time.Time, error) {
	exp := time.Now().Add(TokenTTL)
	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		IsStaff: isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID.String(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(jwtSecret())
	return s, exp, err
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
