package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of principals the system knows. Tokens carry one of
// these; handlers compare against the typed constant, never a request string.
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// ParseRole maps untrusted input onto the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated caller, resolved once by the Authenticate
// middleware and read by handlers from the request context.
type Principal struct {
	ID   int64
	Role Role
}

func secretKey() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("supersecret")
}

func GenerateToken(email string, userID int64, role Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":  email,
		"userId": userID,
		"role":   string(role),
		"exp":    time.Now().Add(2 * time.Hour).Unix(),
	})
	return token.SignedString(secretKey())
}

// VerifyToken checks signature and expiry and returns the embedded principal.
func VerifyToken(token string) (Principal, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return Principal{}, errors.New("could not parse token")
	}
	if !parsedToken.Valid {
		return Principal{}, errors.New("invalid token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid token claims")
	}

	rawID, ok := claims["userId"].(float64)
	if !ok {
		return Principal{}, errors.New("invalid token claims")
	}
	rawRole, _ := claims["role"].(string)
	role, ok := ParseRole(rawRole)
	if !ok {
		return Principal{}, errors.New("invalid token role")
	}

	return Principal{ID: int64(rawID), Role: role}, nil
}
