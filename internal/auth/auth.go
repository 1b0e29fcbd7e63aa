// Package auth is the identity gate: it hashes credentials at
// registration, verifies them at login, and issues/validates the bearer
// tokens every protected endpoint requires. Handlers never trust a
// client-supplied actor id; the id always comes from a validated token.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Roles recognized by the token gate.
const (
	RolePassenger = "passenger"
	RoleDriver    = "driver"
	RoleAdmin     = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongRole    = errors.New("insufficient role")
)

// Identity is the verified caller: id and role extracted from a token.
type Identity struct {
	ID   int64
	Role string
}

// Service issues and validates tokens.
type Service struct {
	secret []byte
	expiry time.Duration
}

// NewService creates a Service. expiry bounds token lifetime.
func NewService(secret string, expiry time.Duration) *Service {
	if expiry == 0 {
		expiry = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), expiry: expiry}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken issues a signed HS256 token for the given identity.
func (s *Service) GenerateToken(id int64, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(id, 10),
		"role": role,
		"exp":  time.Now().Add(s.expiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses a bearer token and returns the caller identity.
func (s *Service) ValidateToken(tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	switch role {
	case RolePassenger, RoleDriver, RoleAdmin:
	default:
		return nil, ErrInvalidToken
	}

	return &Identity{ID: id, Role: role}, nil
}
