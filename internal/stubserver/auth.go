package stubserver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/seatdesk/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionRevoked     = errors.New("session has been logged out")
)

// SessionCookieName carries the signed admin session.
const SessionCookieName = "sessionid"

// Claims extends JWT standard claims with the admin's username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Auth checks the admin password and issues session tokens. Revoked token ids
// are kept in memory until the process exits.
type Auth struct {
	cfg      *config.Config
	username string
	hash     []byte

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewAuth prepares the admin account from configuration. A configured bcrypt
// hash wins over the plaintext password.
func NewAuth(cfg *config.Config) (*Auth, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &Auth{
		cfg:      cfg,
		username: cfg.AdminUsername,
		hash:     hash,
		revoked:  make(map[string]time.Time),
	}, nil
}

// HashPassword hashes a password with the given bcrypt cost. Costs below the
// library minimum fall back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) ([]byte, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// CheckCredentials compares the login against the admin account.
func (a *Auth) CheckCredentials(username, password string) error {
	if username != a.username {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken creates a signed session token for username.
func (a *Auth) IssueToken(username string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(a.cfg.SessionExpiry)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.SessionSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken parses and validates a session token.
func (a *Auth) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.cfg.SessionSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	a.mu.Lock()
	_, revoked := a.revoked[claims.ID]
	a.mu.Unlock()
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke invalidates a session token until it would have expired anyway.
func (a *Auth) Revoke(claims *Claims) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	for id, exp := range a.revoked {
		if exp.Before(now) {
			delete(a.revoked, id)
		}
	}
	exp := now.Add(a.cfg.SessionExpiry)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	a.revoked[claims.ID] = exp
}
