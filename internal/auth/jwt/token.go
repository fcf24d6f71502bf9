package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Kind separates access from refresh tokens even when both share a secret.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims carried by every mentora token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role"`
	Kind   Kind      `json:"kind"`
	jwt.RegisteredClaims
}

// Remaining is how long the token stays valid after now, or 0.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration // 24h when zero
	RefreshTTL    time.Duration // 7 days when zero
	Issuer        string
	// Leeway tolerates clock skew on exp and nbf.
	Leeway        time.Duration
}

// Subject identifies the account a token is issued for.
type Subject struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// Manager signs and checks HS256 tokens.
type Manager struct {
	secrets map[Kind][]byte
	ttls    map[Kind]time.Duration
	issuer  string
	leeway  time.Duration
	now     func() time.Time
}

func NewManager(cfg TokenConfig) *Manager {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "mentora"
	}
	return &Manager{
		secrets: map[Kind][]byte{KindAccess: cfg.AccessSecret, KindRefresh: cfg.RefreshSecret},
		ttls:    map[Kind]time.Duration{KindAccess: cfg.AccessTTL, KindRefresh: cfg.RefreshTTL},
		issuer:  cfg.Issuer,
		leeway:  cfg.Leeway,
		now:     time.Now,
	}
}

func (m *Manager) AccessTTL() time.Duration { return m.ttls[KindAccess] }

func (m *Manager) GenerateAccessToken(s Subject) (string, error) {
	return m.sign(s, KindAccess)
}

func (m *Manager) GenerateRefreshToken(s Subject) (string, error) {
	return m.sign(s, KindRefresh)
}

func (m *Manager) ValidateAccessToken(token string) (*Claims, error) {
	return m.validate(token, KindAccess)
}

func (m *Manager) ValidateRefreshToken(token string) (*Claims, error) {
	return m.validate(token, KindRefresh)
}

func (m *Manager) sign(s Subject, kind Kind) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: s.ID,
		Email:  s.Email,
		Role:   s.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   s.ID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttls[kind])),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secrets[kind])
}

func (m *Manager) validate(token string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secrets[kind], nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Kind != kind || claims.UserID == uuid.Nil:
		return nil, ErrInvalidToken
	}
	return claims, nil
}
