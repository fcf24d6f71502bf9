package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/auth/jwt"
	"github.com/levibo0306/mentora/internal/validation"
)

// UserStore persists accounts. CreateUser returns ErrEmailTaken on a duplicate
// email; the getters return ErrUserNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, email string, passwordHash *string, role string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
}

// Service handles authentication and user management.
type Service struct {
	users     UserStore
	tokenMgr  *jwt.Manager
	revoked   RevocationStore
	passwords *PasswordHasher
	validator *validation.Validator
	logger    zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
	Revocations RevocationStore
	Validator   *validation.Validator
	// BcryptCost defaults to DefaultBcryptCost.
	BcryptCost  int
}

// NewService creates an authentication service. Without a revocation store,
// logout succeeds but tokens stay valid until they expire.
func NewService(users UserStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	return &Service{
		users:     users,
		tokenMgr:  jwt.NewManager(opts.TokenConfig),
		revoked:   opts.Revocations,
		passwords: NewPasswordHasher(opts.BcryptCost),
		validator: opts.Validator,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with an email and password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *TokenPair, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, err
	}

	passwordHash, err := s.passwords.Hash(req.Password)
	if err != nil {
		if errors.Is(err, validation.ErrInvalid) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, req.Email, &passwordHash, req.Role)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("user registered")
	return &user, tokens, nil
}

// Login authenticates a user with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.passwords.VerifyMissing(req.Password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	// OAuth-only accounts have no password.
	if user.PasswordHash == nil {
		s.passwords.VerifyMissing(req.Password)
		return nil, nil, ErrInvalidCredentials
	}
	if err := s.passwords.Verify(*user.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &user, tokens, nil
}

// RefreshToken issues a new access token from a refresh token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if s.IsRevoked(ctx, refreshToken) {
		return nil, ErrTokenRevoked
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	access, err := s.tokenMgr.GenerateAccessToken(jwtUser(user))
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &TokenPair{
		AccessToken: access,
		ExpiresIn:   int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

// Authenticate validates an access token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if s.IsRevoked(ctx, tokenString) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *jwt.Claims, token string) error {
	if s.revoked == nil {
		return nil
	}
	ttl := claims.Remaining(time.Now())
	if ttl == 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("user_id", claims.UserID.String()).Msg("user logged out")
	return nil
}

// IsRevoked reports whether the token was logged out. Lookup failures are
// logged and treated as not revoked.
func (s *Service) IsRevoked(ctx context.Context, token string) bool {
	if s.revoked == nil {
		return false
	}
	revoked, err := s.revoked.IsRevoked(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("revocation lookup failed")
		return false
	}
	return revoked
}

// Me returns the current account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// loginOrCreate returns tokens for an existing account or creates a student
// account without a password.
func (s *Service) loginOrCreate(ctx context.Context, email string) (*User, *TokenPair, bool, error) {
	email = normalizeEmail(email)
	created := false

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		user, err = s.users.CreateUser(ctx, email, nil, RoleStudent)
		created = true
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("oauth user: %w", err)
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, false, fmt.Errorf("generate tokens: %w", err)
	}
	return &user, tokens, created, nil
}

func jwtUser(user User) jwt.Subject {
	return jwt.Subject{ID: user.ID, Email: user.Email, Role: user.Role}
}

func (s *Service) generateTokenPair(user User) (*TokenPair, error) {
	accessToken, err := s.tokenMgr.GenerateAccessToken(jwtUser(user))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(jwtUser(user))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}
