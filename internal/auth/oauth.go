package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthUserInfo contains user data from OAuth provider.
type OAuthUserInfo struct {
	ProviderID string
	Email      string
	Verified   bool
}

// OAuthService handles the Google sign-in flow.
type OAuthService struct {
	googleConfig *oauth2.Config
	userInfoURL  string
	logger       zerolog.Logger
	httpClient   *http.Client
}

// NewOAuthService creates an OAuth service with provider credentials.
func NewOAuthService(googleClientID, googleClientSecret, googleRedirectURI string, logger zerolog.Logger) *OAuthService {
	config := &oauth2.Config{
		ClientID:     googleClientID,
		ClientSecret: googleClientSecret,
		RedirectURL:  googleRedirectURI,
		Scopes:       []string{"openid", "email"},
		Endpoint:     google.Endpoint,
	}

	return &OAuthService{
		googleConfig: config,
		userInfoURL:  googleUserInfoURL,
		logger:       logger.With().Str("component", "oauth").Logger(),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether Google credentials are present.
func (s *OAuthService) Configured() bool {
	return s != nil && s.googleConfig.ClientID != ""
}

// StartOAuthFlow generates the authorization URL for Google OAuth.
func (s *OAuthService) StartOAuthFlow(provider, state string) (string, error) {
	if provider != OAuthProviderGoogle {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
	if !s.Configured() {
		return "", fmt.Errorf("OAuth not configured (missing GOOGLE_CLIENT_ID)")
	}
	return s.googleConfig.AuthCodeURL(state), nil
}

// HandleOAuthCallback exchanges the code and fetches the Google profile.
func (s *OAuthService) HandleOAuthCallback(ctx context.Context, provider, code string) (*OAuthUserInfo, error) {
	if provider != OAuthProviderGoogle {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if !s.Configured() {
		return nil, fmt.Errorf("OAuth not configured")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("OAuth token exchange failed")
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	return s.fetchUserInfo(ctx, token.AccessToken)
}

func (s *OAuthService) fetchUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info API returned status %d", resp.StatusCode)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &OAuthUserInfo{
		ProviderID: googleUser.ID,
		Email:      googleUser.Email,
		Verified:   googleUser.VerifiedEmail,
	}, nil
}

// SignIn logs in the account behind a Google profile, creating a student
// account on first sign-in.
func (s *OAuthService) SignIn(ctx context.Context, authSvc *Service, info *OAuthUserInfo) (*User, *TokenPair, error) {
	if info.Email == "" {
		return nil, nil, fmt.Errorf("OAuth provider did not return email")
	}
	if !info.Verified {
		return nil, nil, fmt.Errorf("OAuth email is not verified")
	}

	user, tokens, created, err := authSvc.loginOrCreate(ctx, info.Email)
	if err != nil {
		return nil, nil, err
	}

	msg := "OAuth user logged in"
	if created {
		msg = "OAuth user created"
	}
	s.logger.Info().Str("user_id", user.ID.String()).Msg(msg)
	return user, tokens, nil
}
