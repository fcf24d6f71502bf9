package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeInvalidCredentials     = "invalid_credentials"
	ErrCodeRoleRequired           = "role_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodeInvalidID        = "invalid_id"
	ErrCodePayloadTooLarge  = "payload_too_large"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Auth flows
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeEmailTaken         = "email_taken"
	ErrCodeRefreshFailed      = "refresh_failed"

	// Quiz errors
	ErrCodeQuizNotFound      = "quiz_not_found"
	ErrCodeNotOwner          = "not_owner"
	ErrCodeShareNotFound     = "share_not_found"
	ErrCodeMissingRecipients = "missing_recipients"
	ErrCodeGenerationFailed  = "generation_failed"

	// Attempt errors
	ErrCodeSubmitFailed = "submit_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"

	// OAuth errors
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthStartFailed    = "oauth_start_failed"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"
	ErrCodeUserCreationFailed  = "user_creation_failed"

	// Leaderboard errors
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
	ErrCodeUnknownWindow          = "unknown_leaderboard_window"
)
