package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"mentora"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres     Postgres
	Redis        Redis
	Security     Security
	Gamification Gamification
	OAuth        OAuth
	Leaderboard  Leaderboard
	AI           AI
	SMTP         SMTP
	CORS         CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string understood by pgx.
func (p Postgres) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
	if p.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", p.MaxConns)
	}
	return dsn
}

// Redis holds cache, revocation and leaderboard configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets and lifetimes for signed tokens.
type Security struct {
	JWTSecret        string        `env:"JWT_SECRET,notEmpty"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET" envDefault:""`
	AccessTokenTTL   time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	RefreshTokenTTL  time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	JWTLeeway        time.Duration `env:"JWT_LEEWAY" envDefault:"30s"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"12"`
}

// RefreshSecret falls back to a suffixed access secret when no dedicated one is set.
func (s Security) RefreshSecret() string {
	if s.JWTRefreshSecret != "" {
		return s.JWTRefreshSecret
	}
	return s.JWTSecret + "_refresh"
}

// Gamification tunes daily missions and the answer-key cache.
type Gamification struct {
	MissionsCatalogPath string        `env:"MISSIONS_CATALOG_PATH" envDefault:""`
	DailyMissionCount   int           `env:"DAILY_MISSION_COUNT" envDefault:"2"`
	AnswerKeyCacheTTL   time.Duration `env:"ANSWER_KEY_CACHE_TTL" envDefault:"10m"`
}

// Leaderboard governs retention windows and snapshotting.
type Leaderboard struct {
	SnapshotInterval time.Duration `env:"LEADERBOARD_SNAPSHOT_INTERVAL" envDefault:"5m"`
	SnapshotTopN     int           `env:"LEADERBOARD_SNAPSHOT_TOP" envDefault:"50"`
	KeyPrefix        string        `env:"LEADERBOARD_KEY_PREFIX" envDefault:"leaderboard"`
}

// OAuth holds OAuth provider configuration.
type OAuth struct {
	GoogleClientID     string `env:"GOOGLE_OAUTH_CLIENT_ID" envDefault:""`
	GoogleClientSecret string `env:"GOOGLE_OAUTH_CLIENT_SECRET" envDefault:""`
	GoogleRedirectURL  string `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:""`
}

// AI configures the AI generator service.
type AI struct {
	GeneratorURL string        `env:"AI_GENERATOR_URL" envDefault:""`
	GeneratorKey string        `env:"AI_GENERATOR_API_KEY" envDefault:""`
	HTTPTimeout  time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"6s"`
	TriviaAPIKey string        `env:"TRIVIA_API_KEY" envDefault:""`
}

// SMTP holds email server configuration. An empty host disables share invitations.
type SMTP struct {
	Host         string `env:"SMTP_HOST" envDefault:""`
	Port         int    `env:"SMTP_PORT" envDefault:"587"`
	Username     string `env:"SMTP_USERNAME" envDefault:""`
	Password     string `env:"SMTP_PASSWORD" envDefault:""`
	FromEmail    string `env:"SMTP_FROM_EMAIL" envDefault:""`
	ShareBaseURL string `env:"SHARE_BASE_URL" envDefault:"http://localhost:3000/share"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization,X-Timezone-Offset"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Gamification.DailyMissionCount < 1 {
		return nil, fmt.Errorf("parse config: DAILY_MISSION_COUNT must be positive")
	}
	if cfg.Security.BcryptCost < 4 || cfg.Security.BcryptCost > 31 {
		return nil, fmt.Errorf("parse config: BCRYPT_COST must be between 4 and 31")
	}
	return cfg, nil
}
