package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/attempt"
	"github.com/levibo0306/mentora/internal/auth"
	"github.com/levibo0306/mentora/internal/auth/jwt"
	"github.com/levibo0306/mentora/internal/config"
	"github.com/levibo0306/mentora/internal/dashboard"
	"github.com/levibo0306/mentora/internal/db/repository"
	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/gamification"
	"github.com/levibo0306/mentora/internal/leaderboard"
	"github.com/levibo0306/mentora/internal/logging"
	"github.com/levibo0306/mentora/internal/metrics"
	"github.com/levibo0306/mentora/internal/notify"
	"github.com/levibo0306/mentora/internal/question"
	"github.com/levibo0306/mentora/internal/question/ai"
	"github.com/levibo0306/mentora/internal/question/external"
	"github.com/levibo0306/mentora/internal/quiz"
	"github.com/levibo0306/mentora/internal/server"
	"github.com/levibo0306/mentora/internal/validation"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	snapshotWorker *leaderboard.SnapshotWorker
	bgCancels      []context.CancelFunc
}

// New bootstraps the logger, Postgres, Redis, every domain service and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	m := metrics.New(prometheus.DefaultRegisterer)
	validator := validation.New()
	queries := sqlcgen.New(pool)

	userRepo := repository.NewUserRepository(queries)
	quizRepo := repository.NewQuizRepository(queries)
	questionRepo := repository.NewQuestionRepository(queries)
	attemptRepo := repository.NewAttemptRepository(queries)
	missionRepo := repository.NewMissionRepository(queries, pool)
	streakRepo := repository.NewStreakRepository(queries)
	statsRepo := repository.NewStatsRepository(queries)
	snapshotRepo := repository.NewSnapshotRepository(queries)

	// Auth
	authSvc := auth.NewService(userRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte(cfg.Security.JWTSecret),
			RefreshSecret: []byte(cfg.Security.RefreshSecret()),
			AccessTTL:     cfg.Security.AccessTokenTTL,
			RefreshTTL:    cfg.Security.RefreshTokenTTL,
			Issuer:        cfg.Name,
			Leeway:        cfg.Security.JWTLeeway,
		},
		Revocations: auth.NewRedisRevocations(redisClient),
		Validator:   validator,
		BcryptCost:  cfg.Security.BcryptCost,
	}, logger)

	var oauthSvc *auth.OAuthService
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		redirectURL := cfg.OAuth.GoogleRedirectURL
		if redirectURL == "" {
			redirectURL = fmt.Sprintf("http://%s/v1/oauth/google/callback", cfg.HTTPAddr)
		}
		oauthSvc = auth.NewOAuthService(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, redirectURL, logger)
		logger.Info().Msg("OAuth service initialized")
	} else {
		logger.Warn().Msg("OAuth not configured (missing GOOGLE_OAUTH_CLIENT_ID or GOOGLE_OAUTH_CLIENT_SECRET)")
	}

	// Gamification
	leaderboardSvc := leaderboard.NewService(redisClient, userRepo, logger, leaderboard.ServiceOptions{
		TopN:           cfg.Leaderboard.SnapshotTopN,
		RedisKeyPrefix: cfg.Leaderboard.KeyPrefix,
	})
	ledger := gamification.NewLedger(userRepo, leaderboardSvc, m, logger)
	streaks := gamification.NewStreakTracker(streakRepo, logger)

	var catalog *gamification.Catalog
	if path := cfg.Gamification.MissionsCatalogPath; path != "" {
		catalog, err = gamification.LoadCatalog(path)
		if err != nil {
			return nil, fmt.Errorf("load mission catalog: %w", err)
		}
		logger.Info().Str("path", path).Msg("mission catalog loaded")
	}
	missions := gamification.NewManager(missionRepo, ledger, gamification.ManagerOptions{
		Catalog:    catalog,
		DailyCount: cfg.Gamification.DailyMissionCount,
	}, m, logger)

	// Questions
	answerKeys := question.NewAnswerKeys(questionRepo, question.NewCache(redisClient, cfg.Gamification.AnswerKeyCacheTTL), logger)
	difficulty := question.NewUpdater(questionRepo, m, logger)

	var aiGenerator question.AIGenerator
	if cfg.AI.GeneratorURL != "" {
		aiGenerator = ai.NewGenerator(ai.Config{
			GeneratorURL: cfg.AI.GeneratorURL,
			GeneratorKey: cfg.AI.GeneratorKey,
			Timeout:      cfg.AI.HTTPTimeout,
		}, logger)
	}
	drafts := question.NewService(
		aiGenerator,
		external.NewOpenTDBClient("", nil),
		external.NewTriviaAPIClient("", cfg.AI.TriviaAPIKey, nil),
		question.ServiceOptions{},
		logger,
	)

	// Quizzes and attempts
	quizOpts := quiz.ServiceOptions{
		Keys:      answerKeys,
		Generator: drafts,
		Validator: validator,
	}
	mailer := notify.NewEmailService(notify.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromEmail:    cfg.SMTP.FromEmail,
		ShareBaseURL: cfg.SMTP.ShareBaseURL,
	}, logger)
	if mailer.Configured() {
		quizOpts.Notifier = mailer
	} else {
		logger.Warn().Msg("SMTP not configured; share invitations will not be emailed")
	}
	quizSvc := quiz.NewService(quizRepo, questionRepo, quizRepo, quizOpts, logger)

	attemptSvc := attempt.NewService(attempt.Deps{
		Store:      attemptRepo,
		Quizzes:    quizSvc,
		Shares:     quizSvc,
		Keys:       answerKeys,
		Difficulty: difficulty,
		XP:         ledger,
		Streaks:    streaks,
		Missions:   missions,
		Metrics:    m,
	}, logger)

	dashboardSvc := dashboard.NewService(statsRepo, missions, streaks, logger)

	var snapshotWorker *leaderboard.SnapshotWorker
	if interval := cfg.Leaderboard.SnapshotInterval; interval > 0 {
		snapshotWorker = leaderboard.NewSnapshotWorker(leaderboardSvc, snapshotRepo, interval, cfg.Leaderboard.SnapshotTopN, logger)
	}

	apiServer := server.NewHTTPServer(cfg, logger, server.Deps{
		AuthService: authSvc,
		Metrics:     m,
		Checks: map[string]server.HealthCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	}, server.Handlers{
		Auth:        auth.NewHTTPHandlers(authSvc, oauthSvc, logger),
		Quiz:        quiz.NewHTTPHandler(quizSvc, logger),
		Attempt:     attempt.NewHTTPHandler(attemptSvc, logger),
		Dashboard:   dashboard.NewHTTPHandler(dashboardSvc, logger),
		Leaderboard: leaderboard.NewHTTPHandler(leaderboardSvc, snapshotRepo, logger),
	})

	return &Application{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		http:           apiServer,
		snapshotWorker: snapshotWorker,
		bgCancels:      make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.snapshotWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.snapshotWorker.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("leaderboard snapshot worker stopped")
			}
		}()
	}
}
