package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/levibo0306/mentora/internal/auth"
	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/gamification"
)

const uniqueViolation = "23505"

type userStore interface {
	CreateUser(ctx context.Context, arg sqlcgen.CreateUserParams) (sqlcgen.User, error)
	GetUserByEmail(ctx context.Context, email string) (sqlcgen.User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (sqlcgen.User, error)
	GetUserXP(ctx context.Context, id pgtype.UUID) (int32, error)
	AddUserXP(ctx context.Context, arg sqlcgen.AddUserXPParams) (sqlcgen.AddUserXPRow, error)
	ListUsersByIDs(ctx context.Context, ids []pgtype.UUID) ([]sqlcgen.User, error)
}

// UserRepository exposes typed DB operations for accounts and xp.
type UserRepository struct {
	store userStore
}

// NewUserRepository wraps sqlc Queries for user-specific operations.
func NewUserRepository(store userStore) *UserRepository {
	return &UserRepository{store: store}
}

func toAuthUser(u sqlcgen.User) auth.User {
	return auth.User{
		ID:           fromPgUUID(u.ID),
		Email:        u.Email,
		Role:         u.Role,
		XP:           int(u.Xp),
		PasswordHash: fromPgText(u.PasswordHash),
	}
}

// CreateUser inserts an account; a duplicate email maps to auth.ErrEmailTaken.
func (r *UserRepository) CreateUser(ctx context.Context, email string, passwordHash *string, role string) (auth.User, error) {
	u, err := r.store.CreateUser(ctx, sqlcgen.CreateUserParams{
		Email:        email,
		PasswordHash: pgText(passwordHash),
		Role:         role,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.User{}, auth.ErrEmailTaken
		}
		return auth.User{}, err
	}
	return toAuthUser(u), nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	u, err := r.store.GetUserByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	return toAuthUser(u), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	u, err := r.store.GetUserByID(ctx, pgUUID(id))
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	return toAuthUser(u), nil
}

// GetUserXP returns the stored xp; unknown users have none.
func (r *UserRepository) GetUserXP(ctx context.Context, userID uuid.UUID) (int, error) {
	xp, err := r.store.GetUserXP(ctx, pgUUID(userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(xp), nil
}

// AddUserXP increments xp and level in one statement.
func (r *UserRepository) AddUserXP(ctx context.Context, userID uuid.UUID, amount int) (gamification.Balance, error) {
	row, err := r.store.AddUserXP(ctx, sqlcgen.AddUserXPParams{
		ID:     pgUUID(userID),
		Amount: int32(amount),
	})
	if err != nil {
		return gamification.Balance{}, err
	}
	return gamification.Balance{XP: int(row.Xp), Level: int(row.Level)}, nil
}

// EmailsByID maps user ids to emails for leaderboard display.
func (r *UserRepository) EmailsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	pgIDs := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		pgIDs[i] = pgUUID(id)
	}
	users, err := r.store.ListUsersByIDs(ctx, pgIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		out[fromPgUUID(u.ID)] = u.Email
	}
	return out, nil
}
