package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const addUserXP = `-- name: AddUserXP :one
UPDATE users
SET xp = xp + $2,
    level = (xp + $2) / 100 + 1
WHERE id = $1
RETURNING xp, level
`

type AddUserXPParams struct {
	ID     pgtype.UUID `json:"id"`
	Amount int32       `json:"amount"`
}

type AddUserXPRow struct {
	Xp    int32 `json:"xp"`
	Level int32 `json:"level"`
}

func (q *Queries) AddUserXP(ctx context.Context, arg AddUserXPParams) (AddUserXPRow, error) {
	row := q.db.QueryRow(ctx, addUserXP, arg.ID, arg.Amount)
	var i AddUserXPRow
	err := row.Scan(&i.Xp, &i.Level)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, email, password_hash, role, xp, level, created_at
`

type CreateUserParams struct {
	Email        string      `json:"email"`
	PasswordHash pgtype.Text `json:"password_hash"`
	Role         string      `json:"role"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.Email, arg.PasswordHash, arg.Role)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Role,
		&i.Xp,
		&i.Level,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, password_hash, role, xp, level, created_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Role,
		&i.Xp,
		&i.Level,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, password_hash, role, xp, level, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Role,
		&i.Xp,
		&i.Level,
		&i.CreatedAt,
	)
	return i, err
}

const getUserXP = `-- name: GetUserXP :one
SELECT xp FROM users WHERE id = $1
`

func (q *Queries) GetUserXP(ctx context.Context, id pgtype.UUID) (int32, error) {
	row := q.db.QueryRow(ctx, getUserXP, id)
	var xp int32
	err := row.Scan(&xp)
	return xp, err
}

const listUsersByEmails = `-- name: ListUsersByEmails :many
SELECT id, email, password_hash, role, xp, level, created_at
FROM users
WHERE email = ANY($1::text[])
`

func (q *Queries) ListUsersByEmails(ctx context.Context, emails []string) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsersByEmails, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(
			&i.ID,
			&i.Email,
			&i.PasswordHash,
			&i.Role,
			&i.Xp,
			&i.Level,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listUsersByIDs = `-- name: ListUsersByIDs :many
SELECT id, email, password_hash, role, xp, level, created_at
FROM users
WHERE id = ANY($1::uuid[])
`

func (q *Queries) ListUsersByIDs(ctx context.Context, ids []pgtype.UUID) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsersByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(
			&i.ID,
			&i.Email,
			&i.PasswordHash,
			&i.Role,
			&i.Xp,
			&i.Level,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
