package db

import (
	"context"

	"github.com/google/uuid"
)

const isEmailAllowed = `-- name: IsEmailAllowed :one
SELECT EXISTS (SELECT 1 FROM allowed_emails WHERE email = lower($1))`

func (q *Queries) IsEmailAllowed(ctx context.Context, email string) (bool, error) {
	var allowed bool
	err := q.db.QueryRowContext(ctx, isEmailAllowed, email).Scan(&allowed)
	return allowed, err
}

const listAllowedEmails = `-- name: ListAllowedEmails :many
SELECT id, email, created_at FROM allowed_emails ORDER BY email`

func (q *Queries) ListAllowedEmails(ctx context.Context) ([]AllowedEmail, error) {
	rows, err := q.db.QueryContext(ctx, listAllowedEmails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AllowedEmail
	for rows.Next() {
		var i AllowedEmail
		if err := rows.Scan(&i.ID, &i.Email, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createAllowedEmail = `-- name: CreateAllowedEmail :one
INSERT INTO allowed_emails (id, email) VALUES ($1, lower($2))
RETURNING id, email, created_at`

func (q *Queries) CreateAllowedEmail(ctx context.Context, id uuid.UUID, email string) (AllowedEmail, error) {
	var i AllowedEmail
	err := q.db.QueryRowContext(ctx, createAllowedEmail, id, email).Scan(&i.ID, &i.Email, &i.CreatedAt)
	return i, err
}

const deleteAllowedEmail = `-- name: DeleteAllowedEmail :execrows
DELETE FROM allowed_emails WHERE email = lower($1)`

func (q *Queries) DeleteAllowedEmail(ctx context.Context, email string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllowedEmail, email)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
