package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/sqlutil"
)

const draftPickColumns = `id, user_id, round, year, is_traded, version, created_at, updated_at`

func scanDraftPick(row interface{ Scan(...any) error }) (DraftPick, error) {
	var i DraftPick
	err := row.Scan(&i.ID, &i.UserID, &i.Round, &i.Year, &i.IsTraded, &i.Version, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (q *Queries) queryDraftPicks(ctx context.Context, query string, args ...interface{}) ([]DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftPick
	for rows.Next() {
		i, err := scanDraftPick(rows)
		if err != nil {
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

const createDraftPick = `-- name: CreateDraftPick :one
INSERT INTO draft_picks (id, user_id, round, year)
VALUES ($1, $2, $3, $4)
RETURNING ` + draftPickColumns

type CreateDraftPickParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Round  int32
	Year   int32
}

func (q *Queries) CreateDraftPick(ctx context.Context, arg CreateDraftPickParams) (DraftPick, error) {
	row := q.db.QueryRowContext(ctx, createDraftPick, arg.ID, arg.UserID, arg.Round, arg.Year)
	return scanDraftPick(row)
}

const getDraftPick = `-- name: GetDraftPick :one
SELECT ` + draftPickColumns + ` FROM draft_picks WHERE id = $1`

func (q *Queries) GetDraftPick(ctx context.Context, id uuid.UUID) (DraftPick, error) {
	return scanDraftPick(q.db.QueryRowContext(ctx, getDraftPick, id))
}

const getDraftPickForUpdate = `-- name: GetDraftPickForUpdate :one
SELECT ` + draftPickColumns + ` FROM draft_picks WHERE id = $1 FOR UPDATE`

func (q *Queries) GetDraftPickForUpdate(ctx context.Context, id uuid.UUID) (DraftPick, error) {
	return scanDraftPick(q.db.QueryRowContext(ctx, getDraftPickForUpdate, id))
}

const listDraftPicksByUser = `-- name: ListDraftPicksByUser :many
SELECT ` + draftPickColumns + ` FROM draft_picks WHERE user_id = $1 ORDER BY year, round`

func (q *Queries) ListDraftPicksByUser(ctx context.Context, userID uuid.UUID) ([]DraftPick, error) {
	return q.queryDraftPicks(ctx, listDraftPicksByUser, userID)
}

const listAllDraftPicks = `-- name: ListAllDraftPicks :many
SELECT ` + draftPickColumns + ` FROM draft_picks ORDER BY user_id, year, round`

func (q *Queries) ListAllDraftPicks(ctx context.Context) ([]DraftPick, error) {
	return q.queryDraftPicks(ctx, listAllDraftPicks)
}

const listDraftPicksByIDs = `-- name: ListDraftPicksByIDs :many
SELECT ` + draftPickColumns + ` FROM draft_picks WHERE id = ANY($1::uuid[]) ORDER BY id`

func (q *Queries) ListDraftPicksByIDs(ctx context.Context, ids []uuid.UUID) ([]DraftPick, error) {
	return q.queryDraftPicks(ctx, listDraftPicksByIDs, sqlutil.UUIDArray(ids))
}

// Rows are locked in id order so concurrent transactions touching the same
// picks queue instead of deadlocking.
const lockDraftPicksByIDs = `-- name: LockDraftPicksByIDs :many
SELECT ` + draftPickColumns + ` FROM draft_picks WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`

func (q *Queries) LockDraftPicksByIDs(ctx context.Context, ids []uuid.UUID) ([]DraftPick, error) {
	return q.queryDraftPicks(ctx, lockDraftPicksByIDs, sqlutil.UUIDArray(ids))
}

const transferDraftPick = `-- name: TransferDraftPick :execrows
UPDATE draft_picks
SET user_id = $2, is_traded = $3, version = version + 1, updated_at = now()
WHERE id = $1
  AND user_id = $4
  AND ($5::bigint IS NULL OR version = $5)`

type TransferDraftPickParams struct {
	ID              uuid.UUID
	NewUserID       uuid.UUID
	IsTraded        bool
	ExpectedUserID  uuid.UUID
	ExpectedVersion sql.NullInt64
}

func (q *Queries) TransferDraftPick(ctx context.Context, arg TransferDraftPickParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, transferDraftPick,
		arg.ID, arg.NewUserID, arg.IsTraded, arg.ExpectedUserID, arg.ExpectedVersion)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteDraftPick = `-- name: DeleteDraftPick :execrows
DELETE FROM draft_picks WHERE id = $1`

func (q *Queries) DeleteDraftPick(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDraftPick, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteDraftPicksByUser = `-- name: DeleteDraftPicksByUser :execrows
DELETE FROM draft_picks WHERE user_id = $1`

func (q *Queries) DeleteDraftPicksByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDraftPicksByUser, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
