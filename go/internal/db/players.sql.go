package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/sqlutil"
)

const playerColumns = `id, external_id, name, team, position, headshot_url, jersey_number, bio, user_id, is_traded, version, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (Player, error) {
	var i Player
	err := row.Scan(
		&i.ID, &i.ExternalID, &i.Name, &i.Team, &i.Position, &i.HeadshotUrl, &i.JerseyNumber,
		&i.Bio, &i.UserID, &i.IsTraded, &i.Version, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const getPlayer = `-- name: GetPlayer :one
SELECT ` + playerColumns + ` FROM players WHERE id = $1`

func (q *Queries) GetPlayer(ctx context.Context, id uuid.UUID) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayer, id))
}

const getPlayerForUpdate = `-- name: GetPlayerForUpdate :one
SELECT ` + playerColumns + ` FROM players WHERE id = $1 FOR UPDATE`

func (q *Queries) GetPlayerForUpdate(ctx context.Context, id uuid.UUID) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayerForUpdate, id))
}

const listPlayers = `-- name: ListPlayers :many
SELECT ` + playerColumns + ` FROM players
WHERE ($1::uuid IS NULL OR user_id = $1)
  AND (NOT $2::boolean OR user_id IS NULL)
  AND ($3::text IS NULL OR name ILIKE '%' || $3 || '%' OR team ILIKE '%' || $3 || '%')
  AND ($4::text IS NULL OR position = $4)
ORDER BY name`

type ListPlayersParams struct {
	UserID     uuid.NullUUID
	Unassigned bool
	Search     sql.NullString
	Position   sql.NullString
}

func (q *Queries) ListPlayers(ctx context.Context, arg ListPlayersParams) ([]Player, error) {
	return q.queryPlayers(ctx, listPlayers, arg.UserID, arg.Unassigned, arg.Search, arg.Position)
}

const listPlayersByIDs = `-- name: ListPlayersByIDs :many
SELECT ` + playerColumns + ` FROM players WHERE id = ANY($1::uuid[]) ORDER BY id`

func (q *Queries) ListPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]Player, error) {
	return q.queryPlayers(ctx, listPlayersByIDs, sqlutil.UUIDArray(ids))
}

const lockPlayersByIDs = `-- name: LockPlayersByIDs :many
SELECT ` + playerColumns + ` FROM players WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`

func (q *Queries) LockPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]Player, error) {
	return q.queryPlayers(ctx, lockPlayersByIDs, sqlutil.UUIDArray(ids))
}

const transferPlayer = `-- name: TransferPlayer :execrows
UPDATE players
SET user_id = $2, is_traded = $3, version = version + 1, updated_at = now()
WHERE id = $1
  AND user_id IS NOT DISTINCT FROM $4
  AND ($5::bigint IS NULL OR version = $5)`

type TransferPlayerParams struct {
	ID              uuid.UUID
	NewUserID       uuid.NullUUID
	IsTraded        bool
	ExpectedUserID  uuid.NullUUID
	ExpectedVersion sql.NullInt64
}

func (q *Queries) TransferPlayer(ctx context.Context, arg TransferPlayerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, transferPlayer,
		arg.ID, arg.NewUserID, arg.IsTraded, arg.ExpectedUserID, arg.ExpectedVersion)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePlayer = `-- name: DeletePlayer :execrows
DELETE FROM players WHERE id = $1`

func (q *Queries) DeletePlayer(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePlayer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const unassignPlayersByUser = `-- name: UnassignPlayersByUser :execrows
UPDATE players
SET user_id = NULL, is_traded = false, version = version + 1, updated_at = now()
WHERE user_id = $1`

func (q *Queries) UnassignPlayersByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, unassignPlayersByUser, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
