package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const claimColumns = `id, user_id, player_id, status, created_at, decided_at`

func scanPlayerClaim(row interface{ Scan(...any) error }) (PlayerClaim, error) {
	var i PlayerClaim
	err := row.Scan(&i.ID, &i.UserID, &i.PlayerID, &i.Status, &i.CreatedAt, &i.DecidedAt)
	return i, err
}

const createPlayerClaim = `-- name: CreatePlayerClaim :one
INSERT INTO player_claims (id, user_id, player_id, status, created_at)
VALUES ($1, $2, $3, 'pending', $4)
RETURNING ` + claimColumns

type CreatePlayerClaimParams struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PlayerID  uuid.UUID
	CreatedAt time.Time
}

func (q *Queries) CreatePlayerClaim(ctx context.Context, arg CreatePlayerClaimParams) (PlayerClaim, error) {
	row := q.db.QueryRowContext(ctx, createPlayerClaim, arg.ID, arg.UserID, arg.PlayerID, arg.CreatedAt)
	return scanPlayerClaim(row)
}

const getPlayerClaim = `-- name: GetPlayerClaim :one
SELECT ` + claimColumns + ` FROM player_claims WHERE id = $1`

func (q *Queries) GetPlayerClaim(ctx context.Context, id uuid.UUID) (PlayerClaim, error) {
	return scanPlayerClaim(q.db.QueryRowContext(ctx, getPlayerClaim, id))
}

const getPlayerClaimForUpdate = `-- name: GetPlayerClaimForUpdate :one
SELECT ` + claimColumns + ` FROM player_claims WHERE id = $1 FOR UPDATE`

func (q *Queries) GetPlayerClaimForUpdate(ctx context.Context, id uuid.UUID) (PlayerClaim, error) {
	return scanPlayerClaim(q.db.QueryRowContext(ctx, getPlayerClaimForUpdate, id))
}

const getPlayerClaimByUserAndPlayer = `-- name: GetPlayerClaimByUserAndPlayer :one
SELECT ` + claimColumns + ` FROM player_claims WHERE user_id = $1 AND player_id = $2`

func (q *Queries) GetPlayerClaimByUserAndPlayer(ctx context.Context, userID, playerID uuid.UUID) (PlayerClaim, error) {
	return scanPlayerClaim(q.db.QueryRowContext(ctx, getPlayerClaimByUserAndPlayer, userID, playerID))
}

const listPlayerClaims = `-- name: ListPlayerClaims :many
SELECT ` + claimColumns + ` FROM player_claims
WHERE ($1::uuid IS NULL OR user_id = $1)
  AND ($2::text IS NULL OR status = $2)
ORDER BY
  CASE WHEN $3::boolean THEN created_at END DESC,
  CASE WHEN NOT $3::boolean THEN created_at END ASC,
  id`

type ListPlayerClaimsParams struct {
	UserID      uuid.NullUUID
	Status      sql.NullString
	NewestFirst bool
}

func (q *Queries) ListPlayerClaims(ctx context.Context, arg ListPlayerClaimsParams) ([]PlayerClaim, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerClaims, arg.UserID, arg.Status, arg.NewestFirst)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerClaim
	for rows.Next() {
		i, err := scanPlayerClaim(rows)
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

const updatePlayerClaimStatus = `-- name: UpdatePlayerClaimStatus :execrows
UPDATE player_claims SET status = $2, decided_at = $3
WHERE id = $1 AND status = $4`

type UpdatePlayerClaimStatusParams struct {
	ID             uuid.UUID
	Status         string
	DecidedAt      sql.NullTime
	ExpectedStatus string
}

func (q *Queries) UpdatePlayerClaimStatus(ctx context.Context, arg UpdatePlayerClaimStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePlayerClaimStatus, arg.ID, arg.Status, arg.DecidedAt, arg.ExpectedStatus)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePlayerClaim = `-- name: DeletePlayerClaim :execrows
DELETE FROM player_claims WHERE id = $1`

func (q *Queries) DeletePlayerClaim(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePlayerClaim, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePlayerClaimsByUser = `-- name: DeletePlayerClaimsByUser :execrows
DELETE FROM player_claims WHERE user_id = $1`

func (q *Queries) DeletePlayerClaimsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePlayerClaimsByUser, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePlayerClaimsByPlayer = `-- name: DeletePlayerClaimsByPlayer :execrows
DELETE FROM player_claims WHERE player_id = $1`

func (q *Queries) DeletePlayerClaimsByPlayer(ctx context.Context, playerID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePlayerClaimsByPlayer, playerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
