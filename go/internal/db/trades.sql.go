package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/sqlutil"
)

const tradeColumns = `id, from_user_id, to_user_id, status, created_at, decided_at`

func scanTrade(row interface{ Scan(...any) error }) (Trade, error) {
	var i Trade
	err := row.Scan(&i.ID, &i.FromUserID, &i.ToUserID, &i.Status, &i.CreatedAt, &i.DecidedAt)
	return i, err
}

func (q *Queries) queryTrades(ctx context.Context, query string, args ...interface{}) ([]Trade, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Trade
	for rows.Next() {
		i, err := scanTrade(rows)
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

const createTrade = `-- name: CreateTrade :one
INSERT INTO trades (id, from_user_id, to_user_id, status, created_at)
VALUES ($1, $2, $3, 'pending', $4)
RETURNING ` + tradeColumns

type CreateTradeParams struct {
	ID         uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	CreatedAt  time.Time
}

func (q *Queries) CreateTrade(ctx context.Context, arg CreateTradeParams) (Trade, error) {
	row := q.db.QueryRowContext(ctx, createTrade, arg.ID, arg.FromUserID, arg.ToUserID, arg.CreatedAt)
	return scanTrade(row)
}

const getTrade = `-- name: GetTrade :one
SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

func (q *Queries) GetTrade(ctx context.Context, id uuid.UUID) (Trade, error) {
	return scanTrade(q.db.QueryRowContext(ctx, getTrade, id))
}

const getTradeForUpdate = `-- name: GetTradeForUpdate :one
SELECT ` + tradeColumns + ` FROM trades WHERE id = $1 FOR UPDATE`

func (q *Queries) GetTradeForUpdate(ctx context.Context, id uuid.UUID) (Trade, error) {
	return scanTrade(q.db.QueryRowContext(ctx, getTradeForUpdate, id))
}

const listTrades = `-- name: ListTrades :many
SELECT ` + tradeColumns + ` FROM trades
WHERE ($1::uuid IS NULL OR from_user_id = $1 OR to_user_id = $1)
  AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC, id`

type ListTradesParams struct {
	UserID uuid.NullUUID
	Status sql.NullString
}

func (q *Queries) ListTrades(ctx context.Context, arg ListTradesParams) ([]Trade, error) {
	return q.queryTrades(ctx, listTrades, arg.UserID, arg.Status)
}

const listTradesByIDs = `-- name: ListTradesByIDs :many
SELECT ` + tradeColumns + ` FROM trades WHERE id = ANY($1::uuid[]) ORDER BY created_at DESC, id`

func (q *Queries) ListTradesByIDs(ctx context.Context, ids []uuid.UUID) ([]Trade, error) {
	return q.queryTrades(ctx, listTradesByIDs, sqlutil.UUIDArray(ids))
}

const updateTradeStatus = `-- name: UpdateTradeStatus :execrows
UPDATE trades SET status = $2, decided_at = $3
WHERE id = $1 AND status = $4`

type UpdateTradeStatusParams struct {
	ID             uuid.UUID
	Status         string
	DecidedAt      sql.NullTime
	ExpectedStatus string
}

func (q *Queries) UpdateTradeStatus(ctx context.Context, arg UpdateTradeStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTradeStatus, arg.ID, arg.Status, arg.DecidedAt, arg.ExpectedStatus)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTrade = `-- name: DeleteTrade :execrows
DELETE FROM trades WHERE id = $1`

func (q *Queries) DeleteTrade(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTrade, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const tradeItemColumns = `id, trade_id, direction, draft_pick_id, player_id, asset_version`

func scanTradeItem(row interface{ Scan(...any) error }) (TradeItem, error) {
	var i TradeItem
	err := row.Scan(&i.ID, &i.TradeID, &i.Direction, &i.DraftPickID, &i.PlayerID, &i.AssetVersion)
	return i, err
}

func (q *Queries) queryTradeItems(ctx context.Context, query string, args ...interface{}) ([]TradeItem, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TradeItem
	for rows.Next() {
		i, err := scanTradeItem(rows)
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

const createTradeItem = `-- name: CreateTradeItem :one
INSERT INTO trade_items (id, trade_id, direction, draft_pick_id, player_id, asset_version)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + tradeItemColumns

type CreateTradeItemParams struct {
	ID           uuid.UUID
	TradeID      uuid.UUID
	Direction    string
	DraftPickID  uuid.NullUUID
	PlayerID     uuid.NullUUID
	AssetVersion int64
}

func (q *Queries) CreateTradeItem(ctx context.Context, arg CreateTradeItemParams) (TradeItem, error) {
	row := q.db.QueryRowContext(ctx, createTradeItem,
		arg.ID, arg.TradeID, arg.Direction, arg.DraftPickID, arg.PlayerID, arg.AssetVersion)
	return scanTradeItem(row)
}

const listTradeItemsByTradeIDs = `-- name: ListTradeItemsByTradeIDs :many
SELECT ` + tradeItemColumns + ` FROM trade_items WHERE trade_id = ANY($1::uuid[]) ORDER BY trade_id, direction, id`

func (q *Queries) ListTradeItemsByTradeIDs(ctx context.Context, tradeIDs []uuid.UUID) ([]TradeItem, error) {
	return q.queryTradeItems(ctx, listTradeItemsByTradeIDs, sqlutil.UUIDArray(tradeIDs))
}

// ListTradeItemsByAsset returns every item referencing the pick or the player.
// Exactly one of the two arguments is expected to be valid.
const listTradeItemsByAsset = `-- name: ListTradeItemsByAsset :many
SELECT ` + tradeItemColumns + ` FROM trade_items
WHERE ($1::uuid IS NOT NULL AND draft_pick_id = $1)
   OR ($2::uuid IS NOT NULL AND player_id = $2)
ORDER BY trade_id, id`

func (q *Queries) ListTradeItemsByAsset(ctx context.Context, draftPickID, playerID uuid.NullUUID) ([]TradeItem, error) {
	return q.queryTradeItems(ctx, listTradeItemsByAsset, draftPickID, playerID)
}

const deleteTradeItemsByTrade = `-- name: DeleteTradeItemsByTrade :execrows
DELETE FROM trade_items WHERE trade_id = $1`

func (q *Queries) DeleteTradeItemsByTrade(ctx context.Context, tradeID uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTradeItemsByTrade, tradeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTradeItems = `-- name: DeleteTradeItems :execrows
DELETE FROM trade_items WHERE id = ANY($1::uuid[])`

func (q *Queries) DeleteTradeItems(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTradeItems, sqlutil.UUIDArray(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
