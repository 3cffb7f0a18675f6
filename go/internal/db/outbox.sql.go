package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/sqlutil"
)

const outboxColumns = `id, aggregate_id, event_type, payload, created_at, sent_at`

func scanEventOutbox(row interface{ Scan(...any) error }) (EventOutbox, error) {
	var i EventOutbox
	err := row.Scan(&i.ID, &i.AggregateID, &i.EventType, &i.Payload, &i.CreatedAt, &i.SentAt)
	return i, err
}

const insertOutboxEvent = `-- name: InsertOutboxEvent :one
INSERT INTO event_outbox (id, aggregate_id, event_type, payload)
VALUES ($1, $2, $3, $4)
RETURNING ` + outboxColumns

type InsertOutboxEventParams struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	EventType   string
	Payload     []byte
}

func (q *Queries) InsertOutboxEvent(ctx context.Context, arg InsertOutboxEventParams) (EventOutbox, error) {
	row := q.db.QueryRowContext(ctx, insertOutboxEvent, arg.ID, arg.AggregateID, arg.EventType, arg.Payload)
	return scanEventOutbox(row)
}

const fetchUnsentOutboxEvents = `-- name: FetchUnsentOutboxEvents :many
SELECT ` + outboxColumns + ` FROM event_outbox
WHERE sent_at IS NULL
ORDER BY created_at, id
LIMIT $1
FOR UPDATE SKIP LOCKED`

func (q *Queries) FetchUnsentOutboxEvents(ctx context.Context, limit int32) ([]EventOutbox, error) {
	rows, err := q.db.QueryContext(ctx, fetchUnsentOutboxEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EventOutbox
	for rows.Next() {
		i, err := scanEventOutbox(rows)
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

const fetchUnsentOutboxEvent = `-- name: FetchUnsentOutboxEvent :one
SELECT ` + outboxColumns + ` FROM event_outbox
WHERE id = $1 AND sent_at IS NULL
FOR UPDATE SKIP LOCKED`

func (q *Queries) FetchUnsentOutboxEvent(ctx context.Context, id uuid.UUID) (EventOutbox, error) {
	return scanEventOutbox(q.db.QueryRowContext(ctx, fetchUnsentOutboxEvent, id))
}

const markOutboxEventsSent = `-- name: MarkOutboxEventsSent :execrows
UPDATE event_outbox SET sent_at = now() WHERE id = ANY($1::uuid[]) AND sent_at IS NULL`

func (q *Queries) MarkOutboxEventsSent(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, markOutboxEventsSent, sqlutil.UUIDArray(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countUnsentOutboxEvents = `-- name: CountUnsentOutboxEvents :one
SELECT count(*) FROM event_outbox WHERE sent_at IS NULL`

func (q *Queries) CountUnsentOutboxEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUnsentOutboxEvents).Scan(&n)
	return n, err
}
