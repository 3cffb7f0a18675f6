package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/db"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/sqlutil"
)

// Repository implements Store on Postgres
type Repository struct {
	conn *sql.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{conn: conn}
}

var _ Store = (*Repository)(nil)

func (r *Repository) ClaimBatch(ctx context.Context, limit int32, fn PublishFunc) error {
	return sqlutil.Run(ctx, r.conn, newQueries, func(q *db.Queries) error {
		rows, err := q.FetchUnsentOutboxEvents(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to fetch unsent outbox events: %w", err)
		}
		return markSent(ctx, q, rows, fn)
	})
}

// ClaimEvent is a no-op when the event is already sent or locked by another relay
func (r *Repository) ClaimEvent(ctx context.Context, id uuid.UUID, fn PublishFunc) error {
	return sqlutil.Run(ctx, r.conn, newQueries, func(q *db.Queries) error {
		row, err := q.FetchUnsentOutboxEvent(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to fetch outbox event: %w", err)
		}
		return markSent(ctx, q, []db.EventOutbox{row}, fn)
	})
}

func (r *Repository) CountUnsent(ctx context.Context) (int64, error) {
	n, err := db.New(r.conn).CountUnsentOutboxEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsent outbox events: %w", err)
	}
	return n, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.conn.PingContext(ctx)
}

func newQueries(tx *sql.Tx) *db.Queries { return db.New(tx) }

func markSent(ctx context.Context, q *db.Queries, rows []db.EventOutbox, fn PublishFunc) error {
	if len(rows) == 0 {
		return nil
	}
	events := make([]models.OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = models.OutboxEvent{
			ID:          row.ID,
			AggregateID: row.AggregateID,
			EventType:   row.EventType,
			Payload:     row.Payload,
			CreatedAt:   row.CreatedAt,
			SentAt:      sqlutil.FromSqlTime(row.SentAt),
		}
	}

	sent := fn(events)
	if len(sent) == 0 {
		return nil
	}
	if _, err := q.MarkOutboxEventsSent(ctx, sent); err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}
