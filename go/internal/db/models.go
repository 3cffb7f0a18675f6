package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Name      sql.NullString
	Image     sql.NullString
	CreatedAt time.Time
}

type AllowedEmail struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

type DraftPick struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Round     int32
	Year      int32
	IsTraded  bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Player struct {
	ID           uuid.UUID
	ExternalID   string
	Name         string
	Team         sql.NullString
	Position     string
	HeadshotUrl  sql.NullString
	JerseyNumber sql.NullInt32
	Bio          pqtype.NullRawMessage
	UserID       uuid.NullUUID
	IsTraded     bool
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PlayerClaim struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PlayerID  uuid.UUID
	Status    string
	CreatedAt time.Time
	DecidedAt sql.NullTime
}

type Trade struct {
	ID         uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	Status     string
	CreatedAt  time.Time
	DecidedAt  sql.NullTime
}

type TradeItem struct {
	ID           uuid.UUID
	TradeID      uuid.UUID
	Direction    string
	DraftPickID  uuid.NullUUID
	PlayerID     uuid.NullUUID
	AssetVersion int64
}

type EventOutbox struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	SentAt      sql.NullTime
}
