package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus represents the lifecycle state of a trade
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "pending"
	TradeStatusAccepted TradeStatus = "accepted"
	TradeStatusRejected TradeStatus = "rejected"
)

// TradeDirection says which side gives up the asset.
// From means the proposer gives it, To means the recipient gives it.
type TradeDirection string

const (
	TradeDirectionFrom TradeDirection = "from"
	TradeDirectionTo   TradeDirection = "to"
)

// Trade is a bilateral exchange proposal between two members
type Trade struct {
	ID         uuid.UUID   `json:"id"`
	FromUserID uuid.UUID   `json:"from_user_id"`
	ToUserID   uuid.UUID   `json:"to_user_id"`
	Status     TradeStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	DecidedAt  *time.Time  `json:"decided_at,omitempty"`
	Items      []TradeItem `json:"items"`
}

// TradeItem is one asset inside a trade. AssetVersion is the asset version
// observed when the trade was proposed.
type TradeItem struct {
	ID           uuid.UUID      `json:"id"`
	TradeID      uuid.UUID      `json:"trade_id"`
	Direction    TradeDirection `json:"direction"`
	Asset        AssetRef       `json:"asset"`
	AssetVersion int64          `json:"asset_version"`
}

// ItemsByDirection returns the items travelling in dir
func (t *Trade) ItemsByDirection(dir TradeDirection) []TradeItem {
	var out []TradeItem
	for _, item := range t.Items {
		if item.Direction == dir {
			out = append(out, item)
		}
	}
	return out
}

// Involves reports whether userID is either party of the trade
func (t *Trade) Involves(userID uuid.UUID) bool {
	return t.FromUserID == userID || t.ToUserID == userID
}

// TradeFilter narrows a trade listing. A nil UserID lists every trade.
type TradeFilter struct {
	UserID *uuid.UUID
	Status *TradeStatus
}
