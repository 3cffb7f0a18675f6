package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/models"
)

// Event types written to the outbox. They are published on
// league.events.<type>.
const (
	TradeCreated   = "trade.created"
	TradeAccepted  = "trade.accepted"
	TradeRejected  = "trade.rejected"
	TradeCancelled = "trade.cancelled"
	ClaimApproved  = "claim.approved"
	ClaimRejected  = "claim.rejected"
)

// TradeItemPayload describes one asset moving in a trade
type TradeItemPayload struct {
	Direction string `json:"direction"`
	Kind      string `json:"kind"`
	AssetID   string `json:"asset_id"`
}

// TradePayload is the payload for every trade.* event
type TradePayload struct {
	TradeID    string             `json:"trade_id"`
	FromUserID string             `json:"from_user_id"`
	ToUserID   string             `json:"to_user_id"`
	Status     string             `json:"status"`
	Items      []TradeItemPayload `json:"items"`
	// Reversed is set on trade.cancelled when ownership was handed back
	Reversed   bool      `json:"reversed,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ClaimPayload is the payload for claim.approved and claim.rejected
type ClaimPayload struct {
	ClaimID    string    `json:"claim_id"`
	UserID     string    `json:"user_id"`
	PlayerID   string    `json:"player_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTradeEvent builds the outbox row for a trade transition
func NewTradeEvent(eventType string, t *models.Trade, reversed bool, at time.Time) (models.OutboxEvent, error) {
	p := TradePayload{
		TradeID:    t.ID.String(),
		FromUserID: t.FromUserID.String(),
		ToUserID:   t.ToUserID.String(),
		Status:     string(t.Status),
		Reversed:   reversed,
		OccurredAt: at,
	}
	for _, it := range t.Items {
		p.Items = append(p.Items, TradeItemPayload{
			Direction: string(it.Direction),
			Kind:      string(it.Asset.Kind),
			AssetID:   it.Asset.ID.String(),
		})
	}
	return newEvent(eventType, t.ID, p, at)
}

// NewClaimEvent builds the outbox row for a claim decision
func NewClaimEvent(eventType string, c *models.PlayerClaim, at time.Time) (models.OutboxEvent, error) {
	return newEvent(eventType, c.ID, ClaimPayload{
		ClaimID:    c.ID.String(),
		UserID:     c.UserID.String(),
		PlayerID:   c.PlayerID.String(),
		Status:     string(c.Status),
		OccurredAt: at,
	}, at)
}

func newEvent(eventType string, aggregateID uuid.UUID, payload any, at time.Time) (models.OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.OutboxEvent{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return models.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Payload:     raw,
		CreatedAt:   at,
	}, nil
}
