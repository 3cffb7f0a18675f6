package trades

import (
	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/models"
)

// Decision is the recipient's answer to a pending trade
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// CreateTradeRequest is a proposal from the caller to RecipientID.
// Offered assets are the caller's, requested assets the recipient's.
type CreateTradeRequest struct {
	RecipientID        uuid.UUID
	OfferedPickIDs     []uuid.UUID
	OfferedPlayerIDs   []uuid.UUID
	RequestedPickIDs   []uuid.UUID
	RequestedPlayerIDs []uuid.UUID
}

func (r CreateTradeRequest) offered() []models.AssetRef {
	return refs(r.OfferedPickIDs, r.OfferedPlayerIDs)
}

func (r CreateTradeRequest) requested() []models.AssetRef {
	return refs(r.RequestedPickIDs, r.RequestedPlayerIDs)
}

func refs(picks, players []uuid.UUID) []models.AssetRef {
	out := make([]models.AssetRef, 0, len(picks)+len(players))
	for _, id := range picks {
		out = append(out, models.DraftPickRef(id))
	}
	for _, id := range players {
		out = append(out, models.PlayerRef(id))
	}
	return out
}

// MyTrades splits a member's trades by role
type MyTrades struct {
	Sent     []models.Trade
	Received []models.Trade
}

// Transition names reported to metrics besides the decided status
const (
	transitionCreated   = "created"
	transitionCancelled = "cancelled"
	transitionReversed  = "reversed"
)
