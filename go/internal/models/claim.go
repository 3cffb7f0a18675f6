package models

import (
	"time"

	"github.com/google/uuid"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// PlayerClaim is a member's request to become the owner of an unclaimed player
type PlayerClaim struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	PlayerID  uuid.UUID   `json:"player_id"`
	Status    ClaimStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	DecidedAt *time.Time  `json:"decided_at,omitempty"`
}

// ClaimFilter narrows a claim listing
type ClaimFilter struct {
	UserID      *uuid.UUID
	Status      *ClaimStatus
	NewestFirst bool
}
