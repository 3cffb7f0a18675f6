package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a future draft selection owned by a member.
type DraftPick struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Round     int       `json:"round"`
	Year      int       `json:"year"`
	IsTraded  bool      `json:"is_traded"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Asset returns the ownership snapshot of the pick
func (p DraftPick) Asset() Asset {
	owner := p.UserID
	return Asset{
		Ref:      DraftPickRef(p.ID),
		OwnerID:  &owner,
		IsTraded: p.IsTraded,
		Version:  p.Version,
	}
}
