package models

import (
	"fmt"

	"github.com/google/uuid"
)

// AssetKind identifies the tradeable table an asset lives in
type AssetKind string

const (
	AssetKindDraftPick AssetKind = "draft_pick"
	AssetKindPlayer    AssetKind = "player"
)

// AssetRef points at exactly one draft pick or player.
type AssetRef struct {
	Kind AssetKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func DraftPickRef(id uuid.UUID) AssetRef { return AssetRef{Kind: AssetKindDraftPick, ID: id} }

func PlayerRef(id uuid.UUID) AssetRef { return AssetRef{Kind: AssetKindPlayer, ID: id} }

func (r AssetRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Valid reports whether the ref names a known kind and a non-nil id
func (r AssetRef) Valid() bool {
	return (r.Kind == AssetKindDraftPick || r.Kind == AssetKindPlayer) && r.ID != uuid.Nil
}

// Asset is the ownership state of one tradeable asset at a point in time.
type Asset struct {
	Ref      AssetRef   `json:"ref"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
	IsTraded bool       `json:"is_traded"`
	Version  int64      `json:"version"`
}

// OwnedBy reports whether the asset is currently owned by userID
func (a Asset) OwnedBy(userID uuid.UUID) bool {
	return a.OwnerID != nil && *a.OwnerID == userID
}

// SplitRefs partitions refs by kind, preserving order.
func SplitRefs(refs []AssetRef) (picks, players []uuid.UUID) {
	for _, r := range refs {
		switch r.Kind {
		case AssetKindDraftPick:
			picks = append(picks, r.ID)
		case AssetKindPlayer:
			players = append(players, r.ID)
		}
	}
	return picks, players
}
