package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Player represents a claimable roster entry sourced from the external player dataset
type Player struct {
	ID           uuid.UUID       `json:"id"`
	ExternalID   string          `json:"external_id"`
	Name         string          `json:"name"`
	Team         *string         `json:"team,omitempty"`
	Position     string          `json:"position"`
	HeadshotURL  *string         `json:"headshot_url,omitempty"`
	JerseyNumber *int            `json:"jersey_number,omitempty"`
	Bio          json.RawMessage `json:"bio,omitempty"`
	UserID       *uuid.UUID      `json:"user_id,omitempty"` // nil while unclaimed
	IsTraded     bool            `json:"is_traded"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PlayerBio holds the physical and career attributes stored as jsonb
type PlayerBio struct {
	Age           *int    `json:"age,omitempty"`
	DateOfBirth   *string `json:"date_of_birth,omitempty"`
	BirthCity     *string `json:"birth_city,omitempty"`
	BirthCountry  *string `json:"birth_country,omitempty"`
	Nationality   *string `json:"nationality,omitempty"`
	HeightIn      *int    `json:"height_in,omitempty"`
	WeightLbs     *int    `json:"weight_lbs,omitempty"`
	DraftYear     *int    `json:"draft_year,omitempty"`
	DraftTeam     *string `json:"draft_team,omitempty"`
	DraftRound    *int    `json:"draft_round,omitempty"`
	DraftPosition *int    `json:"draft_position,omitempty"`
	TeamLogoURL   *string `json:"team_logo_url,omitempty"`
}

// Asset returns the ownership snapshot of the player
func (p Player) Asset() Asset {
	return Asset{
		Ref:      PlayerRef(p.ID),
		OwnerID:  p.UserID,
		IsTraded: p.IsTraded,
		Version:  p.Version,
	}
}

// PlayerFilter narrows a player listing
type PlayerFilter struct {
	UserID     *uuid.UUID
	Unassigned bool
	Search     string
	Position   string
}
