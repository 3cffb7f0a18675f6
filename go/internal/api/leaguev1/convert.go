package leaguev1

import "github.com/mcdev12/pickswap/go/internal/models"

func PickFromModel(p *models.DraftPick) *DraftPick {
	return &DraftPick{
		ID:       p.ID.String(),
		UserID:   p.UserID.String(),
		Round:    p.Round,
		Year:     p.Year,
		IsTraded: p.IsTraded,
		Version:  p.Version,
	}
}

func PicksFromModels(picks []models.DraftPick) []*DraftPick {
	out := make([]*DraftPick, 0, len(picks))
	for i := range picks {
		out = append(out, PickFromModel(&picks[i]))
	}
	return out
}

func PlayerFromModel(p *models.Player) *Player {
	out := &Player{
		ID:           p.ID.String(),
		ExternalID:   p.ExternalID,
		Name:         p.Name,
		Position:     p.Position,
		JerseyNumber: p.JerseyNumber,
		Bio:          p.Bio,
		IsTraded:     p.IsTraded,
		Version:      p.Version,
	}
	if p.Team != nil {
		out.Team = *p.Team
	}
	if p.HeadshotURL != nil {
		out.HeadshotURL = *p.HeadshotURL
	}
	if p.UserID != nil {
		out.UserID = p.UserID.String()
	}
	return out
}

func PlayersFromModels(players []models.Player) []*Player {
	out := make([]*Player, 0, len(players))
	for i := range players {
		out = append(out, PlayerFromModel(&players[i]))
	}
	return out
}

func MemberFromModel(u *models.User) *Member {
	m := &Member{ID: u.ID.String(), Email: u.Email, Name: u.Name}
	if u.Image != nil {
		m.Image = *u.Image
	}
	return m
}

func ClaimFromModel(c *models.PlayerClaim) *PlayerClaim {
	return &PlayerClaim{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		PlayerID:  c.PlayerID.String(),
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		DecidedAt: c.DecidedAt,
	}
}

func ClaimsFromModels(claims []models.PlayerClaim) []*PlayerClaim {
	out := make([]*PlayerClaim, 0, len(claims))
	for i := range claims {
		out = append(out, ClaimFromModel(&claims[i]))
	}
	return out
}
