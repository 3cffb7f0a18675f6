package store

import (
	"github.com/mcdev12/pickswap/go/internal/db"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/sqlutil"
)

func dbUserToModel(u db.User) *models.User {
	return &models.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      sqlutil.FromSqlString(u.Name, ""),
		Image:     sqlutil.FromSqlStringPtr(u.Image),
		CreatedAt: u.CreatedAt,
	}
}

func dbDraftPickToModel(p db.DraftPick) *models.DraftPick {
	return &models.DraftPick{
		ID:        p.ID,
		UserID:    p.UserID,
		Round:     int(p.Round),
		Year:      int(p.Year),
		IsTraded:  p.IsTraded,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
	}
}

func dbPlayerToModel(p db.Player) *models.Player {
	player := &models.Player{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		Name:         p.Name,
		Team:         sqlutil.FromSqlStringPtr(p.Team),
		Position:     p.Position,
		HeadshotURL:  sqlutil.FromSqlStringPtr(p.HeadshotUrl),
		JerseyNumber: sqlutil.FromSqlInt32(p.JerseyNumber),
		UserID:       sqlutil.FromNullUUID(p.UserID),
		IsTraded:     p.IsTraded,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
	}
	if p.Bio.Valid {
		player.Bio = p.Bio.RawMessage
	}
	return player
}

func dbTradeToModel(t db.Trade) *models.Trade {
	return &models.Trade{
		ID:         t.ID,
		FromUserID: t.FromUserID,
		ToUserID:   t.ToUserID,
		Status:     models.TradeStatus(t.Status),
		CreatedAt:  t.CreatedAt,
		DecidedAt:  sqlutil.FromSqlTime(t.DecidedAt),
	}
}

func dbTradeItemToModel(i db.TradeItem) models.TradeItem {
	item := models.TradeItem{
		ID:           i.ID,
		TradeID:      i.TradeID,
		Direction:    models.TradeDirection(i.Direction),
		AssetVersion: i.AssetVersion,
	}
	if i.DraftPickID.Valid {
		item.Asset = models.DraftPickRef(i.DraftPickID.UUID)
	} else {
		item.Asset = models.PlayerRef(i.PlayerID.UUID)
	}
	return item
}

func dbClaimToModel(c db.PlayerClaim) *models.PlayerClaim {
	return &models.PlayerClaim{
		ID:        c.ID,
		UserID:    c.UserID,
		PlayerID:  c.PlayerID,
		Status:    models.ClaimStatus(c.Status),
		CreatedAt: c.CreatedAt,
		DecidedAt: sqlutil.FromSqlTime(c.DecidedAt),
	}
}
