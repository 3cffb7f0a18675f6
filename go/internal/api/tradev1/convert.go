package tradev1

import "github.com/mcdev12/pickswap/go/internal/models"

// FromModel converts a trade and its items to the wire form
func FromModel(t *models.Trade) *Trade {
	out := &Trade{
		ID:         t.ID.String(),
		FromUserID: t.FromUserID.String(),
		ToUserID:   t.ToUserID.String(),
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt,
		DecidedAt:  t.DecidedAt,
		Items:      make([]*TradeItem, 0, len(t.Items)),
	}
	for _, it := range t.Items {
		out.Items = append(out.Items, &TradeItem{
			ID:           it.ID.String(),
			Direction:    string(it.Direction),
			Kind:         string(it.Asset.Kind),
			AssetID:      it.Asset.ID.String(),
			AssetVersion: it.AssetVersion,
		})
	}
	return out
}

// FromModels converts a trade listing
func FromModels(trades []models.Trade) []*Trade {
	out := make([]*Trade, 0, len(trades))
	for i := range trades {
		out = append(out, FromModel(&trades[i]))
	}
	return out
}
