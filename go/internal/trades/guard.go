package trades

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/events"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/store"
)

// ReleaseAsset detaches ref from every trade so the asset row can be deleted.
// It must run inside the unit that deletes the asset.
//
// An asset that is part of an accepted trade cannot be released. Items of
// pending and rejected trades are removed, and a pending trade left with
// nothing offered by its proposer is deleted.
func (a *App) ReleaseAsset(ctx context.Context, tx store.Tx, ref models.AssetRef) error {
	items, err := tx.ListTradeItemsByAsset(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to list trade items for %s: %w", ref, err)
	}
	if len(items) == 0 {
		return nil
	}

	affected := make([]uuid.UUID, 0, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		trade, err := tx.GetTrade(ctx, it.TradeID, true)
		if err != nil {
			return err
		}
		if trade.Status == models.TradeStatusAccepted {
			return errs.InvalidState("cannot delete %s: it is part of an accepted trade", ref)
		}
		ids = append(ids, it.ID)
		affected = append(affected, trade.ID)
	}
	if err := tx.DeleteTradeItems(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete trade items: %w", err)
	}

	for _, id := range affected {
		trade, err := tx.GetTrade(ctx, id, true)
		if errs.Is(err, errs.KindNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if len(trade.Items) > 0 && (trade.Status != models.TradeStatusPending || len(trade.ItemsByDirection(models.TradeDirectionFrom)) > 0) {
			continue
		}
		if err := tx.DeleteTrade(ctx, trade.ID); err != nil {
			return fmt.Errorf("failed to delete emptied trade: %w", err)
		}
		if trade.Status == models.TradeStatusPending {
			if err := a.appendEvent(ctx, tx, events.TradeCancelled, trade, false); err != nil {
				return err
			}
		}
		log.Info().
			Str("trade_id", trade.ID.String()).
			Str("asset", ref.String()).
			Msg("trade deleted with its last offered asset")
	}
	return nil
}

// CheckActiveTrades fails with InvalidState when ref is part of a pending or
// accepted trade.
func (a *App) CheckActiveTrades(ctx context.Context, tx store.Tx, ref models.AssetRef) error {
	items, err := tx.ListTradeItemsByAsset(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to list trade items for %s: %w", ref, err)
	}
	for _, it := range items {
		trade, err := tx.GetTrade(ctx, it.TradeID, true)
		if err != nil {
			return err
		}
		if trade.Status == models.TradeStatusPending || trade.Status == models.TradeStatusAccepted {
			return errs.InvalidState("%s is part of an active trade", ref)
		}
	}
	return nil
}

// DeleteTradesOf removes every trade userID is party to. It fails with
// InvalidState while any of them is accepted, since those can only be undone
// through CancelTrade.
func (a *App) DeleteTradesOf(ctx context.Context, tx store.Tx, userID uuid.UUID) (int, error) {
	all, err := tx.ListTrades(ctx, models.TradeFilter{UserID: &userID})
	if err != nil {
		return 0, fmt.Errorf("failed to list trades: %w", err)
	}
	for _, t := range all {
		if t.Status == models.TradeStatusAccepted {
			return 0, errs.InvalidState("user is party to accepted trade %s; cancel it first", t.ID)
		}
	}
	for i := range all {
		if err := tx.DeleteTrade(ctx, all[i].ID); err != nil {
			return 0, fmt.Errorf("failed to delete trade %s: %w", all[i].ID, err)
		}
		if all[i].Status == models.TradeStatusPending {
			if err := a.appendEvent(ctx, tx, events.TradeCancelled, &all[i], false); err != nil {
				return 0, err
			}
		}
	}
	return len(all), nil
}
