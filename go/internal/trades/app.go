package trades

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/events"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/ownership"
	"github.com/mcdev12/pickswap/go/internal/store"
)

// Recorder receives committed trade transitions
type Recorder interface {
	TradeTransition(transition string)
}

type noopRecorder struct{}

func (noopRecorder) TradeTransition(string) {}

// App is the trade state machine and reversal engine
type App struct {
	store   store.Runner
	clock   clockwork.Clock
	metrics Recorder
}

// NewApp creates a trades App. A nil recorder disables metrics.
func NewApp(s store.Runner, clock clockwork.Clock, metrics Recorder) *App {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &App{store: s, clock: clock, metrics: metrics}
}

// CreateTrade proposes a trade from proposerID. The offered assets must be the
// proposer's and uncommitted; requested assets are only required to exist and
// have their current version recorded for the accept-time check.
func (a *App) CreateTrade(ctx context.Context, proposerID uuid.UUID, req CreateTradeRequest) (*models.Trade, error) {
	offered, requested := req.offered(), req.requested()
	if err := validateCreate(proposerID, req.RecipientID, offered, requested); err != nil {
		return nil, err
	}

	var created *models.Trade
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetUser(ctx, req.RecipientID); err != nil {
			if errs.Is(err, errs.KindNotFound) {
				return errs.Validation("recipient %s does not exist", req.RecipientID)
			}
			return fmt.Errorf("failed to load recipient: %w", err)
		}

		offeredAssets, err := ownership.ValidateOwnership(ctx, tx, proposerID, offered, false)
		if err != nil {
			return err
		}
		requestedAssets, err := ownership.LoadAssets(ctx, tx, requested, false)
		if err != nil {
			return err
		}

		trade := models.Trade{
			FromUserID: proposerID,
			ToUserID:   req.RecipientID,
			Status:     models.TradeStatusPending,
			CreatedAt:  a.clock.Now().UTC(),
		}
		for _, asset := range offeredAssets {
			trade.Items = append(trade.Items, models.TradeItem{
				Direction:    models.TradeDirectionFrom,
				Asset:        asset.Ref,
				AssetVersion: asset.Version,
			})
		}
		for _, ref := range requested {
			trade.Items = append(trade.Items, models.TradeItem{
				Direction:    models.TradeDirectionTo,
				Asset:        ref,
				AssetVersion: requestedAssets[ref].Version,
			})
		}

		created, err = tx.CreateTrade(ctx, trade)
		if err != nil {
			return fmt.Errorf("failed to create trade: %w", err)
		}
		return a.appendEvent(ctx, tx, events.TradeCreated, created, false)
	})
	if err != nil {
		return nil, err
	}

	a.metrics.TradeTransition(transitionCreated)
	log.Info().
		Str("trade_id", created.ID.String()).
		Str("from_user_id", proposerID.String()).
		Str("to_user_id", req.RecipientID.String()).
		Int("items", len(created.Items)).
		Msg("trade proposed")
	return created, nil
}

func validateCreate(proposerID, recipientID uuid.UUID, offered, requested []models.AssetRef) error {
	if recipientID == uuid.Nil {
		return errs.Validation("recipient is required")
	}
	if recipientID == proposerID {
		return errs.Validation("cannot propose a trade to yourself")
	}
	if len(offered) == 0 {
		return errs.Validation("a trade must offer at least one asset")
	}
	seen := make(map[models.AssetRef]struct{}, len(offered)+len(requested))
	for _, r := range append(append([]models.AssetRef(nil), offered...), requested...) {
		if r.ID == uuid.Nil {
			return errs.Validation("asset ids must not be empty")
		}
		if _, dup := seen[r]; dup {
			return errs.Validation("asset %s appears more than once", r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

// DecideTrade applies the recipient's decision to a pending trade.
//
// Accepting re-checks every item inside the unit: each asset must still be
// held by the side giving it up, uncommitted, and at the version recorded when
// the trade was proposed. Ownership moves before the status flips, and the
// status change itself is a compare-and-swap from pending.
func (a *App) DecideTrade(ctx context.Context, tradeID, deciderID uuid.UUID, decision Decision) (*models.Trade, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, errs.Validation("action must be %q or %q", DecisionAccept, DecisionReject)
	}

	var decided *models.Trade
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		trade, err := tx.GetTrade(ctx, tradeID, true)
		if err != nil {
			return err
		}
		if trade.ToUserID != deciderID {
			return errs.Forbidden("only the recipient may decide this trade")
		}
		if trade.Status != models.TradeStatusPending {
			return errs.InvalidState("trade is no longer pending")
		}

		next := models.TradeStatusRejected
		eventType := events.TradeRejected
		if decision == DecisionAccept {
			if err := a.transferForAccept(ctx, tx, trade); err != nil {
				return err
			}
			next = models.TradeStatusAccepted
			eventType = events.TradeAccepted
		}

		now := a.clock.Now().UTC()
		ok, err := tx.UpdateTradeStatus(ctx, trade.ID, models.TradeStatusPending, next, now)
		if err != nil {
			return fmt.Errorf("failed to update trade status: %w", err)
		}
		if !ok {
			return errs.InvalidState("trade is no longer pending")
		}
		trade.Status = next
		trade.DecidedAt = &now
		decided = trade
		return a.appendEvent(ctx, tx, eventType, trade, false)
	})
	if err != nil {
		return nil, err
	}

	a.metrics.TradeTransition(string(decided.Status))
	log.Info().
		Str("trade_id", tradeID.String()).
		Str("status", string(decided.Status)).
		Msg("trade decided")
	return decided, nil
}

func (a *App) transferForAccept(ctx context.Context, tx store.Tx, trade *models.Trade) error {
	current, err := lockItems(ctx, tx, trade)
	if err != nil {
		return err
	}

	transfers := make([]ownership.Transfer, 0, len(trade.Items))
	for _, item := range trade.Items {
		giver, taker := trade.FromUserID, trade.ToUserID
		if item.Direction == models.TradeDirectionTo {
			giver, taker = trade.ToUserID, trade.FromUserID
		}
		asset, ok := current[item.Asset]
		if !ok || !asset.OwnedBy(giver) || asset.IsTraded || asset.Version != item.AssetVersion {
			return errs.Wrap(errs.KindOwnership, ownership.ErrInvalidAssetSelection,
				"asset %s is no longer available for this trade", item.Asset)
		}
		version := item.AssetVersion
		transfers = append(transfers, ownership.Transfer{
			Ref:             item.Asset,
			ExpectedOwner:   uuidPtr(giver),
			ExpectedVersion: &version,
			NewOwner:        uuidPtr(taker),
			IsTraded:        true,
		})
	}
	return ownership.Apply(ctx, tx, transfers)
}

// CancelTrade is the admin cancellation. A trade that was never accepted is
// deleted as is; an accepted one first has every item handed back to the side
// that gave it up, with isTraded cleared. Reversal refuses to run when any
// asset moved after the acceptance.
func (a *App) CancelTrade(ctx context.Context, tradeID uuid.UUID) error {
	var (
		reversed bool
		items    int
	)
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		trade, err := tx.GetTrade(ctx, tradeID, true)
		if err != nil {
			return err
		}
		items = len(trade.Items)

		if trade.Status == models.TradeStatusAccepted {
			if err := reverse(ctx, tx, trade); err != nil {
				return err
			}
			reversed = true
		}

		if err := tx.DeleteTrade(ctx, trade.ID); err != nil {
			return fmt.Errorf("failed to delete trade: %w", err)
		}
		return a.appendEvent(ctx, tx, events.TradeCancelled, trade, reversed)
	})
	if err != nil {
		return err
	}

	transition := transitionCancelled
	if reversed {
		transition = transitionReversed
	}
	a.metrics.TradeTransition(transition)
	log.Info().
		Str("trade_id", tradeID.String()).
		Bool("reversed", reversed).
		Int("items", items).
		Msg("trade cancelled")
	return nil
}

func reverse(ctx context.Context, tx store.Tx, trade *models.Trade) error {
	if _, err := lockItems(ctx, tx, trade); err != nil {
		return err
	}

	transfers := make([]ownership.Transfer, 0, len(trade.Items))
	for _, item := range trade.Items {
		// holder is who received the asset on accept
		holder, original := trade.ToUserID, trade.FromUserID
		if item.Direction == models.TradeDirectionTo {
			holder, original = trade.FromUserID, trade.ToUserID
		}
		// accept bumped the version exactly once
		version := item.AssetVersion + 1
		transfers = append(transfers, ownership.Transfer{
			Ref:             item.Asset,
			ExpectedOwner:   uuidPtr(holder),
			ExpectedVersion: &version,
			NewOwner:        uuidPtr(original),
			IsTraded:        false,
		})
	}
	if err := ownership.Apply(ctx, tx, transfers); err != nil {
		return fmt.Errorf("cannot reverse trade %s: %w", trade.ID, err)
	}
	return nil
}

// lockItems locks every asset of the trade in a fixed order and returns their
// current state keyed by ref.
func lockItems(ctx context.Context, tx store.Tx, trade *models.Trade) (map[models.AssetRef]models.Asset, error) {
	refs := make([]models.AssetRef, 0, len(trade.Items))
	for _, item := range trade.Items {
		refs = append(refs, item.Asset)
	}
	assets, err := tx.GetAssets(ctx, refs, true)
	if err != nil {
		return nil, fmt.Errorf("failed to lock trade assets: %w", err)
	}
	out := make(map[models.AssetRef]models.Asset, len(assets))
	for _, asset := range assets {
		out[asset.Ref] = asset
	}
	return out, nil
}

// GetTrade returns a trade visible to viewerID. Admins see every trade.
func (a *App) GetTrade(ctx context.Context, tradeID, viewerID uuid.UUID, admin bool) (*models.Trade, error) {
	var trade *models.Trade
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		trade, err = tx.GetTrade(ctx, tradeID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !admin && !trade.Involves(viewerID) {
		return nil, errs.NotFound("trade %s not found", tradeID)
	}
	return trade, nil
}

// ListMyTrades returns the trades userID proposed and received, newest first
func (a *App) ListMyTrades(ctx context.Context, userID uuid.UUID, status *models.TradeStatus) (*MyTrades, error) {
	var all []models.Trade
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		all, err = tx.ListTrades(ctx, models.TradeFilter{UserID: &userID, Status: status})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}

	out := &MyTrades{Sent: []models.Trade{}, Received: []models.Trade{}}
	for _, t := range all {
		if t.FromUserID == userID {
			out.Sent = append(out.Sent, t)
		} else {
			out.Received = append(out.Received, t)
		}
	}
	return out, nil
}

// ListAllTrades returns every trade, newest first
func (a *App) ListAllTrades(ctx context.Context, status *models.TradeStatus) ([]models.Trade, error) {
	var all []models.Trade
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		all, err = tx.ListTrades(ctx, models.TradeFilter{Status: status})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return all, nil
}

func (a *App) appendEvent(ctx context.Context, tx store.Tx, eventType string, trade *models.Trade, reversed bool) error {
	ev, err := events.NewTradeEvent(eventType, trade, reversed, a.clock.Now().UTC())
	if err != nil {
		return err
	}
	return tx.AppendEvent(ctx, ev)
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
