package pick

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/store"
)

// TradeGuard defines what the pick app needs from the trades application
type TradeGuard interface {
	ReleaseAsset(ctx context.Context, tx store.Tx, ref models.AssetRef) error
}

// App handles draft pick business logic
type App struct {
	store  store.Runner
	clock  clockwork.Clock
	trades TradeGuard
}

// NewApp creates a new pick App
func NewApp(s store.Runner, clock clockwork.Clock, trades TradeGuard) *App {
	return &App{store: s, clock: clock, trades: trades}
}

// ListPicks returns the picks owned by userID ordered by year and round
func (a *App) ListPicks(ctx context.Context, userID uuid.UUID) ([]models.DraftPick, error) {
	var picks []models.DraftPick
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		picks, err = tx.ListDraftPicks(ctx, &userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list draft picks: %w", err)
	}
	return picks, nil
}

// AddPick gives a new pick to a member. A zero year means the current one.
func (a *App) AddPick(ctx context.Context, req AddPickRequest) (*models.DraftPick, error) {
	if err := a.validateAddPickRequest(&req); err != nil {
		return nil, err
	}

	var created *models.DraftPick
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetUser(ctx, req.UserID); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateDraftPick(ctx, models.DraftPick{
			UserID:    req.UserID,
			Round:     req.Round,
			Year:      req.Year,
			CreatedAt: a.clock.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to create draft pick: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("pick_id", created.ID.String()).
		Str("user_id", req.UserID.String()).
		Int("round", req.Round).
		Int("year", req.Year).
		Msg("draft pick added")
	return created, nil
}

// DeletePick removes a pick that is not part of an accepted trade, along with
// its place in any pending or rejected trade.
func (a *App) DeletePick(ctx context.Context, id uuid.UUID) error {
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetDraftPick(ctx, id); err != nil {
			return err
		}
		if err := a.trades.ReleaseAsset(ctx, tx, models.DraftPickRef(id)); err != nil {
			return err
		}
		return tx.DeleteDraftPick(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info().Str("pick_id", id.String()).Msg("draft pick deleted")
	return nil
}

func (a *App) validateAddPickRequest(req *AddPickRequest) error {
	if req.UserID == uuid.Nil {
		return errs.Validation("user id is required")
	}
	if req.Round <= 0 {
		return errs.Validation("round must be positive")
	}
	if req.Year == 0 {
		req.Year = a.clock.Now().Year()
	}
	if req.Year < 1900 {
		return errs.Validation("year %d is out of range", req.Year)
	}
	return nil
}
