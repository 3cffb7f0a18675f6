package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/ownership"
	"github.com/mcdev12/pickswap/go/internal/store"
)

// TradeGuard defines what the player app needs from the trades application
type TradeGuard interface {
	ReleaseAsset(ctx context.Context, tx store.Tx, ref models.AssetRef) error
	CheckActiveTrades(ctx context.Context, tx store.Tx, ref models.AssetRef) error
}

// App handles player business logic
type App struct {
	store  store.Runner
	trades TradeGuard
}

// NewApp creates a new player App
func NewApp(s store.Runner, trades TradeGuard) *App {
	return &App{store: s, trades: trades}
}

// ListPlayers returns the players matching f ordered by name
func (a *App) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Position = strings.ToUpper(strings.TrimSpace(f.Position))
	if f.Unassigned && f.UserID != nil {
		return nil, errs.Validation("unassigned and owner filters are mutually exclusive")
	}

	var players []models.Player
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		players, err = tx.ListPlayers(ctx, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var player *models.Player
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		player, err = tx.GetPlayer(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// AssignPlayer sets the owner of a player, or clears it when userID is nil.
// A player that is part of a pending or accepted trade keeps its owner.
func (a *App) AssignPlayer(ctx context.Context, playerID uuid.UUID, userID *uuid.UUID) (*models.Player, error) {
	var updated *models.Player
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		ref := models.PlayerRef(playerID)
		assets, err := ownership.LoadAssets(ctx, tx, []models.AssetRef{ref}, true)
		if err != nil {
			return err
		}
		current := assets[ref]

		if userID != nil {
			if _, err := tx.GetUser(ctx, *userID); err != nil {
				return err
			}
		}
		if current.OwnerID != nil {
			if err := a.trades.CheckActiveTrades(ctx, tx, ref); err != nil {
				return err
			}
		}

		version := current.Version
		if err := ownership.Apply(ctx, tx, []ownership.Transfer{{
			Ref:             ref,
			ExpectedOwner:   current.OwnerID,
			ExpectedVersion: &version,
			NewOwner:        userID,
			IsTraded:        false,
		}}); err != nil {
			return err
		}

		updated, err = tx.GetPlayer(ctx, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := log.Info().Str("player_id", playerID.String())
	if userID != nil {
		ev = ev.Str("user_id", userID.String())
	}
	ev.Msg("player assignment changed")
	return updated, nil
}

// DeletePlayer removes a player that is not part of an accepted trade,
// together with its claims and its place in pending or rejected trades.
func (a *App) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetPlayer(ctx, id); err != nil {
			return err
		}
		if err := a.trades.ReleaseAsset(ctx, tx, models.PlayerRef(id)); err != nil {
			return err
		}
		if err := tx.DeleteClaimsByPlayer(ctx, id); err != nil {
			return fmt.Errorf("failed to delete claims: %w", err)
		}
		return tx.DeletePlayer(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info().Str("player_id", id.String()).Msg("player deleted")
	return nil
}
