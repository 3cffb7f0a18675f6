package claims

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

// Recorder receives claim decisions
type Recorder interface {
	ClaimDecision(outcome string, n int)
}

type noopRecorder struct{}

func (noopRecorder) ClaimDecision(string, int) {}

// App runs the player-claim workflow
type App struct {
	store   store.Runner
	clock   clockwork.Clock
	metrics Recorder
}

// NewApp creates a claims App. A nil recorder disables metrics.
func NewApp(s store.Runner, clock clockwork.Clock, metrics Recorder) *App {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &App{store: s, clock: clock, metrics: metrics}
}

// CreateClaim files a claim by userID on an unowned player. A previously
// rejected claim on the same player is replaced.
func (a *App) CreateClaim(ctx context.Context, userID, playerID uuid.UUID) (*models.PlayerClaim, error) {
	var created *models.PlayerClaim
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		player, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if player.UserID != nil {
			return errs.Conflict("player is already claimed")
		}

		existing, err := tx.GetClaimByUserAndPlayer(ctx, userID, playerID)
		switch {
		case errs.Is(err, errs.KindNotFound):
		case err != nil:
			return fmt.Errorf("failed to look up existing claim: %w", err)
		case existing.Status == models.ClaimStatusPending:
			return errs.Conflict("you already have a pending claim for this player")
		case existing.Status == models.ClaimStatusApproved:
			return errs.Conflict("your claim for this player was already approved")
		default:
			if err := tx.DeleteClaim(ctx, existing.ID); err != nil {
				return fmt.Errorf("failed to replace rejected claim: %w", err)
			}
		}

		created, err = tx.CreateClaim(ctx, models.PlayerClaim{
			UserID:    userID,
			PlayerID:  playerID,
			Status:    models.ClaimStatusPending,
			CreatedAt: a.clock.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to create claim: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("claim_id", created.ID.String()).
		Str("user_id", userID.String()).
		Str("player_id", playerID.String()).
		Msg("player claim filed")
	return created, nil
}

// CancelClaim withdraws the caller's own pending claim
func (a *App) CancelClaim(ctx context.Context, userID, claimID uuid.UUID) error {
	return a.store.InTx(ctx, func(tx store.Tx) error {
		claim, err := tx.GetClaim(ctx, claimID, true)
		if err != nil {
			return err
		}
		if claim.UserID != userID {
			return errs.Forbidden("not your claim")
		}
		if claim.Status != models.ClaimStatusPending {
			return errs.InvalidState("only pending claims can be cancelled")
		}
		return tx.DeleteClaim(ctx, claim.ID)
	})
}

// DecideClaim approves or rejects a pending claim. Approval fails with
// Conflict when the player was assigned in the meantime.
func (a *App) DecideClaim(ctx context.Context, claimID uuid.UUID, decision Decision) (*models.PlayerClaim, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, errs.Validation("action must be %q or %q", DecisionApprove, DecisionReject)
	}

	var decided *models.PlayerClaim
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		claim, err := tx.GetClaim(ctx, claimID, true)
		if err != nil {
			return err
		}
		if claim.Status != models.ClaimStatusPending {
			return errs.InvalidState("claim has already been processed")
		}

		if decision == DecisionApprove {
			applied, err := a.assign(ctx, tx, claim)
			if err != nil {
				return err
			}
			if !applied {
				return errs.Conflict("player is already assigned to another user")
			}
			decided = claim
			return nil
		}

		decided, err = a.transition(ctx, tx, claim, models.ClaimStatusRejected, events.ClaimRejected)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.metrics.ClaimDecision(string(decided.Status), 1)
	log.Info().
		Str("claim_id", claimID.String()).
		Str("status", string(decided.Status)).
		Msg("player claim decided")
	return decided, nil
}

// ApproveAll approves every pending claim in one unit, oldest first. A claim
// whose player is owned by the time its turn comes is skipped and stays pending,
// so when two members claim the same player the earlier claim wins. Claims that
// stopped being pending after the listing are skipped as well.
func (a *App) ApproveAll(ctx context.Context) (*BulkResult, error) {
	var res BulkResult
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		res = BulkResult{}
		pending := models.ClaimStatusPending
		claims, err := tx.ListClaims(ctx, models.ClaimFilter{Status: &pending})
		if err != nil {
			return fmt.Errorf("failed to list pending claims: %w", err)
		}
		res.Attempted = len(claims)

		for i := range claims {
			// Decided or withdrawn since the listing.
			current, err := tx.GetClaim(ctx, claims[i].ID, true)
			if errs.Is(err, errs.KindNotFound) {
				res.Skipped++
				continue
			}
			if err != nil {
				return err
			}
			if current.Status != models.ClaimStatusPending {
				res.Skipped++
				continue
			}

			applied, err := a.assign(ctx, tx, current)
			if err != nil {
				return err
			}
			if applied {
				res.Applied++
			} else {
				res.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.metrics.ClaimDecision(string(models.ClaimStatusApproved), res.Applied)
	a.metrics.ClaimDecision("skipped", res.Skipped)
	log.Info().
		Int("attempted", res.Attempted).
		Int("applied", res.Applied).
		Int("skipped", res.Skipped).
		Msg("bulk claim approval finished")
	return &res, nil
}

// assign hands the claimed player to the claimant and marks the claim approved.
// It reports false, changing nothing, when the player already has an owner.
func (a *App) assign(ctx context.Context, tx store.Tx, claim *models.PlayerClaim) (bool, error) {
	ref := models.PlayerRef(claim.PlayerID)
	assets, err := ownership.LoadAssets(ctx, tx, []models.AssetRef{ref}, true)
	if err != nil {
		return false, err
	}
	asset := assets[ref]
	if asset.OwnerID != nil {
		return false, nil
	}

	version := asset.Version
	owner := claim.UserID
	ok, err := tx.TransferAsset(ctx, ownership.Transfer{
		Ref:             ref,
		ExpectedOwner:   nil,
		ExpectedVersion: &version,
		NewOwner:        &owner,
		IsTraded:        false,
	})
	if err != nil {
		return false, fmt.Errorf("failed to assign player: %w", err)
	}
	if !ok {
		return false, nil
	}

	updated, err := a.transition(ctx, tx, claim, models.ClaimStatusApproved, events.ClaimApproved)
	if err != nil {
		return false, err
	}
	*claim = *updated
	return true, nil
}

func (a *App) transition(ctx context.Context, tx store.Tx, claim *models.PlayerClaim, to models.ClaimStatus, eventType string) (*models.PlayerClaim, error) {
	now := a.clock.Now().UTC()
	ok, err := tx.UpdateClaimStatus(ctx, claim.ID, models.ClaimStatusPending, to, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update claim status: %w", err)
	}
	if !ok {
		return nil, errs.InvalidState("claim has already been processed")
	}

	out := *claim
	out.Status = to
	out.DecidedAt = &now
	ev, err := events.NewClaimEvent(eventType, &out, now)
	if err != nil {
		return nil, err
	}
	if err := tx.AppendEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("failed to append claim event: %w", err)
	}
	return &out, nil
}

// ListMyClaims returns userID's claims, newest first
func (a *App) ListMyClaims(ctx context.Context, userID uuid.UUID, status *models.ClaimStatus) ([]models.PlayerClaim, error) {
	return a.list(ctx, models.ClaimFilter{UserID: &userID, Status: status, NewestFirst: true})
}

// ListClaims returns every claim, oldest first
func (a *App) ListClaims(ctx context.Context, status *models.ClaimStatus) ([]models.PlayerClaim, error) {
	return a.list(ctx, models.ClaimFilter{Status: status})
}

func (a *App) list(ctx context.Context, f models.ClaimFilter) ([]models.PlayerClaim, error) {
	var out []models.PlayerClaim
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListClaims(ctx, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return out, nil
}

// ParseStatus parses an optional claim status filter
func ParseStatus(s string) (*models.ClaimStatus, error) {
	if s == "" {
		return nil, nil
	}
	status := models.ClaimStatus(s)
	switch status {
	case models.ClaimStatusPending, models.ClaimStatusApproved, models.ClaimStatusRejected:
		return &status, nil
	}
	return nil, errs.Validation("unknown claim status %q", s)
}
