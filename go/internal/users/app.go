package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/store"
)

// TradeCleaner defines what the users app needs from the trades application
type TradeCleaner interface {
	ReleaseAsset(ctx context.Context, tx store.Tx, ref models.AssetRef) error
	DeleteTradesOf(ctx context.Context, tx store.Tx, userID uuid.UUID) (int, error)
}

// App handles membership, the sign-in allow-list and member removal
type App struct {
	store  store.Runner
	clock  clockwork.Clock
	authz  *auth.Authorizer
	trades TradeCleaner
	rounds []int
}

// NewApp creates a new users App
func NewApp(s store.Runner, clock clockwork.Clock, authz *auth.Authorizer, trades TradeCleaner, cfg Config) *App {
	rounds := cfg.InitialPickRounds
	if len(rounds) == 0 {
		rounds = DefaultInitialPickRounds
	}
	return &App{store: s, clock: clock, authz: authz, trades: trades, rounds: rounds}
}

// Provision resolves the member behind a verified sign-in. The email must be
// on the allow-list. A first sign-in creates the member together with the
// initial draft picks for the current year.
func (a *App) Provision(ctx context.Context, in SignIn) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, errs.Validation("email is required")
	}

	var (
		user    *models.User
		created bool
	)
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		allowed, err := tx.IsEmailAllowed(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check allow-list: %w", err)
		}
		if !allowed {
			return errs.Forbidden("%s is not allowed to sign in", email)
		}

		user, err = tx.GetUserByEmail(ctx, email)
		if err == nil {
			return nil
		}
		if !errs.Is(err, errs.KindNotFound) {
			return fmt.Errorf("failed to look up user: %w", err)
		}

		u := models.User{Email: email, Name: strings.TrimSpace(in.Name), CreatedAt: a.clock.Now().UTC()}
		if in.Image != "" {
			img := in.Image
			u.Image = &img
		}
		if user, err = tx.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		created = true

		year := a.clock.Now().Year()
		for _, round := range a.rounds {
			if _, err := tx.CreateDraftPick(ctx, models.DraftPick{
				UserID:    user.ID,
				Round:     round,
				Year:      year,
				CreatedAt: a.clock.Now().UTC(),
			}); err != nil {
				return fmt.Errorf("failed to create initial draft pick: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		log.Info().
			Str("user_id", user.ID.String()).
			Str("email", user.Email).
			Int("picks", len(a.rounds)).
			Msg("member provisioned")
	}
	return user, nil
}

// ListMembers returns every member, for choosing a trade partner
func (a *App) ListMembers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListUsers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

// ListUsers returns every member with their picks and accepted trade count
func (a *App) ListUsers(ctx context.Context) ([]Summary, error) {
	var out []Summary
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		out = nil
		users, err := tx.ListUsers(ctx)
		if err != nil {
			return err
		}
		picks, err := tx.ListDraftPicks(ctx, nil)
		if err != nil {
			return err
		}
		byOwner := make(map[uuid.UUID][]models.DraftPick, len(users))
		for _, p := range picks {
			byOwner[p.UserID] = append(byOwner[p.UserID], p)
		}

		for _, u := range users {
			n, err := tx.CountAcceptedTrades(ctx, u.ID)
			if err != nil {
				return err
			}
			userPicks := byOwner[u.ID]
			if userPicks == nil {
				userPicks = []models.DraftPick{}
			}
			out = append(out, Summary{
				User:           u,
				IsAdmin:        a.authz.IsAdminEmail(u.Email),
				Picks:          userPicks,
				AcceptedTrades: n,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

// DeleteUser removes a member and everything that belongs to them. Admins
// cannot be deleted, and neither can a member who is party to an accepted
// trade. Their players go back to the unassigned pool.
func (a *App) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	var email string
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		email = user.Email
		if a.authz.IsAdminEmail(user.Email) {
			return errs.Validation("cannot delete an admin user")
		}

		if _, err := a.trades.DeleteTradesOf(ctx, tx, userID); err != nil {
			return err
		}

		picks, err := tx.ListDraftPicks(ctx, &userID)
		if err != nil {
			return fmt.Errorf("failed to list picks: %w", err)
		}
		for _, p := range picks {
			if err := a.trades.ReleaseAsset(ctx, tx, models.DraftPickRef(p.ID)); err != nil {
				return err
			}
		}
		if err := tx.DeleteDraftPicksByUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete picks: %w", err)
		}
		if err := tx.UnassignPlayersByUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to unassign players: %w", err)
		}
		if err := tx.DeleteClaimsByUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete claims: %w", err)
		}
		return tx.DeleteUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	log.Info().Str("user_id", userID.String()).Str("email", email).Msg("member deleted")
	return nil
}

// ListAllowedEmails returns the sign-in allow-list ordered by email
func (a *App) ListAllowedEmails(ctx context.Context) ([]models.AllowedEmail, error) {
	var out []models.AllowedEmail
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListAllowedEmails(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed emails: %w", err)
	}
	return out, nil
}

// AddAllowedEmail puts email on the allow-list
func (a *App) AddAllowedEmail(ctx context.Context, email string) (*models.AllowedEmail, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, errs.Validation("valid email required")
	}

	var added *models.AllowedEmail
	err := a.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		added, err = tx.CreateAllowedEmail(ctx, models.AllowedEmail{Email: email, CreatedAt: a.clock.Now().UTC()})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("email", email).Msg("email allowed")
	return added, nil
}

// RemoveAllowedEmail takes email off the allow-list. Admin emails stay.
func (a *App) RemoveAllowedEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errs.Validation("email required")
	}
	if a.authz.IsAdminEmail(email) {
		return errs.Validation("cannot remove admin email")
	}

	err := a.store.InTx(ctx, func(tx store.Tx) error {
		removed, err := tx.DeleteAllowedEmail(ctx, email)
		if err != nil {
			return err
		}
		if !removed {
			return errs.NotFound("%s is not on the allow-list", email)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("email removed from allow-list")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
