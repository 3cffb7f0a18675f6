// Package store is the ownership store: the relational state of users, assets,
// trades and claims, reachable only inside an atomic unit.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/ownership"
)

// Runner opens atomic units. fn's writes commit together when it returns nil
// and are discarded otherwise.
type Runner interface {
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is every operation available inside one atomic unit.
// Lookups of missing rows fail with an errs.KindNotFound error.
type Tx interface {
	ownership.Store

	// Users
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CountAcceptedTrades(ctx context.Context, userID uuid.UUID) (int64, error)

	// Allow-list
	IsEmailAllowed(ctx context.Context, email string) (bool, error)
	ListAllowedEmails(ctx context.Context) ([]models.AllowedEmail, error)
	CreateAllowedEmail(ctx context.Context, e models.AllowedEmail) (*models.AllowedEmail, error)
	DeleteAllowedEmail(ctx context.Context, email string) (bool, error)

	// Draft picks
	CreateDraftPick(ctx context.Context, p models.DraftPick) (*models.DraftPick, error)
	GetDraftPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error)
	ListDraftPicks(ctx context.Context, userID *uuid.UUID) ([]models.DraftPick, error)
	DeleteDraftPick(ctx context.Context, id uuid.UUID) error
	DeleteDraftPicksByUser(ctx context.Context, userID uuid.UUID) error

	// Players
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error)
	DeletePlayer(ctx context.Context, id uuid.UUID) error
	UnassignPlayersByUser(ctx context.Context, userID uuid.UUID) error

	// Trades
	CreateTrade(ctx context.Context, t models.Trade) (*models.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.Trade, error)
	ListTrades(ctx context.Context, f models.TradeFilter) ([]models.Trade, error)
	UpdateTradeStatus(ctx context.Context, id uuid.UUID, from, to models.TradeStatus, decidedAt time.Time) (bool, error)
	DeleteTrade(ctx context.Context, id uuid.UUID) error
	ListTradeItemsByAsset(ctx context.Context, ref models.AssetRef) ([]models.TradeItem, error)
	DeleteTradeItems(ctx context.Context, ids []uuid.UUID) error

	// Claims
	CreateClaim(ctx context.Context, c models.PlayerClaim) (*models.PlayerClaim, error)
	GetClaim(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.PlayerClaim, error)
	GetClaimByUserAndPlayer(ctx context.Context, userID, playerID uuid.UUID) (*models.PlayerClaim, error)
	ListClaims(ctx context.Context, f models.ClaimFilter) ([]models.PlayerClaim, error)
	UpdateClaimStatus(ctx context.Context, id uuid.UUID, from, to models.ClaimStatus, decidedAt time.Time) (bool, error)
	DeleteClaim(ctx context.Context, id uuid.UUID) error
	DeleteClaimsByUser(ctx context.Context, userID uuid.UUID) error
	DeleteClaimsByPlayer(ctx context.Context, playerID uuid.UUID) error

	// Outbox
	AppendEvent(ctx context.Context, e models.OutboxEvent) error
}
