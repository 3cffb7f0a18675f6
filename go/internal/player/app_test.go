package player

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/claims"
	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/storetest"
	"github.com/mcdev12/pickswap/go/internal/trades"
)

type env struct {
	app    *App
	trades *trades.App
	claims *claims.App
	store  *storetest.Store
	x, y   models.User
}

func setup(t *testing.T) *env {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	s := storetest.New().WithClock(clock.Now)
	tradesApp := trades.NewApp(s, clock, nil)
	return &env{
		app:    NewApp(s, tradesApp),
		trades: tradesApp,
		claims: claims.NewApp(s, clock, nil),
		store:  s,
		x:      s.SeedUser(models.User{Email: "x@league.test"}),
		y:      s.SeedUser(models.User{Email: "y@league.test"}),
	}
}

func strPtr(s string) *string { return &s }

func TestListPlayersFilters(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.store.SeedPlayer(models.Player{Name: "Connor Bedard", Team: strPtr("CHI"), Position: "C", UserID: &e.x.ID})
	e.store.SeedPlayer(models.Player{Name: "Cale Makar", Team: strPtr("COL"), Position: "D"})
	e.store.SeedPlayer(models.Player{Name: "Nathan MacKinnon", Team: strPtr("COL"), Position: "C"})

	all, err := e.app.ListPlayers(ctx, models.PlayerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Cale Makar", all[0].Name)

	mine, err := e.app.ListPlayers(ctx, models.PlayerFilter{UserID: &e.x.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	free, err := e.app.ListPlayers(ctx, models.PlayerFilter{Unassigned: true, Search: " col "})
	require.NoError(t, err)
	require.Len(t, free, 2)

	centers, err := e.app.ListPlayers(ctx, models.PlayerFilter{Unassigned: true, Position: "c"})
	require.NoError(t, err)
	require.Len(t, centers, 1)
	require.Equal(t, "Nathan MacKinnon", centers[0].Name)

	_, err = e.app.ListPlayers(ctx, models.PlayerFilter{UserID: &e.x.ID, Unassigned: true})
	require.True(t, errs.Is(err, errs.KindValidation))
}

func TestAssignAndUnassign(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.store.SeedPlayer(models.Player{Name: "Free", Position: "G"})

	got, err := e.app.AssignPlayer(ctx, p.ID, &e.x.ID)
	require.NoError(t, err)
	require.Equal(t, e.x.ID, *got.UserID)
	require.Equal(t, int64(1), got.Version)

	got, err = e.app.AssignPlayer(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Nil(t, got.UserID)

	ghost := uuid.New()
	_, err = e.app.AssignPlayer(ctx, p.ID, &ghost)
	require.True(t, errs.Is(err, errs.KindNotFound))
	_, err = e.app.AssignPlayer(ctx, uuid.New(), nil)
	require.True(t, errs.Is(err, errs.KindNotFound))
}

func TestUnassignBlockedByActiveTrade(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.store.SeedPlayer(models.Player{Name: "Traded", Position: "RW", UserID: &e.x.ID})

	trade, err := e.trades.CreateTrade(ctx, e.x.ID, trades.CreateTradeRequest{RecipientID: e.y.ID, OfferedPlayerIDs: []uuid.UUID{p.ID}})
	require.NoError(t, err)

	_, err = e.app.AssignPlayer(ctx, p.ID, nil)
	require.True(t, errs.Is(err, errs.KindInvalidState))
	_, err = e.app.AssignPlayer(ctx, p.ID, &e.y.ID)
	require.True(t, errs.Is(err, errs.KindInvalidState))

	_, err = e.trades.DecideTrade(ctx, trade.ID, e.y.ID, trades.DecisionReject)
	require.NoError(t, err)
	_, err = e.app.AssignPlayer(ctx, p.ID, nil)
	require.NoError(t, err, "rejected trades do not block")
}

func TestDeletePlayer(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owned := e.store.SeedPlayer(models.Player{Name: "Owned", Position: "D", UserID: &e.x.ID})
	free := e.store.SeedPlayer(models.Player{Name: "Free", Position: "D"})

	_, err := e.claims.CreateClaim(ctx, e.y.ID, free.ID)
	require.NoError(t, err)
	require.NoError(t, e.app.DeletePlayer(ctx, free.ID))
	_, _, claimCount, _ := e.store.Counts()
	require.Zero(t, claimCount)

	trade, err := e.trades.CreateTrade(ctx, e.x.ID, trades.CreateTradeRequest{RecipientID: e.y.ID, OfferedPlayerIDs: []uuid.UUID{owned.ID}})
	require.NoError(t, err)
	_, err = e.trades.DecideTrade(ctx, trade.ID, e.y.ID, trades.DecisionAccept)
	require.NoError(t, err)

	err = e.app.DeletePlayer(ctx, owned.ID)
	require.True(t, errs.Is(err, errs.KindInvalidState))
	_, ok := e.store.Player(owned.ID)
	require.True(t, ok)
}
