package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/claims"
	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/storetest"
	"github.com/mcdev12/pickswap/go/internal/trades"
)

const adminEmail = "commish@league.test"

type env struct {
	app    *App
	trades *trades.App
	store  *storetest.Store
	clock  *clockwork.FakeClock
}

func setup(t *testing.T) *env {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2027, 4, 2, 10, 0, 0, 0, time.UTC))
	s := storetest.New().WithClock(clock.Now)
	tradesApp := trades.NewApp(s, clock, nil)
	authz := auth.NewAuthorizer([]string{adminEmail})
	return &env{
		app:    NewApp(s, clock, authz, tradesApp, Config{}),
		trades: tradesApp,
		store:  s,
		clock:  clock,
	}
}

func TestProvisionRequiresAllowList(t *testing.T) {
	e := setup(t)
	_, err := e.app.Provision(context.Background(), SignIn{Email: "stranger@league.test"})
	require.True(t, errs.Is(err, errs.KindForbidden))

	_, err = e.app.Provision(context.Background(), SignIn{Email: "  "})
	require.True(t, errs.Is(err, errs.KindValidation))
}

func TestProvisionCreatesMemberWithPicksOnce(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.store.SeedAllowedEmail("new@league.test")

	u, err := e.app.Provision(ctx, SignIn{Email: "New@League.test", Name: " Newbie ", Image: "https://img/x.png"})
	require.NoError(t, err)
	require.Equal(t, "new@league.test", u.Email)
	require.Equal(t, "Newbie", u.Name)
	require.NotNil(t, u.Image)

	summaries, err := e.app.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	picks := summaries[0].Picks
	require.Len(t, picks, 3)
	for i, p := range picks {
		require.Equal(t, i+1, p.Round)
		require.Equal(t, 2027, p.Year)
	}

	again, err := e.app.Provision(ctx, SignIn{Email: "new@league.test"})
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	summaries, err = e.app.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, summaries[0].Picks, 3, "a returning member gets no new picks")
}

func TestProvisionIsAtomic(t *testing.T) {
	e := setup(t)
	e.store.SeedAllowedEmail("new@league.test")
	e.store.FailAfter("CreateDraftPick", 2, errs.New(errs.KindStorageConflict, "deadlock"))

	_, err := e.app.Provision(context.Background(), SignIn{Email: "new@league.test"})
	require.Error(t, err)

	members, err := e.app.ListMembers(context.Background())
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestConfiguredPickRounds(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	s := storetest.New().WithClock(clock.Now)
	s.SeedAllowedEmail("new@league.test")
	app := NewApp(s, clock, auth.NewAuthorizer(nil), trades.NewApp(s, clock, nil), Config{InitialPickRounds: []int{1, 2, 3, 4, 5}})

	u, err := app.Provision(context.Background(), SignIn{Email: "new@league.test"})
	require.NoError(t, err)
	var picks []models.DraftPick
	summaries, err := app.ListUsers(context.Background())
	require.NoError(t, err)
	for _, sum := range summaries {
		if sum.User.ID == u.ID {
			picks = sum.Picks
		}
	}
	require.Len(t, picks, 5)
}

func TestDeleteUser(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	admin := e.store.SeedUser(models.User{Email: adminEmail})
	x := e.store.SeedUser(models.User{Email: "x@league.test"})
	y := e.store.SeedUser(models.User{Email: "y@league.test"})
	xPick := e.store.SeedPick(models.DraftPick{UserID: x.ID, Round: 1, Year: 2027})
	yPick := e.store.SeedPick(models.DraftPick{UserID: y.ID, Round: 1, Year: 2027})
	xPlayer := e.store.SeedPlayer(models.Player{Name: "Held", Position: "C", UserID: &x.ID})
	free := e.store.SeedPlayer(models.Player{Name: "Free", Position: "C"})

	claimsApp := claims.NewApp(e.store, e.clock, nil)
	_, err := claimsApp.CreateClaim(ctx, x.ID, free.ID)
	require.NoError(t, err)

	pending, err := e.trades.CreateTrade(ctx, y.ID, trades.CreateTradeRequest{
		RecipientID:      x.ID,
		OfferedPickIDs:   []uuid.UUID{yPick.ID},
		RequestedPickIDs: []uuid.UUID{xPick.ID},
	})
	require.NoError(t, err)

	err = e.app.DeleteUser(ctx, admin.ID)
	require.True(t, errs.Is(err, errs.KindValidation))

	require.NoError(t, e.app.DeleteUser(ctx, x.ID))

	_, ok := e.store.User(x.ID)
	require.False(t, ok)
	_, ok = e.store.Pick(xPick.ID)
	require.False(t, ok)
	_, ok = e.store.Trade(pending.ID)
	require.False(t, ok)
	p, _ := e.store.Player(xPlayer.ID)
	require.Nil(t, p.UserID)
	_, _, claimCount, _ := e.store.Counts()
	require.Zero(t, claimCount)

	still, ok := e.store.Pick(yPick.ID)
	require.True(t, ok)
	require.Equal(t, y.ID, still.UserID)

	err = e.app.DeleteUser(ctx, x.ID)
	require.True(t, errs.Is(err, errs.KindNotFound))
}

func TestDeleteUserBlockedByAcceptedTrade(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	x := e.store.SeedUser(models.User{Email: "x@league.test"})
	y := e.store.SeedUser(models.User{Email: "y@league.test"})
	p := e.store.SeedPick(models.DraftPick{UserID: x.ID, Round: 1, Year: 2027})

	trade, err := e.trades.CreateTrade(ctx, x.ID, trades.CreateTradeRequest{RecipientID: y.ID, OfferedPickIDs: []uuid.UUID{p.ID}})
	require.NoError(t, err)
	_, err = e.trades.DecideTrade(ctx, trade.ID, y.ID, trades.DecisionAccept)
	require.NoError(t, err)

	err = e.app.DeleteUser(ctx, x.ID)
	require.True(t, errs.Is(err, errs.KindInvalidState))
	_, ok := e.store.User(x.ID)
	require.True(t, ok)

	summaries, err := e.app.ListUsers(ctx)
	require.NoError(t, err)
	for _, sum := range summaries {
		require.Equal(t, int64(1), sum.AcceptedTrades)
	}
}

func TestAllowedEmails(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	added, err := e.app.AddAllowedEmail(ctx, " Friend@League.TEST ")
	require.NoError(t, err)
	require.Equal(t, "friend@league.test", added.Email)

	_, err = e.app.AddAllowedEmail(ctx, "friend@league.test")
	require.True(t, errs.Is(err, errs.KindConflict))
	_, err = e.app.AddAllowedEmail(ctx, "not-an-email")
	require.True(t, errs.Is(err, errs.KindValidation))

	list, err := e.app.ListAllowedEmails(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = e.app.RemoveAllowedEmail(ctx, adminEmail)
	require.True(t, errs.Is(err, errs.KindValidation))
	err = e.app.RemoveAllowedEmail(ctx, "ghost@league.test")
	require.True(t, errs.Is(err, errs.KindNotFound))
	require.NoError(t, e.app.RemoveAllowedEmail(ctx, "FRIEND@league.test"))

	list, err = e.app.ListAllowedEmails(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func ctx() context.Context { return context.Background() }
