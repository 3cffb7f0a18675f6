package pick

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/events"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/storetest"
	"github.com/mcdev12/pickswap/go/internal/trades"
)

func setup(t *testing.T) (*App, *trades.App, *storetest.Store) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	s := storetest.New().WithClock(clock.Now)
	tradesApp := trades.NewApp(s, clock, nil)
	return NewApp(s, clock, tradesApp), tradesApp, s
}

func TestAddPick(t *testing.T) {
	app, _, s := setup(t)
	ctx := context.Background()
	u := s.SeedUser(models.User{Email: "u@league.test"})

	p, err := app.AddPick(ctx, AddPickRequest{UserID: u.ID, Round: 4})
	require.NoError(t, err)
	require.Equal(t, 2026, p.Year)
	require.Equal(t, 4, p.Round)
	require.False(t, p.IsTraded)

	_, err = app.AddPick(ctx, AddPickRequest{UserID: u.ID, Round: 0, Year: 2026})
	require.True(t, errs.Is(err, errs.KindValidation))

	_, err = app.AddPick(ctx, AddPickRequest{UserID: uuid.New(), Round: 1, Year: 2026})
	require.True(t, errs.Is(err, errs.KindNotFound))

	mine, err := app.ListPicks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestDeletePickGuard(t *testing.T) {
	app, tradesApp, s := setup(t)
	ctx := context.Background()
	x := s.SeedUser(models.User{Email: "x@league.test"})
	y := s.SeedUser(models.User{Email: "y@league.test"})
	offered := s.SeedPick(models.DraftPick{UserID: x.ID, Round: 1, Year: 2026})
	other := s.SeedPick(models.DraftPick{UserID: x.ID, Round: 2, Year: 2026})
	requested := s.SeedPick(models.DraftPick{UserID: y.ID, Round: 1, Year: 2026})

	onlyOffer, err := tradesApp.CreateTrade(ctx, x.ID, trades.CreateTradeRequest{
		RecipientID:      y.ID,
		OfferedPickIDs:   []uuid.UUID{offered.ID},
		RequestedPickIDs: []uuid.UUID{requested.ID},
	})
	require.NoError(t, err)
	twoOffers, err := tradesApp.CreateTrade(ctx, x.ID, trades.CreateTradeRequest{
		RecipientID:    y.ID,
		OfferedPickIDs: []uuid.UUID{offered.ID, other.ID},
	})
	require.NoError(t, err)

	require.NoError(t, app.DeletePick(ctx, offered.ID))

	_, ok := s.Pick(offered.ID)
	require.False(t, ok)
	_, ok = s.Trade(onlyOffer.ID)
	require.False(t, ok, "a pending trade with nothing offered is removed")
	kept, ok := s.Trade(twoOffers.ID)
	require.True(t, ok)
	require.Len(t, kept.Items, 1)
	require.Equal(t, models.DraftPickRef(other.ID), kept.Items[0].Asset)

	last := s.Events()[len(s.Events())-1]
	require.Equal(t, events.TradeCancelled, last.EventType)
	require.Equal(t, onlyOffer.ID, last.AggregateID)
}

func TestDeleteLastPickOfRejectedTrade(t *testing.T) {
	app, tradesApp, s := setup(t)
	ctx := context.Background()
	x := s.SeedUser(models.User{Email: "x@league.test"})
	y := s.SeedUser(models.User{Email: "y@league.test"})
	p := s.SeedPick(models.DraftPick{UserID: x.ID, Round: 2, Year: 2026})

	trade, err := tradesApp.CreateTrade(ctx, x.ID, trades.CreateTradeRequest{
		RecipientID:    y.ID,
		OfferedPickIDs: []uuid.UUID{p.ID},
	})
	require.NoError(t, err)
	_, err = tradesApp.DecideTrade(ctx, trade.ID, y.ID, trades.DecisionReject)
	require.NoError(t, err)
	before := len(s.Events())

	require.NoError(t, app.DeletePick(ctx, p.ID))
	_, ok := s.Trade(trade.ID)
	require.False(t, ok, "a trade left without items is removed")
	require.Len(t, s.Events(), before, "a rejected trade is not reported as cancelled")
}

func TestDeletePickInAcceptedTrade(t *testing.T) {
	app, tradesApp, s := setup(t)
	ctx := context.Background()
	x := s.SeedUser(models.User{Email: "x@league.test"})
	y := s.SeedUser(models.User{Email: "y@league.test"})
	p := s.SeedPick(models.DraftPick{UserID: x.ID, Round: 1, Year: 2026})

	trade, err := tradesApp.CreateTrade(ctx, x.ID, trades.CreateTradeRequest{RecipientID: y.ID, OfferedPickIDs: []uuid.UUID{p.ID}})
	require.NoError(t, err)
	_, err = tradesApp.DecideTrade(ctx, trade.ID, y.ID, trades.DecisionAccept)
	require.NoError(t, err)

	err = app.DeletePick(ctx, p.ID)
	require.True(t, errs.Is(err, errs.KindInvalidState))
	_, ok := s.Pick(p.ID)
	require.True(t, ok)

	// once the trade is cancelled the pick can go
	require.NoError(t, tradesApp.CancelTrade(ctx, trade.ID))
	require.NoError(t, app.DeletePick(ctx, p.ID))

	err = app.DeletePick(ctx, p.ID)
	require.True(t, errs.Is(err, errs.KindNotFound))
}

func TestDeletePickFromRejectedTrade(t *testing.T) {
	app, tradesApp, s := setup(t)
	ctx := context.Background()
	x := s.SeedUser(models.User{Email: "x@league.test"})
	y := s.SeedUser(models.User{Email: "y@league.test"})
	p := s.SeedPick(models.DraftPick{UserID: x.ID, Round: 1, Year: 2026})
	keep := s.SeedPick(models.DraftPick{UserID: y.ID, Round: 3, Year: 2026})

	trade, err := tradesApp.CreateTrade(ctx, x.ID, trades.CreateTradeRequest{
		RecipientID:      y.ID,
		OfferedPickIDs:   []uuid.UUID{p.ID},
		RequestedPickIDs: []uuid.UUID{keep.ID},
	})
	require.NoError(t, err)
	_, err = tradesApp.DecideTrade(ctx, trade.ID, y.ID, trades.DecisionReject)
	require.NoError(t, err)

	require.NoError(t, app.DeletePick(ctx, p.ID))
	rejected, ok := s.Trade(trade.ID)
	require.True(t, ok, "rejected trades keep their remaining items")
	require.Len(t, rejected.Items, 1)
}
