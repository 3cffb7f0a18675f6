package trades

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/api/tradev1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

type harness struct {
	*fixture
	issuer *auth.Issuer
	client *tradev1.TradeServiceClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := newFixture(t)
	issuer, err := auth.NewIssuer("trades-test-secret-0123456789", 0, f.clock)
	require.NoError(t, err)

	svc := NewService(f.app, auth.NewAuthorizer([]string{"admin@league.test"}))
	mux := http.NewServeMux()
	rpc.Mount(mux, tradev1.NewTradeServiceHandler(svc, connect.WithInterceptors(auth.NewInterceptor(issuer)))...)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &harness{
		fixture: f,
		issuer:  issuer,
		client:  tradev1.NewTradeServiceClient(srv.Client(), srv.URL),
	}
}

func asUser[T any](t *testing.T, h *harness, u models.User, msg *T) *connect.Request[T] {
	t.Helper()
	token, _, err := h.issuer.Issue(auth.Principal{UserID: u.ID, Email: u.Email, Name: u.Name})
	require.NoError(t, err)
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestServiceProposeAndAccept(t *testing.T) {
	h := newHarness(t)
	p1 := h.pick(h.x, 1)

	created, err := h.client.CreateTrade(ctx(), asUser(t, h, h.x, &tradev1.CreateTradeRequest{
		RecipientUserID: h.y.ID.String(),
		OfferedPickIDs:  []string{p1.ID.String()},
	}))
	require.NoError(t, err)
	require.Equal(t, "pending", created.Msg.Trade.Status)
	require.Len(t, created.Msg.Trade.Items, 1)
	require.Equal(t, "draft_pick", created.Msg.Trade.Items[0].Kind)

	decided, err := h.client.DecideTrade(ctx(), asUser(t, h, h.y, &tradev1.DecideTradeRequest{
		TradeID: created.Msg.Trade.ID,
		Action:  "accept",
	}))
	require.NoError(t, err)
	require.True(t, decided.Msg.Success)
	require.Equal(t, "accepted", decided.Msg.Trade.Status)

	mine, err := h.client.ListMyTrades(ctx(), asUser(t, h, h.y, &tradev1.ListMyTradesRequest{}))
	require.NoError(t, err)
	require.Empty(t, mine.Msg.Sent)
	require.Len(t, mine.Msg.Received, 1)
}

func TestServiceErrorCodes(t *testing.T) {
	h := newHarness(t)
	p1 := h.pick(h.x, 1)
	committed := h.store.SeedPick(models.DraftPick{UserID: h.x.ID, Round: 2, Year: 2025, IsTraded: true})

	_, err := h.client.CreateTrade(ctx(), connect.NewRequest(&tradev1.CreateTradeRequest{
		RecipientUserID: h.y.ID.String(),
		OfferedPickIDs:  []string{p1.ID.String()},
	}))
	require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = h.client.CreateTrade(ctx(), asUser(t, h, h.x, &tradev1.CreateTradeRequest{
		RecipientUserID: h.y.ID.String(),
		OfferedPickIDs:  []string{committed.ID.String()},
	}))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	var cerr *connect.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "ownership", cerr.Meta().Get("X-Error-Kind"))

	_, err = h.client.CreateTrade(ctx(), asUser(t, h, h.x, &tradev1.CreateTradeRequest{
		RecipientUserID: "not-a-uuid",
		OfferedPickIDs:  []string{p1.ID.String()},
	}))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	created, err := h.client.CreateTrade(ctx(), asUser(t, h, h.x, &tradev1.CreateTradeRequest{
		RecipientUserID: h.y.ID.String(),
		OfferedPickIDs:  []string{p1.ID.String()},
	}))
	require.NoError(t, err)
	tradeID := created.Msg.Trade.ID

	_, err = h.client.DecideTrade(ctx(), asUser(t, h, h.z, &tradev1.DecideTradeRequest{TradeID: tradeID, Action: "accept"}))
	require.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	_, err = h.client.GetTrade(ctx(), asUser(t, h, h.z, &tradev1.GetTradeRequest{TradeID: tradeID}))
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = h.client.DecideTrade(ctx(), asUser(t, h, h.y, &tradev1.DecideTradeRequest{TradeID: tradeID, Action: "reject"}))
	require.NoError(t, err)
	_, err = h.client.DecideTrade(ctx(), asUser(t, h, h.y, &tradev1.DecideTradeRequest{TradeID: tradeID, Action: "accept"}))
	require.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	_, err = h.client.ListMyTrades(ctx(), asUser(t, h, h.x, &tradev1.ListMyTradesRequest{Status: "bogus"}))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestServiceAdminCanViewAnyTrade(t *testing.T) {
	h := newHarness(t)
	admin := h.store.SeedUser(models.User{Email: "admin@league.test", Name: "Admin"})
	p1 := h.pick(h.x, 1)

	created, err := h.client.CreateTrade(ctx(), asUser(t, h, h.x, &tradev1.CreateTradeRequest{
		RecipientUserID: h.y.ID.String(),
		OfferedPickIDs:  []string{p1.ID.String()},
	}))
	require.NoError(t, err)

	got, err := h.client.GetTrade(ctx(), asUser(t, h, admin, &tradev1.GetTradeRequest{TradeID: created.Msg.Trade.ID}))
	require.NoError(t, err)
	require.Equal(t, h.x.ID.String(), got.Msg.Trade.FromUserID)
}
