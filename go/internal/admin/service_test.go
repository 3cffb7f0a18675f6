package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/api/adminv1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/claims"
	"github.com/mcdev12/pickswap/go/internal/draft/pick"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/player"
	"github.com/mcdev12/pickswap/go/internal/rpc"
	"github.com/mcdev12/pickswap/go/internal/storetest"
	"github.com/mcdev12/pickswap/go/internal/trades"
	"github.com/mcdev12/pickswap/go/internal/users"
)

const commish = "commish@league.test"

type harness struct {
	store  *storetest.Store
	trades *trades.App
	issuer *auth.Issuer
	url    string
	client *http.Client
	admin  models.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 9, 18, 0, 0, 0, time.UTC))
	s := storetest.New().WithClock(clock.Now)
	issuer, err := auth.NewIssuer("admin-test-secret-0123456789", 0, clock)
	require.NoError(t, err)

	authz := auth.NewAuthorizer([]string{commish})
	tradesApp := trades.NewApp(s, clock, nil)
	svc := NewService(
		authz,
		tradesApp,
		users.NewApp(s, clock, authz, tradesApp, users.Config{}),
		pick.NewApp(s, clock, tradesApp),
		player.NewApp(s, tradesApp),
		claims.NewApp(s, clock, nil),
	)

	mux := http.NewServeMux()
	rpc.Mount(mux, adminv1.NewAdminServiceHandler(svc, connect.WithInterceptors(auth.NewInterceptor(issuer)))...)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &harness{
		store:  s,
		trades: tradesApp,
		issuer: issuer,
		url:    srv.URL,
		client: srv.Client(),
		admin:  s.SeedUser(models.User{Email: commish, Name: "Commish"}),
	}
}

func call[Req, Res any](t *testing.T, h *harness, procedure string, caller models.User, msg *Req) (*Res, error) {
	t.Helper()
	token, _, err := h.issuer.Issue(auth.Principal{UserID: caller.ID, Email: caller.Email})
	require.NoError(t, err)
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	res, err := rpc.NewClient[Req, Res](h.client, h.url, procedure).CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func TestNonAdminIsRejected(t *testing.T) {
	h := newHarness(t)
	member := h.store.SeedUser(models.User{Email: "member@league.test"})

	_, err := call[adminv1.ListTradesRequest, adminv1.ListTradesResponse](t, h, adminv1.AdminServiceListTradesProcedure, member, &adminv1.ListTradesRequest{})
	require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = call[adminv1.ApproveAllClaimsRequest, adminv1.ApproveAllClaimsResponse](t, h, adminv1.AdminServiceApproveAllClaimsProcedure, member, &adminv1.ApproveAllClaimsRequest{})
	require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestCancelAcceptedTradeThroughAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	x := h.store.SeedUser(models.User{Email: "x@league.test"})
	y := h.store.SeedUser(models.User{Email: "y@league.test"})
	p := h.store.SeedPick(models.DraftPick{UserID: x.ID, Round: 2, Year: 2026})

	tr, err := h.trades.CreateTrade(ctx, x.ID, trades.CreateTradeRequest{RecipientID: y.ID, OfferedPickIDs: []uuid.UUID{p.ID}})
	require.NoError(t, err)
	_, err = h.trades.DecideTrade(ctx, tr.ID, y.ID, trades.DecisionAccept)
	require.NoError(t, err)

	list, err := call[adminv1.ListTradesRequest, adminv1.ListTradesResponse](t, h, adminv1.AdminServiceListTradesProcedure, h.admin, &adminv1.ListTradesRequest{Status: "accepted"})
	require.NoError(t, err)
	require.Len(t, list.Trades, 1)

	_, err = call[adminv1.CancelTradeRequest, adminv1.CancelTradeResponse](t, h, adminv1.AdminServiceCancelTradeProcedure, h.admin, &adminv1.CancelTradeRequest{TradeID: tr.ID.String()})
	require.NoError(t, err)

	got, ok := h.store.Pick(p.ID)
	require.True(t, ok)
	require.Equal(t, x.ID, got.UserID)
	require.False(t, got.IsTraded)

	_, err = call[adminv1.CancelTradeRequest, adminv1.CancelTradeResponse](t, h, adminv1.AdminServiceCancelTradeProcedure, h.admin, &adminv1.CancelTradeRequest{TradeID: tr.ID.String()})
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestPickAndPlayerAdministration(t *testing.T) {
	h := newHarness(t)
	x := h.store.SeedUser(models.User{Email: "x@league.test"})
	pl := h.store.SeedPlayer(models.Player{Name: "Skater", Position: "LW"})

	added, err := call[adminv1.AddPickRequest, adminv1.AddPickResponse](t, h, adminv1.AdminServiceAddPickProcedure, h.admin, &adminv1.AddPickRequest{UserID: x.ID.String(), Round: 4, Year: 2027})
	require.NoError(t, err)
	require.Equal(t, 4, added.Pick.Round)
	require.Equal(t, x.ID.String(), added.Pick.UserID)

	_, err = call[adminv1.AddPickRequest, adminv1.AddPickResponse](t, h, adminv1.AdminServiceAddPickProcedure, h.admin, &adminv1.AddPickRequest{UserID: x.ID.String(), Round: 0})
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[adminv1.DeletePickRequest, adminv1.DeletePickResponse](t, h, adminv1.AdminServiceDeletePickProcedure, h.admin, &adminv1.DeletePickRequest{PickID: added.Pick.ID})
	require.NoError(t, err)

	assigned, err := call[adminv1.AssignPlayerRequest, adminv1.AssignPlayerResponse](t, h, adminv1.AdminServiceAssignPlayerProcedure, h.admin, &adminv1.AssignPlayerRequest{PlayerID: pl.ID.String(), UserID: x.ID.String()})
	require.NoError(t, err)
	require.Equal(t, x.ID.String(), assigned.Player.UserID)

	unassigned, err := call[adminv1.AssignPlayerRequest, adminv1.AssignPlayerResponse](t, h, adminv1.AdminServiceAssignPlayerProcedure, h.admin, &adminv1.AssignPlayerRequest{PlayerID: pl.ID.String()})
	require.NoError(t, err)
	require.Empty(t, unassigned.Player.UserID)

	_, err = call[adminv1.DeletePlayerRequest, adminv1.DeletePlayerResponse](t, h, adminv1.AdminServiceDeletePlayerProcedure, h.admin, &adminv1.DeletePlayerRequest{PlayerID: pl.ID.String()})
	require.NoError(t, err)
	_, ok := h.store.Player(pl.ID)
	require.False(t, ok)
}

func TestUsersAndAllowList(t *testing.T) {
	h := newHarness(t)
	x := h.store.SeedUser(models.User{Email: "x@league.test", Name: "X"})
	h.store.SeedPick(models.DraftPick{UserID: x.ID, Round: 1, Year: 2026})

	res, err := call[adminv1.ListUsersRequest, adminv1.ListUsersResponse](t, h, adminv1.AdminServiceListUsersProcedure, h.admin, &adminv1.ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, res.Users, 2)
	for _, u := range res.Users {
		if u.Email == commish {
			require.True(t, u.IsAdmin)
			continue
		}
		require.False(t, u.IsAdmin)
		require.Len(t, u.Picks, 1)
	}

	_, err = call[adminv1.DeleteUserRequest, adminv1.DeleteUserResponse](t, h, adminv1.AdminServiceDeleteUserProcedure, h.admin, &adminv1.DeleteUserRequest{UserID: h.admin.ID.String()})
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[adminv1.DeleteUserRequest, adminv1.DeleteUserResponse](t, h, adminv1.AdminServiceDeleteUserProcedure, h.admin, &adminv1.DeleteUserRequest{UserID: x.ID.String()})
	require.NoError(t, err)
	_, ok := h.store.User(x.ID)
	require.False(t, ok)

	added, err := call[adminv1.AddAllowedEmailRequest, adminv1.AddAllowedEmailResponse](t, h, adminv1.AdminServiceAddAllowedEmailProcedure, h.admin, &adminv1.AddAllowedEmailRequest{Email: "Rookie@League.test"})
	require.NoError(t, err)
	require.Equal(t, "rookie@league.test", added.Email.Email)

	_, err = call[adminv1.AddAllowedEmailRequest, adminv1.AddAllowedEmailResponse](t, h, adminv1.AdminServiceAddAllowedEmailProcedure, h.admin, &adminv1.AddAllowedEmailRequest{Email: "rookie@league.test"})
	require.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))

	emails, err := call[adminv1.ListAllowedEmailsRequest, adminv1.ListAllowedEmailsResponse](t, h, adminv1.AdminServiceListAllowedEmailsProcedure, h.admin, &adminv1.ListAllowedEmailsRequest{})
	require.NoError(t, err)
	require.Len(t, emails.Emails, 1)

	_, err = call[adminv1.RemoveAllowedEmailRequest, adminv1.RemoveAllowedEmailResponse](t, h, adminv1.AdminServiceRemoveAllowedEmailProcedure, h.admin, &adminv1.RemoveAllowedEmailRequest{Email: "rookie@league.test"})
	require.NoError(t, err)

	_, err = call[adminv1.RemoveAllowedEmailRequest, adminv1.RemoveAllowedEmailResponse](t, h, adminv1.AdminServiceRemoveAllowedEmailProcedure, h.admin, &adminv1.RemoveAllowedEmailRequest{Email: "rookie@league.test"})
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestClaimDecisions(t *testing.T) {
	h := newHarness(t)
	x := h.store.SeedUser(models.User{Email: "x@league.test"})
	y := h.store.SeedUser(models.User{Email: "y@league.test"})
	a := h.store.SeedPlayer(models.Player{Name: "A", Position: "C"})
	b := h.store.SeedPlayer(models.Player{Name: "B", Position: "D"})
	claimsApp := claims.NewApp(h.store, clockwork.NewFakeClock(), nil)

	ca, err := claimsApp.CreateClaim(context.Background(), x.ID, a.ID)
	require.NoError(t, err)
	_, err = claimsApp.CreateClaim(context.Background(), y.ID, a.ID)
	require.NoError(t, err)
	_, err = claimsApp.CreateClaim(context.Background(), y.ID, b.ID)
	require.NoError(t, err)

	decided, err := call[adminv1.DecideClaimRequest, adminv1.DecideClaimResponse](t, h, adminv1.AdminServiceDecideClaimProcedure, h.admin, &adminv1.DecideClaimRequest{ClaimID: ca.ID.String(), Action: "approve"})
	require.NoError(t, err)
	require.Equal(t, "approved", decided.Claim.Status)

	_, err = call[adminv1.DecideClaimRequest, adminv1.DecideClaimResponse](t, h, adminv1.AdminServiceDecideClaimProcedure, h.admin, &adminv1.DecideClaimRequest{ClaimID: ca.ID.String(), Action: "maybe"})
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	bulk, err := call[adminv1.ApproveAllClaimsRequest, adminv1.ApproveAllClaimsResponse](t, h, adminv1.AdminServiceApproveAllClaimsProcedure, h.admin, &adminv1.ApproveAllClaimsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, bulk.Attempted)
	require.Equal(t, 1, bulk.Applied)
	require.Equal(t, 1, bulk.Skipped)

	pending, err := call[adminv1.ListClaimsRequest, adminv1.ListClaimsResponse](t, h, adminv1.AdminServiceListClaimsProcedure, h.admin, &adminv1.ListClaimsRequest{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending.Claims, 1)
	require.Equal(t, y.ID.String(), pending.Claims[0].UserID)
	require.Equal(t, a.ID.String(), pending.Claims[0].PlayerID)
}
