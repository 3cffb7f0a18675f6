// Package admin serves the commissioner surface. Every procedure requires
// the caller to hold the admin capability.
package admin

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/api/adminv1"
	"github.com/mcdev12/pickswap/go/internal/api/leaguev1"
	"github.com/mcdev12/pickswap/go/internal/api/tradev1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/claims"
	"github.com/mcdev12/pickswap/go/internal/draft/pick"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/rpc"
	"github.com/mcdev12/pickswap/go/internal/trades"
	"github.com/mcdev12/pickswap/go/internal/users"
)

// TradesApp defines what the admin service needs from the trades application
type TradesApp interface {
	ListAllTrades(ctx context.Context, status *models.TradeStatus) ([]models.Trade, error)
	CancelTrade(ctx context.Context, tradeID uuid.UUID) error
}

// UsersApp defines what the admin service needs from the users application
type UsersApp interface {
	ListUsers(ctx context.Context) ([]users.Summary, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ListAllowedEmails(ctx context.Context) ([]models.AllowedEmail, error)
	AddAllowedEmail(ctx context.Context, email string) (*models.AllowedEmail, error)
	RemoveAllowedEmail(ctx context.Context, email string) error
}

// PicksApp defines what the admin service needs from the pick application
type PicksApp interface {
	AddPick(ctx context.Context, req pick.AddPickRequest) (*models.DraftPick, error)
	DeletePick(ctx context.Context, id uuid.UUID) error
}

// PlayersApp defines what the admin service needs from the player application
type PlayersApp interface {
	AssignPlayer(ctx context.Context, playerID uuid.UUID, userID *uuid.UUID) (*models.Player, error)
	DeletePlayer(ctx context.Context, id uuid.UUID) error
}

// ClaimsApp defines what the admin service needs from the claims application
type ClaimsApp interface {
	ListClaims(ctx context.Context, status *models.ClaimStatus) ([]models.PlayerClaim, error)
	DecideClaim(ctx context.Context, claimID uuid.UUID, decision claims.Decision) (*models.PlayerClaim, error)
	ApproveAll(ctx context.Context) (*claims.BulkResult, error)
}

// Service implements the AdminService Connect interface
type Service struct {
	authz   *auth.Authorizer
	trades  TradesApp
	users   UsersApp
	picks   PicksApp
	players PlayersApp
	claims  ClaimsApp
}

// NewService creates a new admin service
func NewService(authz *auth.Authorizer, trades TradesApp, users UsersApp, picks PicksApp, players PlayersApp, claims ClaimsApp) *Service {
	return &Service{authz: authz, trades: trades, users: users, picks: picks, players: players, claims: claims}
}

var _ adminv1.AdminServiceHandler = (*Service)(nil)

// ListTrades lists every trade, newest first
func (s *Service) ListTrades(ctx context.Context, req *connect.Request[adminv1.ListTradesRequest]) (*connect.Response[adminv1.ListTradesResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	status, err := trades.ParseStatus(req.Msg.Status)
	if err != nil {
		return nil, rpc.Error(err)
	}
	list, err := s.trades.ListAllTrades(ctx, status)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.ListTradesResponse{Trades: tradev1.FromModels(list)}), nil
}

// CancelTrade deletes a trade, reversing it first when it was accepted
func (s *Service) CancelTrade(ctx context.Context, req *connect.Request[adminv1.CancelTradeRequest]) (*connect.Response[adminv1.CancelTradeResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	id, err := rpc.ParseID("trade_id", req.Msg.TradeID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	if err := s.trades.CancelTrade(ctx, id); err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.CancelTradeResponse{Success: true}), nil
}

// ListUsers lists members with their picks and accepted trade counts
func (s *Service) ListUsers(ctx context.Context, req *connect.Request[adminv1.ListUsersRequest]) (*connect.Response[adminv1.ListUsersResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	summaries, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}

	out := make([]*adminv1.User, 0, len(summaries))
	for _, sum := range summaries {
		u := &adminv1.User{
			ID:             sum.User.ID.String(),
			Email:          sum.User.Email,
			Name:           sum.User.Name,
			IsAdmin:        sum.IsAdmin,
			Picks:          leaguev1.PicksFromModels(sum.Picks),
			AcceptedTrades: sum.AcceptedTrades,
			CreatedAt:      sum.User.CreatedAt,
		}
		if sum.User.Image != nil {
			u.Image = *sum.User.Image
		}
		out = append(out, u)
	}
	return connect.NewResponse(&adminv1.ListUsersResponse{Users: out}), nil
}

// DeleteUser removes a member
func (s *Service) DeleteUser(ctx context.Context, req *connect.Request[adminv1.DeleteUserRequest]) (*connect.Response[adminv1.DeleteUserResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	id, err := rpc.ParseID("user_id", req.Msg.UserID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.DeleteUserResponse{Success: true}), nil
}

// AddPick gives a member a new draft pick
func (s *Service) AddPick(ctx context.Context, req *connect.Request[adminv1.AddPickRequest]) (*connect.Response[adminv1.AddPickResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	userID, err := rpc.ParseID("user_id", req.Msg.UserID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	p, err := s.picks.AddPick(ctx, pick.AddPickRequest{UserID: userID, Round: req.Msg.Round, Year: req.Msg.Year})
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.AddPickResponse{Pick: leaguev1.PickFromModel(p)}), nil
}

// DeletePick removes a draft pick that is not part of an accepted trade
func (s *Service) DeletePick(ctx context.Context, req *connect.Request[adminv1.DeletePickRequest]) (*connect.Response[adminv1.DeletePickResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	id, err := rpc.ParseID("pick_id", req.Msg.PickID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	if err := s.picks.DeletePick(ctx, id); err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.DeletePickResponse{Success: true}), nil
}

// AssignPlayer assigns or unassigns a player
func (s *Service) AssignPlayer(ctx context.Context, req *connect.Request[adminv1.AssignPlayerRequest]) (*connect.Response[adminv1.AssignPlayerResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	playerID, err := rpc.ParseID("player_id", req.Msg.PlayerID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	userID, err := rpc.ParseOptionalID("user_id", req.Msg.UserID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	p, err := s.players.AssignPlayer(ctx, playerID, userID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.AssignPlayerResponse{Player: leaguev1.PlayerFromModel(p)}), nil
}

// DeletePlayer removes a player that is not part of an accepted trade
func (s *Service) DeletePlayer(ctx context.Context, req *connect.Request[adminv1.DeletePlayerRequest]) (*connect.Response[adminv1.DeletePlayerResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	id, err := rpc.ParseID("player_id", req.Msg.PlayerID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	if err := s.players.DeletePlayer(ctx, id); err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.DeletePlayerResponse{Success: true}), nil
}

// ListAllowedEmails lists the sign-in allow-list
func (s *Service) ListAllowedEmails(ctx context.Context, req *connect.Request[adminv1.ListAllowedEmailsRequest]) (*connect.Response[adminv1.ListAllowedEmailsResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	emails, err := s.users.ListAllowedEmails(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	out := make([]*adminv1.AllowedEmail, 0, len(emails))
	for i := range emails {
		out = append(out, allowedEmailToProto(&emails[i]))
	}
	return connect.NewResponse(&adminv1.ListAllowedEmailsResponse{Emails: out}), nil
}

// AddAllowedEmail adds an email to the allow-list
func (s *Service) AddAllowedEmail(ctx context.Context, req *connect.Request[adminv1.AddAllowedEmailRequest]) (*connect.Response[adminv1.AddAllowedEmailResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	added, err := s.users.AddAllowedEmail(ctx, req.Msg.Email)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.AddAllowedEmailResponse{Email: allowedEmailToProto(added)}), nil
}

// RemoveAllowedEmail removes an email from the allow-list
func (s *Service) RemoveAllowedEmail(ctx context.Context, req *connect.Request[adminv1.RemoveAllowedEmailRequest]) (*connect.Response[adminv1.RemoveAllowedEmailResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	if err := s.users.RemoveAllowedEmail(ctx, req.Msg.Email); err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.RemoveAllowedEmailResponse{Success: true}), nil
}

// ListClaims lists every claim, oldest first
func (s *Service) ListClaims(ctx context.Context, req *connect.Request[adminv1.ListClaimsRequest]) (*connect.Response[adminv1.ListClaimsResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	status, err := claims.ParseStatus(req.Msg.Status)
	if err != nil {
		return nil, rpc.Error(err)
	}
	list, err := s.claims.ListClaims(ctx, status)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.ListClaimsResponse{Claims: leaguev1.ClaimsFromModels(list)}), nil
}

// DecideClaim approves or rejects a pending claim
func (s *Service) DecideClaim(ctx context.Context, req *connect.Request[adminv1.DecideClaimRequest]) (*connect.Response[adminv1.DecideClaimResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	id, err := rpc.ParseID("claim_id", req.Msg.ClaimID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	claim, err := s.claims.DecideClaim(ctx, id, claims.Decision(req.Msg.Action))
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.DecideClaimResponse{Claim: leaguev1.ClaimFromModel(claim)}), nil
}

// ApproveAllClaims approves every pending claim whose player is still free
func (s *Service) ApproveAllClaims(ctx context.Context, req *connect.Request[adminv1.ApproveAllClaimsRequest]) (*connect.Response[adminv1.ApproveAllClaimsResponse], error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	res, err := s.claims.ApproveAll(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&adminv1.ApproveAllClaimsResponse{
		Attempted: res.Attempted,
		Applied:   res.Applied,
		Skipped:   res.Skipped,
	}), nil
}

func allowedEmailToProto(e *models.AllowedEmail) *adminv1.AllowedEmail {
	return &adminv1.AllowedEmail{ID: e.ID.String(), Email: e.Email, CreatedAt: e.CreatedAt}
}
