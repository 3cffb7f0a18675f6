// Package leagues serves the member-facing league surface: picks, players,
// the member list and player claims.
package leagues

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/api/leaguev1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/claims"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

// PicksApp defines what the service needs from the pick application
type PicksApp interface {
	ListPicks(ctx context.Context, userID uuid.UUID) ([]models.DraftPick, error)
}

// PlayersApp defines what the service needs from the player application
type PlayersApp interface {
	ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// MembersApp defines what the service needs from the users application
type MembersApp interface {
	ListMembers(ctx context.Context) ([]models.User, error)
}

// ClaimsApp defines what the service needs from the claims application
type ClaimsApp interface {
	CreateClaim(ctx context.Context, userID, playerID uuid.UUID) (*models.PlayerClaim, error)
	CancelClaim(ctx context.Context, userID, claimID uuid.UUID) error
	ListMyClaims(ctx context.Context, userID uuid.UUID, status *models.ClaimStatus) ([]models.PlayerClaim, error)
}

// Service implements the LeagueService Connect interface
type Service struct {
	picks   PicksApp
	players PlayersApp
	members MembersApp
	claims  ClaimsApp
}

// NewService creates a new league service
func NewService(picks PicksApp, players PlayersApp, members MembersApp, claims ClaimsApp) *Service {
	return &Service{picks: picks, players: players, members: members, claims: claims}
}

var _ leaguev1.LeagueServiceHandler = (*Service)(nil)

// ListMyPicks lists the caller's draft picks
func (s *Service) ListMyPicks(ctx context.Context, req *connect.Request[leaguev1.ListMyPicksRequest]) (*connect.Response[leaguev1.ListMyPicksResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	picks, err := s.picks.ListPicks(ctx, caller.UserID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&leaguev1.ListMyPicksResponse{Picks: leaguev1.PicksFromModels(picks)}), nil
}

// ListMembers lists every member except the caller
func (s *Service) ListMembers(ctx context.Context, req *connect.Request[leaguev1.ListMembersRequest]) (*connect.Response[leaguev1.ListMembersResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	users, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}

	out := make([]*leaguev1.Member, 0, len(users))
	for i := range users {
		if users[i].ID == caller.UserID {
			continue
		}
		out = append(out, leaguev1.MemberFromModel(&users[i]))
	}
	return connect.NewResponse(&leaguev1.ListMembersResponse{Members: out}), nil
}

// ListPlayers lists players; Mine restricts the list to the caller's roster
func (s *Service) ListPlayers(ctx context.Context, req *connect.Request[leaguev1.ListPlayersRequest]) (*connect.Response[leaguev1.ListPlayersResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	owner, err := rpc.ParseOptionalID("owner_id", req.Msg.OwnerID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	if req.Msg.Mine {
		owner = &caller.UserID
	}

	players, err := s.players.ListPlayers(ctx, models.PlayerFilter{
		UserID:     owner,
		Unassigned: req.Msg.Unassigned,
		Search:     req.Msg.Search,
		Position:   req.Msg.Position,
	})
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&leaguev1.ListPlayersResponse{Players: leaguev1.PlayersFromModels(players)}), nil
}

// GetPlayer returns one player
func (s *Service) GetPlayer(ctx context.Context, req *connect.Request[leaguev1.GetPlayerRequest]) (*connect.Response[leaguev1.GetPlayerResponse], error) {
	if _, err := auth.RequireUser(ctx); err != nil {
		return nil, rpc.Error(err)
	}
	id, err := rpc.ParseID("player_id", req.Msg.PlayerID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	player, err := s.players.GetPlayer(ctx, id)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&leaguev1.GetPlayerResponse{Player: leaguev1.PlayerFromModel(player)}), nil
}

// CreateClaim files a claim on an unassigned player for the caller
func (s *Service) CreateClaim(ctx context.Context, req *connect.Request[leaguev1.CreateClaimRequest]) (*connect.Response[leaguev1.CreateClaimResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	playerID, err := rpc.ParseID("player_id", req.Msg.PlayerID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	claim, err := s.claims.CreateClaim(ctx, caller.UserID, playerID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&leaguev1.CreateClaimResponse{Claim: leaguev1.ClaimFromModel(claim)}), nil
}

// CancelClaim withdraws one of the caller's pending claims
func (s *Service) CancelClaim(ctx context.Context, req *connect.Request[leaguev1.CancelClaimRequest]) (*connect.Response[leaguev1.CancelClaimResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	claimID, err := rpc.ParseID("claim_id", req.Msg.ClaimID)
	if err != nil {
		return nil, rpc.Error(err)
	}
	if err := s.claims.CancelClaim(ctx, caller.UserID, claimID); err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&leaguev1.CancelClaimResponse{Success: true}), nil
}

// ListMyClaims lists the caller's claims, newest first
func (s *Service) ListMyClaims(ctx context.Context, req *connect.Request[leaguev1.ListMyClaimsRequest]) (*connect.Response[leaguev1.ListMyClaimsResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	status, err := claims.ParseStatus(req.Msg.Status)
	if err != nil {
		return nil, rpc.Error(err)
	}
	list, err := s.claims.ListMyClaims(ctx, caller.UserID, status)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&leaguev1.ListMyClaimsResponse{Claims: leaguev1.ClaimsFromModels(list)}), nil
}
