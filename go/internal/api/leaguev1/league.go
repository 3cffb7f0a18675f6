// Package leaguev1 defines the league.v1.LeagueService messages and routes.
package leaguev1

import (
	"context"
	"encoding/json"
	"time"

	"connectrpc.com/connect"

	"github.com/mcdev12/pickswap/go/internal/rpc"
)

const LeagueServiceName = "league.v1.LeagueService"

const (
	LeagueServiceListMyPicksProcedure  = "/league.v1.LeagueService/ListMyPicks"
	LeagueServiceListMembersProcedure  = "/league.v1.LeagueService/ListMembers"
	LeagueServiceListPlayersProcedure  = "/league.v1.LeagueService/ListPlayers"
	LeagueServiceGetPlayerProcedure    = "/league.v1.LeagueService/GetPlayer"
	LeagueServiceCreateClaimProcedure  = "/league.v1.LeagueService/CreateClaim"
	LeagueServiceCancelClaimProcedure  = "/league.v1.LeagueService/CancelClaim"
	LeagueServiceListMyClaimsProcedure = "/league.v1.LeagueService/ListMyClaims"
)

type DraftPick struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Round    int    `json:"round"`
	Year     int    `json:"year"`
	IsTraded bool   `json:"is_traded"`
	Version  int64  `json:"version"`
}

type Player struct {
	ID           string          `json:"id"`
	ExternalID   string          `json:"external_id"`
	Name         string          `json:"name"`
	Team         string          `json:"team,omitempty"`
	Position     string          `json:"position"`
	HeadshotURL  string          `json:"headshot_url,omitempty"`
	JerseyNumber *int            `json:"jersey_number,omitempty"`
	Bio          json.RawMessage `json:"bio,omitempty"`
	UserID       string          `json:"user_id,omitempty"`
	IsTraded     bool            `json:"is_traded"`
	Version      int64           `json:"version"`
}

type Member struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type PlayerClaim struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	PlayerID  string     `json:"player_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

type ListMyPicksRequest struct{}

type ListMyPicksResponse struct {
	Picks []*DraftPick `json:"picks"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type ListPlayersRequest struct {
	OwnerID    string `json:"owner_id,omitempty"`
	Mine       bool   `json:"mine,omitempty"`
	Unassigned bool   `json:"unassigned,omitempty"`
	Search     string `json:"search,omitempty"`
	Position   string `json:"position,omitempty"`
}

type ListPlayersResponse struct {
	Players []*Player `json:"players"`
}

type GetPlayerRequest struct {
	PlayerID string `json:"player_id"`
}

type GetPlayerResponse struct {
	Player *Player `json:"player"`
}

type CreateClaimRequest struct {
	PlayerID string `json:"player_id"`
}

type CreateClaimResponse struct {
	Claim *PlayerClaim `json:"claim"`
}

type CancelClaimRequest struct {
	ClaimID string `json:"claim_id"`
}

type CancelClaimResponse struct {
	Success bool `json:"success"`
}

type ListMyClaimsRequest struct {
	Status string `json:"status,omitempty"`
}

type ListMyClaimsResponse struct {
	Claims []*PlayerClaim `json:"claims"`
}

// LeagueServiceHandler is implemented by the league service
type LeagueServiceHandler interface {
	ListMyPicks(context.Context, *connect.Request[ListMyPicksRequest]) (*connect.Response[ListMyPicksResponse], error)
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	ListPlayers(context.Context, *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error)
	GetPlayer(context.Context, *connect.Request[GetPlayerRequest]) (*connect.Response[GetPlayerResponse], error)
	CreateClaim(context.Context, *connect.Request[CreateClaimRequest]) (*connect.Response[CreateClaimResponse], error)
	CancelClaim(context.Context, *connect.Request[CancelClaimRequest]) (*connect.Response[CancelClaimResponse], error)
	ListMyClaims(context.Context, *connect.Request[ListMyClaimsRequest]) (*connect.Response[ListMyClaimsResponse], error)
}

// NewLeagueServiceHandler returns the routes serving svc
func NewLeagueServiceHandler(svc LeagueServiceHandler, opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(LeagueServiceListMyPicksProcedure, svc.ListMyPicks, opts...),
		rpc.Unary(LeagueServiceListMembersProcedure, svc.ListMembers, opts...),
		rpc.Unary(LeagueServiceListPlayersProcedure, svc.ListPlayers, opts...),
		rpc.Unary(LeagueServiceGetPlayerProcedure, svc.GetPlayer, opts...),
		rpc.Unary(LeagueServiceCreateClaimProcedure, svc.CreateClaim, opts...),
		rpc.Unary(LeagueServiceCancelClaimProcedure, svc.CancelClaim, opts...),
		rpc.Unary(LeagueServiceListMyClaimsProcedure, svc.ListMyClaims, opts...),
	}
}
