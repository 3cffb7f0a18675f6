// Package adminv1 defines the admin.v1.AdminService messages and routes.
package adminv1

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mcdev12/pickswap/go/internal/api/leaguev1"
	"github.com/mcdev12/pickswap/go/internal/api/tradev1"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

const AdminServiceName = "admin.v1.AdminService"

const (
	AdminServiceListTradesProcedure         = "/admin.v1.AdminService/ListTrades"
	AdminServiceCancelTradeProcedure        = "/admin.v1.AdminService/CancelTrade"
	AdminServiceListUsersProcedure          = "/admin.v1.AdminService/ListUsers"
	AdminServiceDeleteUserProcedure         = "/admin.v1.AdminService/DeleteUser"
	AdminServiceAddPickProcedure            = "/admin.v1.AdminService/AddPick"
	AdminServiceDeletePickProcedure         = "/admin.v1.AdminService/DeletePick"
	AdminServiceAssignPlayerProcedure       = "/admin.v1.AdminService/AssignPlayer"
	AdminServiceDeletePlayerProcedure       = "/admin.v1.AdminService/DeletePlayer"
	AdminServiceListAllowedEmailsProcedure  = "/admin.v1.AdminService/ListAllowedEmails"
	AdminServiceAddAllowedEmailProcedure    = "/admin.v1.AdminService/AddAllowedEmail"
	AdminServiceRemoveAllowedEmailProcedure = "/admin.v1.AdminService/RemoveAllowedEmail"
	AdminServiceListClaimsProcedure         = "/admin.v1.AdminService/ListClaims"
	AdminServiceDecideClaimProcedure        = "/admin.v1.AdminService/DecideClaim"
	AdminServiceApproveAllClaimsProcedure   = "/admin.v1.AdminService/ApproveAllClaims"
)

type ListTradesRequest struct {
	Status string `json:"status,omitempty"`
}

type ListTradesResponse struct {
	Trades []*tradev1.Trade `json:"trades"`
}

type CancelTradeRequest struct {
	TradeID string `json:"trade_id"`
}

type CancelTradeResponse struct {
	Success bool `json:"success"`
}

type User struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	Image          string                `json:"image,omitempty"`
	IsAdmin        bool                  `json:"is_admin"`
	Picks          []*leaguev1.DraftPick `json:"picks"`
	AcceptedTrades int64                 `json:"accepted_trades"`
	CreatedAt      time.Time             `json:"created_at"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

type DeleteUserResponse struct {
	Success bool `json:"success"`
}

type AddPickRequest struct {
	UserID string `json:"user_id"`
	Round  int    `json:"round"`
	Year   int    `json:"year"`
}

type AddPickResponse struct {
	Pick *leaguev1.DraftPick `json:"pick"`
}

type DeletePickRequest struct {
	PickID string `json:"pick_id"`
}

type DeletePickResponse struct {
	Success bool `json:"success"`
}

// AssignPlayerRequest assigns the player to UserID, or unassigns it when UserID is empty
type AssignPlayerRequest struct {
	PlayerID string `json:"player_id"`
	UserID   string `json:"user_id,omitempty"`
}

type AssignPlayerResponse struct {
	Player *leaguev1.Player `json:"player"`
}

type DeletePlayerRequest struct {
	PlayerID string `json:"player_id"`
}

type DeletePlayerResponse struct {
	Success bool `json:"success"`
}

type AllowedEmail struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type ListAllowedEmailsRequest struct{}

type ListAllowedEmailsResponse struct {
	Emails []*AllowedEmail `json:"emails"`
}

type AddAllowedEmailRequest struct {
	Email string `json:"email"`
}

type AddAllowedEmailResponse struct {
	Email *AllowedEmail `json:"email"`
}

type RemoveAllowedEmailRequest struct {
	Email string `json:"email"`
}

type RemoveAllowedEmailResponse struct {
	Success bool `json:"success"`
}

type ListClaimsRequest struct {
	Status string `json:"status,omitempty"`
}

type ListClaimsResponse struct {
	Claims []*leaguev1.PlayerClaim `json:"claims"`
}

type DecideClaimRequest struct {
	ClaimID string `json:"claim_id"`
	Action  string `json:"action"` // approve or reject
}

type DecideClaimResponse struct {
	Claim *leaguev1.PlayerClaim `json:"claim"`
}

type ApproveAllClaimsRequest struct{}

type ApproveAllClaimsResponse struct {
	Attempted int `json:"attempted"`
	Applied   int `json:"applied"`
	Skipped   int `json:"skipped"`
}

// AdminServiceHandler is implemented by the admin service
type AdminServiceHandler interface {
	ListTrades(context.Context, *connect.Request[ListTradesRequest]) (*connect.Response[ListTradesResponse], error)
	CancelTrade(context.Context, *connect.Request[CancelTradeRequest]) (*connect.Response[CancelTradeResponse], error)
	ListUsers(context.Context, *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error)
	DeleteUser(context.Context, *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteUserResponse], error)
	AddPick(context.Context, *connect.Request[AddPickRequest]) (*connect.Response[AddPickResponse], error)
	DeletePick(context.Context, *connect.Request[DeletePickRequest]) (*connect.Response[DeletePickResponse], error)
	AssignPlayer(context.Context, *connect.Request[AssignPlayerRequest]) (*connect.Response[AssignPlayerResponse], error)
	DeletePlayer(context.Context, *connect.Request[DeletePlayerRequest]) (*connect.Response[DeletePlayerResponse], error)
	ListAllowedEmails(context.Context, *connect.Request[ListAllowedEmailsRequest]) (*connect.Response[ListAllowedEmailsResponse], error)
	AddAllowedEmail(context.Context, *connect.Request[AddAllowedEmailRequest]) (*connect.Response[AddAllowedEmailResponse], error)
	RemoveAllowedEmail(context.Context, *connect.Request[RemoveAllowedEmailRequest]) (*connect.Response[RemoveAllowedEmailResponse], error)
	ListClaims(context.Context, *connect.Request[ListClaimsRequest]) (*connect.Response[ListClaimsResponse], error)
	DecideClaim(context.Context, *connect.Request[DecideClaimRequest]) (*connect.Response[DecideClaimResponse], error)
	ApproveAllClaims(context.Context, *connect.Request[ApproveAllClaimsRequest]) (*connect.Response[ApproveAllClaimsResponse], error)
}

// NewAdminServiceHandler returns the routes serving svc
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(AdminServiceListTradesProcedure, svc.ListTrades, opts...),
		rpc.Unary(AdminServiceCancelTradeProcedure, svc.CancelTrade, opts...),
		rpc.Unary(AdminServiceListUsersProcedure, svc.ListUsers, opts...),
		rpc.Unary(AdminServiceDeleteUserProcedure, svc.DeleteUser, opts...),
		rpc.Unary(AdminServiceAddPickProcedure, svc.AddPick, opts...),
		rpc.Unary(AdminServiceDeletePickProcedure, svc.DeletePick, opts...),
		rpc.Unary(AdminServiceAssignPlayerProcedure, svc.AssignPlayer, opts...),
		rpc.Unary(AdminServiceDeletePlayerProcedure, svc.DeletePlayer, opts...),
		rpc.Unary(AdminServiceListAllowedEmailsProcedure, svc.ListAllowedEmails, opts...),
		rpc.Unary(AdminServiceAddAllowedEmailProcedure, svc.AddAllowedEmail, opts...),
		rpc.Unary(AdminServiceRemoveAllowedEmailProcedure, svc.RemoveAllowedEmail, opts...),
		rpc.Unary(AdminServiceListClaimsProcedure, svc.ListClaims, opts...),
		rpc.Unary(AdminServiceDecideClaimProcedure, svc.DecideClaim, opts...),
		rpc.Unary(AdminServiceApproveAllClaimsProcedure, svc.ApproveAllClaims, opts...),
	}
}
