// Package tradev1 defines the trade.v1.TradeService messages and routes.
package tradev1

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mcdev12/pickswap/go/internal/rpc"
)

const TradeServiceName = "trade.v1.TradeService"

const (
	TradeServiceCreateTradeProcedure  = "/trade.v1.TradeService/CreateTrade"
	TradeServiceDecideTradeProcedure  = "/trade.v1.TradeService/DecideTrade"
	TradeServiceListMyTradesProcedure = "/trade.v1.TradeService/ListMyTrades"
	TradeServiceGetTradeProcedure     = "/trade.v1.TradeService/GetTrade"
)

type TradeItem struct {
	ID           string `json:"id"`
	Direction    string `json:"direction"`
	Kind         string `json:"kind"`
	AssetID      string `json:"asset_id"`
	AssetVersion int64  `json:"asset_version"`
}

type Trade struct {
	ID         string       `json:"id"`
	FromUserID string       `json:"from_user_id"`
	ToUserID   string       `json:"to_user_id"`
	Status     string       `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	DecidedAt  *time.Time   `json:"decided_at,omitempty"`
	Items      []*TradeItem `json:"items"`
}

type CreateTradeRequest struct {
	RecipientUserID    string   `json:"recipient_user_id"`
	OfferedPickIDs     []string `json:"offered_pick_ids"`
	OfferedPlayerIDs   []string `json:"offered_player_ids"`
	RequestedPickIDs   []string `json:"requested_pick_ids"`
	RequestedPlayerIDs []string `json:"requested_player_ids"`
}

type CreateTradeResponse struct {
	Trade *Trade `json:"trade"`
}

type DecideTradeRequest struct {
	TradeID string `json:"trade_id"`
	Action  string `json:"action"` // accept or reject
}

type DecideTradeResponse struct {
	Success bool   `json:"success"`
	Trade   *Trade `json:"trade"`
}

type ListMyTradesRequest struct {
	Status string `json:"status,omitempty"`
}

type ListMyTradesResponse struct {
	Sent     []*Trade `json:"sent"`
	Received []*Trade `json:"received"`
}

type GetTradeRequest struct {
	TradeID string `json:"trade_id"`
}

type GetTradeResponse struct {
	Trade *Trade `json:"trade"`
}

// TradeServiceHandler is implemented by the trade service
type TradeServiceHandler interface {
	CreateTrade(context.Context, *connect.Request[CreateTradeRequest]) (*connect.Response[CreateTradeResponse], error)
	DecideTrade(context.Context, *connect.Request[DecideTradeRequest]) (*connect.Response[DecideTradeResponse], error)
	ListMyTrades(context.Context, *connect.Request[ListMyTradesRequest]) (*connect.Response[ListMyTradesResponse], error)
	GetTrade(context.Context, *connect.Request[GetTradeRequest]) (*connect.Response[GetTradeResponse], error)
}

// NewTradeServiceHandler returns the routes serving svc
func NewTradeServiceHandler(svc TradeServiceHandler, opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(TradeServiceCreateTradeProcedure, svc.CreateTrade, opts...),
		rpc.Unary(TradeServiceDecideTradeProcedure, svc.DecideTrade, opts...),
		rpc.Unary(TradeServiceListMyTradesProcedure, svc.ListMyTrades, opts...),
		rpc.Unary(TradeServiceGetTradeProcedure, svc.GetTrade, opts...),
	}
}

// TradeServiceClient calls the trade service over the Connect JSON protocol
type TradeServiceClient struct {
	createTrade  *connect.Client[CreateTradeRequest, CreateTradeResponse]
	decideTrade  *connect.Client[DecideTradeRequest, DecideTradeResponse]
	listMyTrades *connect.Client[ListMyTradesRequest, ListMyTradesResponse]
	getTrade     *connect.Client[GetTradeRequest, GetTradeResponse]
}

func NewTradeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TradeServiceClient {
	return &TradeServiceClient{
		createTrade:  rpc.NewClient[CreateTradeRequest, CreateTradeResponse](httpClient, baseURL, TradeServiceCreateTradeProcedure, opts...),
		decideTrade:  rpc.NewClient[DecideTradeRequest, DecideTradeResponse](httpClient, baseURL, TradeServiceDecideTradeProcedure, opts...),
		listMyTrades: rpc.NewClient[ListMyTradesRequest, ListMyTradesResponse](httpClient, baseURL, TradeServiceListMyTradesProcedure, opts...),
		getTrade:     rpc.NewClient[GetTradeRequest, GetTradeResponse](httpClient, baseURL, TradeServiceGetTradeProcedure, opts...),
	}
}

func (c *TradeServiceClient) CreateTrade(ctx context.Context, req *connect.Request[CreateTradeRequest]) (*connect.Response[CreateTradeResponse], error) {
	return c.createTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) DecideTrade(ctx context.Context, req *connect.Request[DecideTradeRequest]) (*connect.Response[DecideTradeResponse], error) {
	return c.decideTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) ListMyTrades(ctx context.Context, req *connect.Request[ListMyTradesRequest]) (*connect.Response[ListMyTradesResponse], error) {
	return c.listMyTrades.CallUnary(ctx, req)
}

func (c *TradeServiceClient) GetTrade(ctx context.Context, req *connect.Request[GetTradeRequest]) (*connect.Response[GetTradeResponse], error) {
	return c.getTrade.CallUnary(ctx, req)
}
