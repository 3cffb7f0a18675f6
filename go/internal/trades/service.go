package trades

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/api/tradev1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

// TradesApp defines what the service layer needs from the trades application
type TradesApp interface {
	CreateTrade(ctx context.Context, proposerID uuid.UUID, req CreateTradeRequest) (*models.Trade, error)
	DecideTrade(ctx context.Context, tradeID, deciderID uuid.UUID, decision Decision) (*models.Trade, error)
	GetTrade(ctx context.Context, tradeID, viewerID uuid.UUID, admin bool) (*models.Trade, error)
	ListMyTrades(ctx context.Context, userID uuid.UUID, status *models.TradeStatus) (*MyTrades, error)
}

// Service implements the TradeService Connect interface
type Service struct {
	app   TradesApp
	authz *auth.Authorizer
}

// NewService creates a new trades service
func NewService(app TradesApp, authz *auth.Authorizer) *Service {
	return &Service{app: app, authz: authz}
}

var _ tradev1.TradeServiceHandler = (*Service)(nil)

// CreateTrade proposes a trade from the caller
func (s *Service) CreateTrade(ctx context.Context, req *connect.Request[tradev1.CreateTradeRequest]) (*connect.Response[tradev1.CreateTradeResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	appReq, err := protoToCreateTradeRequest(req.Msg)
	if err != nil {
		return nil, rpc.Error(err)
	}

	trade, err := s.app.CreateTrade(ctx, caller.UserID, appReq)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&tradev1.CreateTradeResponse{Trade: tradev1.FromModel(trade)}), nil
}

// DecideTrade accepts or rejects a trade addressed to the caller
func (s *Service) DecideTrade(ctx context.Context, req *connect.Request[tradev1.DecideTradeRequest]) (*connect.Response[tradev1.DecideTradeResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	tradeID, err := rpc.ParseID("trade_id", req.Msg.TradeID)
	if err != nil {
		return nil, rpc.Error(err)
	}

	trade, err := s.app.DecideTrade(ctx, tradeID, caller.UserID, Decision(req.Msg.Action))
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&tradev1.DecideTradeResponse{
		Success: true,
		Trade:   tradev1.FromModel(trade),
	}), nil
}

// ListMyTrades lists the caller's sent and received trades
func (s *Service) ListMyTrades(ctx context.Context, req *connect.Request[tradev1.ListMyTradesRequest]) (*connect.Response[tradev1.ListMyTradesResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	status, err := ParseStatus(req.Msg.Status)
	if err != nil {
		return nil, rpc.Error(err)
	}

	mine, err := s.app.ListMyTrades(ctx, caller.UserID, status)
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&tradev1.ListMyTradesResponse{
		Sent:     tradev1.FromModels(mine.Sent),
		Received: tradev1.FromModels(mine.Received),
	}), nil
}

// GetTrade returns one trade the caller is party to
func (s *Service) GetTrade(ctx context.Context, req *connect.Request[tradev1.GetTradeRequest]) (*connect.Response[tradev1.GetTradeResponse], error) {
	caller, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, rpc.Error(err)
	}
	tradeID, err := rpc.ParseID("trade_id", req.Msg.TradeID)
	if err != nil {
		return nil, rpc.Error(err)
	}

	trade, err := s.app.GetTrade(ctx, tradeID, caller.UserID, s.authz.IsAdmin(caller))
	if err != nil {
		return nil, rpc.Error(err)
	}
	return connect.NewResponse(&tradev1.GetTradeResponse{Trade: tradev1.FromModel(trade)}), nil
}

// ParseStatus parses an optional trade status filter
func ParseStatus(s string) (*models.TradeStatus, error) {
	if s == "" {
		return nil, nil
	}
	status := models.TradeStatus(s)
	switch status {
	case models.TradeStatusPending, models.TradeStatusAccepted, models.TradeStatusRejected:
		return &status, nil
	}
	return nil, errs.Validation("unknown trade status %q", s)
}

func protoToCreateTradeRequest(msg *tradev1.CreateTradeRequest) (CreateTradeRequest, error) {
	var (
		out CreateTradeRequest
		err error
	)
	if out.RecipientID, err = rpc.ParseID("recipient_user_id", msg.RecipientUserID); err != nil {
		return out, err
	}
	if out.OfferedPickIDs, err = rpc.ParseIDs("offered_pick_ids", msg.OfferedPickIDs); err != nil {
		return out, err
	}
	if out.OfferedPlayerIDs, err = rpc.ParseIDs("offered_player_ids", msg.OfferedPlayerIDs); err != nil {
		return out, err
	}
	if out.RequestedPickIDs, err = rpc.ParseIDs("requested_pick_ids", msg.RequestedPickIDs); err != nil {
		return out, err
	}
	if out.RequestedPlayerIDs, err = rpc.ParseIDs("requested_player_ids", msg.RequestedPlayerIDs); err != nil {
		return out, err
	}
	return out, nil
}
