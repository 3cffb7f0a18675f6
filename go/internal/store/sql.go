package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/db"
	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/ownership"
	"github.com/mcdev12/pickswap/go/internal/sqlutil"
)

// DB runs atomic units against Postgres
type DB struct {
	conn *sql.DB
}

// New creates a Postgres-backed Runner
func New(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// InTx executes fn in a single database transaction
func (d *DB) InTx(ctx context.Context, fn func(Tx) error) error {
	return sqlutil.Run(ctx, d.conn,
		func(tx *sql.Tx) *sqlTx { return &sqlTx{q: db.New(tx)} },
		func(t *sqlTx) error { return fn(t) },
	)
}

// sqlTx implements Tx on top of the generated queries
type sqlTx struct {
	q *db.Queries
}

var _ Tx = (*sqlTx)(nil)

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.KindNotFound, err, format, args...)
	}
	return err
}

func expectOne(n int64, err error, format string, args ...any) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound(format, args...)
	}
	return nil
}

// Users

func (t *sqlTx) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	row, err := t.q.CreateUser(ctx, db.CreateUserParams{
		ID:    u.ID,
		Email: u.Email,
		Name:  sqlutil.ToSqlStringNonEmpty(u.Name),
		Image: sqlutil.ToSqlString(u.Image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return dbUserToModel(row), nil
}

func (t *sqlTx) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := t.q.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user %s not found", id)
	}
	return dbUserToModel(row), nil
}

func (t *sqlTx) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := t.q.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "user %s not found", email)
	}
	return dbUserToModel(row), nil
}

func (t *sqlTx) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := t.q.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, *dbUserToModel(r))
	}
	return out, nil
}

func (t *sqlTx) DeleteUser(ctx context.Context, id uuid.UUID) error {
	n, err := t.q.DeleteUser(ctx, id)
	return expectOne(n, err, "user %s not found", id)
}

func (t *sqlTx) CountAcceptedTrades(ctx context.Context, userID uuid.UUID) (int64, error) {
	return t.q.CountAcceptedTradesByUser(ctx, userID)
}

// Allow-list

func (t *sqlTx) IsEmailAllowed(ctx context.Context, email string) (bool, error) {
	return t.q.IsEmailAllowed(ctx, strings.TrimSpace(email))
}

func (t *sqlTx) ListAllowedEmails(ctx context.Context) ([]models.AllowedEmail, error) {
	rows, err := t.q.ListAllowedEmails(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.AllowedEmail, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AllowedEmail{ID: r.ID, Email: r.Email, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

func (t *sqlTx) CreateAllowedEmail(ctx context.Context, e models.AllowedEmail) (*models.AllowedEmail, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	row, err := t.q.CreateAllowedEmail(ctx, e.ID, e.Email)
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return nil, errs.Wrap(errs.KindConflict, err, "email %s is already allowed", e.Email)
		}
		return nil, fmt.Errorf("failed to create allowed email: %w", err)
	}
	return &models.AllowedEmail{ID: row.ID, Email: row.Email, CreatedAt: row.CreatedAt}, nil
}

func (t *sqlTx) DeleteAllowedEmail(ctx context.Context, email string) (bool, error) {
	n, err := t.q.DeleteAllowedEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Draft picks

func (t *sqlTx) CreateDraftPick(ctx context.Context, p models.DraftPick) (*models.DraftPick, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	row, err := t.q.CreateDraftPick(ctx, db.CreateDraftPickParams{
		ID:     p.ID,
		UserID: p.UserID,
		Round:  int32(p.Round),
		Year:   int32(p.Year),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create draft pick: %w", err)
	}
	return dbDraftPickToModel(row), nil
}

func (t *sqlTx) GetDraftPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error) {
	row, err := t.q.GetDraftPick(ctx, id)
	if err != nil {
		return nil, notFound(err, "draft pick %s not found", id)
	}
	return dbDraftPickToModel(row), nil
}

func (t *sqlTx) ListDraftPicks(ctx context.Context, userID *uuid.UUID) ([]models.DraftPick, error) {
	var (
		rows []db.DraftPick
		err  error
	)
	if userID != nil {
		rows, err = t.q.ListDraftPicksByUser(ctx, *userID)
	} else {
		rows, err = t.q.ListAllDraftPicks(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]models.DraftPick, 0, len(rows))
	for _, r := range rows {
		out = append(out, *dbDraftPickToModel(r))
	}
	return out, nil
}

func (t *sqlTx) DeleteDraftPick(ctx context.Context, id uuid.UUID) error {
	n, err := t.q.DeleteDraftPick(ctx, id)
	return expectOne(n, err, "draft pick %s not found", id)
}

func (t *sqlTx) DeleteDraftPicksByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := t.q.DeleteDraftPicksByUser(ctx, userID)
	return err
}

// Players

func (t *sqlTx) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row, err := t.q.GetPlayer(ctx, id)
	if err != nil {
		return nil, notFound(err, "player %s not found", id)
	}
	return dbPlayerToModel(row), nil
}

func (t *sqlTx) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	rows, err := t.q.ListPlayers(ctx, db.ListPlayersParams{
		UserID:     sqlutil.ToNullUUID(f.UserID),
		Unassigned: f.Unassigned,
		Search:     sqlutil.ToSqlStringNonEmpty(strings.TrimSpace(f.Search)),
		Position:   sqlutil.ToSqlStringNonEmpty(f.Position),
	})
	if err != nil {
		return nil, err
	}
	out := make([]models.Player, 0, len(rows))
	for _, r := range rows {
		out = append(out, *dbPlayerToModel(r))
	}
	return out, nil
}

func (t *sqlTx) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	n, err := t.q.DeletePlayer(ctx, id)
	return expectOne(n, err, "player %s not found", id)
}

func (t *sqlTx) UnassignPlayersByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := t.q.UnassignPlayersByUser(ctx, userID)
	return err
}

// Assets

func (t *sqlTx) GetAssets(ctx context.Context, refs []models.AssetRef, forUpdate bool) ([]models.Asset, error) {
	pickIDs, playerIDs := models.SplitRefs(refs)
	var out []models.Asset

	if len(pickIDs) > 0 {
		load := t.q.ListDraftPicksByIDs
		if forUpdate {
			load = t.q.LockDraftPicksByIDs
		}
		picks, err := load(ctx, pickIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range picks {
			out = append(out, dbDraftPickToModel(p).Asset())
		}
	}

	if len(playerIDs) > 0 {
		load := t.q.ListPlayersByIDs
		if forUpdate {
			load = t.q.LockPlayersByIDs
		}
		players, err := load(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range players {
			out = append(out, dbPlayerToModel(p).Asset())
		}
	}
	return out, nil
}

func (t *sqlTx) TransferAsset(ctx context.Context, tr ownership.Transfer) (bool, error) {
	var (
		n   int64
		err error
	)
	switch tr.Ref.Kind {
	case models.AssetKindDraftPick:
		if tr.NewOwner == nil {
			return false, errs.Validation("draft pick %s must keep an owner", tr.Ref.ID)
		}
		if tr.ExpectedOwner == nil {
			return false, nil
		}
		n, err = t.q.TransferDraftPick(ctx, db.TransferDraftPickParams{
			ID:              tr.Ref.ID,
			NewUserID:       *tr.NewOwner,
			IsTraded:        tr.IsTraded,
			ExpectedUserID:  *tr.ExpectedOwner,
			ExpectedVersion: sqlutil.ToSqlInt64(tr.ExpectedVersion),
		})
	case models.AssetKindPlayer:
		n, err = t.q.TransferPlayer(ctx, db.TransferPlayerParams{
			ID:              tr.Ref.ID,
			NewUserID:       sqlutil.ToNullUUID(tr.NewOwner),
			IsTraded:        tr.IsTraded,
			ExpectedUserID:  sqlutil.ToNullUUID(tr.ExpectedOwner),
			ExpectedVersion: sqlutil.ToSqlInt64(tr.ExpectedVersion),
		})
	default:
		return false, errs.Validation("unknown asset kind %q", tr.Ref.Kind)
	}
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Trades

func (t *sqlTx) CreateTrade(ctx context.Context, tr models.Trade) (*models.Trade, error) {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	row, err := t.q.CreateTrade(ctx, db.CreateTradeParams{
		ID:         tr.ID,
		FromUserID: tr.FromUserID,
		ToUserID:   tr.ToUserID,
		CreatedAt:  tr.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	created := dbTradeToModel(row)
	for _, item := range tr.Items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		params := db.CreateTradeItemParams{
			ID:           item.ID,
			TradeID:      created.ID,
			Direction:    string(item.Direction),
			AssetVersion: item.AssetVersion,
		}
		switch item.Asset.Kind {
		case models.AssetKindDraftPick:
			params.DraftPickID = uuid.NullUUID{UUID: item.Asset.ID, Valid: true}
		case models.AssetKindPlayer:
			params.PlayerID = uuid.NullUUID{UUID: item.Asset.ID, Valid: true}
		default:
			return nil, errs.Validation("unknown asset kind %q", item.Asset.Kind)
		}
		itemRow, err := t.q.CreateTradeItem(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to create trade item: %w", err)
		}
		created.Items = append(created.Items, dbTradeItemToModel(itemRow))
	}
	return created, nil
}

func (t *sqlTx) GetTrade(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.Trade, error) {
	get := t.q.GetTrade
	if forUpdate {
		get = t.q.GetTradeForUpdate
	}
	row, err := get(ctx, id)
	if err != nil {
		return nil, notFound(err, "trade %s not found", id)
	}
	trades, err := t.attachItems(ctx, []db.Trade{row})
	if err != nil {
		return nil, err
	}
	return &trades[0], nil
}

func (t *sqlTx) ListTrades(ctx context.Context, f models.TradeFilter) ([]models.Trade, error) {
	params := db.ListTradesParams{UserID: sqlutil.ToNullUUID(f.UserID)}
	if f.Status != nil {
		params.Status = sql.NullString{String: string(*f.Status), Valid: true}
	}
	rows, err := t.q.ListTrades(ctx, params)
	if err != nil {
		return nil, err
	}
	return t.attachItems(ctx, rows)
}

func (t *sqlTx) attachItems(ctx context.Context, rows []db.Trade) ([]models.Trade, error) {
	out := make([]models.Trade, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
		index[r.ID] = i
		out = append(out, *dbTradeToModel(r))
	}
	items, err := t.q.ListTradeItemsByTradeIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load trade items: %w", err)
	}
	for _, it := range items {
		i := index[it.TradeID]
		out[i].Items = append(out[i].Items, dbTradeItemToModel(it))
	}
	return out, nil
}

func (t *sqlTx) UpdateTradeStatus(ctx context.Context, id uuid.UUID, from, to models.TradeStatus, decidedAt time.Time) (bool, error) {
	n, err := t.q.UpdateTradeStatus(ctx, db.UpdateTradeStatusParams{
		ID:             id,
		Status:         string(to),
		DecidedAt:      sql.NullTime{Time: decidedAt, Valid: true},
		ExpectedStatus: string(from),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *sqlTx) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	if _, err := t.q.DeleteTradeItemsByTrade(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trade items: %w", err)
	}
	n, err := t.q.DeleteTrade(ctx, id)
	return expectOne(n, err, "trade %s not found", id)
}

func (t *sqlTx) ListTradeItemsByAsset(ctx context.Context, ref models.AssetRef) ([]models.TradeItem, error) {
	var pickID, playerID uuid.NullUUID
	switch ref.Kind {
	case models.AssetKindDraftPick:
		pickID = uuid.NullUUID{UUID: ref.ID, Valid: true}
	case models.AssetKindPlayer:
		playerID = uuid.NullUUID{UUID: ref.ID, Valid: true}
	default:
		return nil, errs.Validation("unknown asset kind %q", ref.Kind)
	}
	rows, err := t.q.ListTradeItemsByAsset(ctx, pickID, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.TradeItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, dbTradeItemToModel(r))
	}
	return out, nil
}

func (t *sqlTx) DeleteTradeItems(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.q.DeleteTradeItems(ctx, ids)
	return err
}

// Claims

func (t *sqlTx) CreateClaim(ctx context.Context, c models.PlayerClaim) (*models.PlayerClaim, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row, err := t.q.CreatePlayerClaim(ctx, db.CreatePlayerClaimParams{
		ID:        c.ID,
		UserID:    c.UserID,
		PlayerID:  c.PlayerID,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}
	return dbClaimToModel(row), nil
}

func (t *sqlTx) GetClaim(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.PlayerClaim, error) {
	get := t.q.GetPlayerClaim
	if forUpdate {
		get = t.q.GetPlayerClaimForUpdate
	}
	row, err := get(ctx, id)
	if err != nil {
		return nil, notFound(err, "claim %s not found", id)
	}
	return dbClaimToModel(row), nil
}

func (t *sqlTx) GetClaimByUserAndPlayer(ctx context.Context, userID, playerID uuid.UUID) (*models.PlayerClaim, error) {
	row, err := t.q.GetPlayerClaimByUserAndPlayer(ctx, userID, playerID)
	if err != nil {
		return nil, notFound(err, "claim for player %s not found", playerID)
	}
	return dbClaimToModel(row), nil
}

func (t *sqlTx) ListClaims(ctx context.Context, f models.ClaimFilter) ([]models.PlayerClaim, error) {
	params := db.ListPlayerClaimsParams{
		UserID:      sqlutil.ToNullUUID(f.UserID),
		NewestFirst: f.NewestFirst,
	}
	if f.Status != nil {
		params.Status = sql.NullString{String: string(*f.Status), Valid: true}
	}
	rows, err := t.q.ListPlayerClaims(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]models.PlayerClaim, 0, len(rows))
	for _, r := range rows {
		out = append(out, *dbClaimToModel(r))
	}
	return out, nil
}

func (t *sqlTx) UpdateClaimStatus(ctx context.Context, id uuid.UUID, from, to models.ClaimStatus, decidedAt time.Time) (bool, error) {
	n, err := t.q.UpdatePlayerClaimStatus(ctx, db.UpdatePlayerClaimStatusParams{
		ID:             id,
		Status:         string(to),
		DecidedAt:      sql.NullTime{Time: decidedAt, Valid: true},
		ExpectedStatus: string(from),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *sqlTx) DeleteClaim(ctx context.Context, id uuid.UUID) error {
	n, err := t.q.DeletePlayerClaim(ctx, id)
	return expectOne(n, err, "claim %s not found", id)
}

func (t *sqlTx) DeleteClaimsByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := t.q.DeletePlayerClaimsByUser(ctx, userID)
	return err
}

func (t *sqlTx) DeleteClaimsByPlayer(ctx context.Context, playerID uuid.UUID) error {
	_, err := t.q.DeletePlayerClaimsByPlayer(ctx, playerID)
	return err
}

// Outbox

func (t *sqlTx) AppendEvent(ctx context.Context, e models.OutboxEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := t.q.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		ID:          e.ID,
		AggregateID: e.AggregateID,
		EventType:   e.EventType,
		Payload:     e.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to append %s event: %w", e.EventType, err)
	}
	return nil
}
