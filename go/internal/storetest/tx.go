package storetest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/ownership"
	"github.com/mcdev12/pickswap/go/internal/store"
)

// tx mirrors the Postgres schema constraints (foreign keys, unique keys,
// checks) so cascade bugs surface as storage conflicts like they would in SQL.
type tx struct {
	s  *Store
	st *state
}

var _ store.Tx = (*tx)(nil)

func (t *tx) now(ts time.Time) time.Time {
	if ts.IsZero() {
		return t.s.now()
	}
	return ts
}

// Users

func (t *tx) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	if err := t.s.inject("CreateUser"); err != nil {
		return nil, err
	}
	for _, existing := range t.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, storageConflict("duplicate user email %s", u.Email)
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = t.now(u.CreatedAt)
	t.st.users[u.ID] = u
	return &u, nil
}

func (t *tx) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := t.st.users[id]
	if !ok {
		return nil, notFound("user %s not found", id)
	}
	return &u, nil
}

func (t *tx) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range t.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, notFound("user %s not found", email)
}

func (t *tx) ListUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(t.st.users))
	for _, u := range t.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (t *tx) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := t.s.inject("DeleteUser"); err != nil {
		return err
	}
	if _, ok := t.st.users[id]; !ok {
		return notFound("user %s not found", id)
	}
	for _, p := range t.st.picks {
		if p.UserID == id {
			return storageConflict("user %s still owns draft picks", id)
		}
	}
	for _, p := range t.st.players {
		if p.UserID != nil && *p.UserID == id {
			return storageConflict("user %s still owns players", id)
		}
	}
	for _, c := range t.st.claims {
		if c.UserID == id {
			return storageConflict("user %s still has claims", id)
		}
	}
	for _, tr := range t.st.trades {
		if tr.Involves(id) {
			return storageConflict("user %s is still party to trades", id)
		}
	}
	delete(t.st.users, id)
	return nil
}

func (t *tx) CountAcceptedTrades(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, tr := range t.st.trades {
		if tr.Status == models.TradeStatusAccepted && tr.Involves(userID) {
			n++
		}
	}
	return n, nil
}

// Allow-list

func (t *tx) IsEmailAllowed(ctx context.Context, email string) (bool, error) {
	_, ok := t.st.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok, nil
}

func (t *tx) ListAllowedEmails(ctx context.Context) ([]models.AllowedEmail, error) {
	out := make([]models.AllowedEmail, 0, len(t.st.allowed))
	for _, e := range t.st.allowed {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (t *tx) CreateAllowedEmail(ctx context.Context, e models.AllowedEmail) (*models.AllowedEmail, error) {
	e.Email = strings.ToLower(e.Email)
	if _, dup := t.st.allowed[e.Email]; dup {
		return nil, errs.Conflict("email %s is already allowed", e.Email)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = t.now(e.CreatedAt)
	t.st.allowed[e.Email] = e
	return &e, nil
}

func (t *tx) DeleteAllowedEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(email)
	if _, ok := t.st.allowed[email]; !ok {
		return false, nil
	}
	delete(t.st.allowed, email)
	return true, nil
}

// Draft picks

func (t *tx) CreateDraftPick(ctx context.Context, p models.DraftPick) (*models.DraftPick, error) {
	if err := t.s.inject("CreateDraftPick"); err != nil {
		return nil, err
	}
	if _, ok := t.st.users[p.UserID]; !ok {
		return nil, storageConflict("draft pick owner %s does not exist", p.UserID)
	}
	if p.Round <= 0 {
		return nil, storageConflict("draft pick round must be positive")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = t.now(p.CreatedAt)
	p.IsTraded = false
	p.Version = 0
	t.st.picks[p.ID] = p
	return &p, nil
}

func (t *tx) GetDraftPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error) {
	p, ok := t.st.picks[id]
	if !ok {
		return nil, notFound("draft pick %s not found", id)
	}
	return &p, nil
}

func (t *tx) ListDraftPicks(ctx context.Context, userID *uuid.UUID) ([]models.DraftPick, error) {
	var out []models.DraftPick
	for _, p := range t.st.picks {
		if userID == nil || p.UserID == *userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.UserID != b.UserID {
			return lessUUID(a.UserID, b.UserID)
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Round < b.Round
	})
	return out, nil
}

func (t *tx) DeleteDraftPick(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.st.picks[id]; !ok {
		return notFound("draft pick %s not found", id)
	}
	for _, it := range t.st.items {
		if it.Asset == models.DraftPickRef(id) {
			return storageConflict("draft pick %s is referenced by trade item %s", id, it.ID)
		}
	}
	delete(t.st.picks, id)
	return nil
}

func (t *tx) DeleteDraftPicksByUser(ctx context.Context, userID uuid.UUID) error {
	for id, p := range t.st.picks {
		if p.UserID != userID {
			continue
		}
		if err := t.DeleteDraftPick(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Players

func (t *tx) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, ok := t.st.players[id]
	if !ok {
		return nil, notFound("player %s not found", id)
	}
	return &p, nil
}

func (t *tx) ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []models.Player
	for _, p := range t.st.players {
		if f.UserID != nil && (p.UserID == nil || *p.UserID != *f.UserID) {
			continue
		}
		if f.Unassigned && p.UserID != nil {
			continue
		}
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		if search != "" {
			team := ""
			if p.Team != nil {
				team = *p.Team
			}
			if !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(team), search) {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t *tx) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.st.players[id]; !ok {
		return notFound("player %s not found", id)
	}
	for _, it := range t.st.items {
		if it.Asset == models.PlayerRef(id) {
			return storageConflict("player %s is referenced by trade item %s", id, it.ID)
		}
	}
	for _, c := range t.st.claims {
		if c.PlayerID == id {
			return storageConflict("player %s is referenced by claim %s", id, c.ID)
		}
	}
	delete(t.st.players, id)
	return nil
}

func (t *tx) UnassignPlayersByUser(ctx context.Context, userID uuid.UUID) error {
	for id, p := range t.st.players {
		if p.UserID != nil && *p.UserID == userID {
			p.UserID = nil
			p.IsTraded = false
			p.Version++
			t.st.players[id] = p
		}
	}
	return nil
}

// Assets

func (t *tx) GetAssets(ctx context.Context, refs []models.AssetRef, forUpdate bool) ([]models.Asset, error) {
	if err := t.s.inject("GetAssets"); err != nil {
		return nil, err
	}
	pickIDs, playerIDs := models.SplitRefs(refs)
	sort.Slice(pickIDs, func(i, j int) bool { return lessUUID(pickIDs[i], pickIDs[j]) })
	sort.Slice(playerIDs, func(i, j int) bool { return lessUUID(playerIDs[i], playerIDs[j]) })

	var out []models.Asset
	for _, id := range pickIDs {
		if p, ok := t.st.picks[id]; ok {
			out = append(out, p.Asset())
		}
	}
	for _, id := range playerIDs {
		if p, ok := t.st.players[id]; ok {
			out = append(out, p.Asset())
		}
	}
	return out, nil
}

func (t *tx) TransferAsset(ctx context.Context, tr ownership.Transfer) (bool, error) {
	if err := t.s.inject("TransferAsset"); err != nil {
		return false, err
	}
	versionOK := func(v int64) bool {
		return tr.ExpectedVersion == nil || *tr.ExpectedVersion == v
	}
	switch tr.Ref.Kind {
	case models.AssetKindDraftPick:
		if tr.NewOwner == nil {
			return false, errs.Validation("draft pick %s must keep an owner", tr.Ref.ID)
		}
		p, ok := t.st.picks[tr.Ref.ID]
		if !ok || tr.ExpectedOwner == nil || p.UserID != *tr.ExpectedOwner || !versionOK(p.Version) {
			return false, nil
		}
		p.UserID = *tr.NewOwner
		p.IsTraded = tr.IsTraded
		p.Version++
		t.st.picks[p.ID] = p
		return true, nil
	case models.AssetKindPlayer:
		p, ok := t.st.players[tr.Ref.ID]
		if !ok || !sameOwner(p.UserID, tr.ExpectedOwner) || !versionOK(p.Version) {
			return false, nil
		}
		if tr.NewOwner != nil {
			owner := *tr.NewOwner
			p.UserID = &owner
		} else {
			p.UserID = nil
		}
		p.IsTraded = tr.IsTraded
		p.Version++
		t.st.players[p.ID] = p
		return true, nil
	default:
		return false, errs.Validation("unknown asset kind %q", tr.Ref.Kind)
	}
}

func sameOwner(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Trades

func (t *tx) CreateTrade(ctx context.Context, tr models.Trade) (*models.Trade, error) {
	if err := t.s.inject("CreateTrade"); err != nil {
		return nil, err
	}
	if tr.FromUserID == tr.ToUserID {
		return nil, storageConflict("trade parties must differ")
	}
	for _, uid := range []uuid.UUID{tr.FromUserID, tr.ToUserID} {
		if _, ok := t.st.users[uid]; !ok {
			return nil, storageConflict("trade party %s does not exist", uid)
		}
	}
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	tr.Status = models.TradeStatusPending
	tr.CreatedAt = t.now(tr.CreatedAt)
	tr.DecidedAt = nil

	items := tr.Items
	tr.Items = nil
	t.st.trades[tr.ID] = tr

	for _, it := range items {
		if err := t.s.inject("CreateTradeItem"); err != nil {
			return nil, err
		}
		if !t.assetExists(it.Asset) {
			return nil, storageConflict("trade item asset %s does not exist", it.Asset)
		}
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.TradeID = tr.ID
		t.st.items[it.ID] = it
	}
	tr.Items = t.st.itemsOf(tr.ID)
	return &tr, nil
}

func (t *tx) assetExists(ref models.AssetRef) bool {
	switch ref.Kind {
	case models.AssetKindDraftPick:
		_, ok := t.st.picks[ref.ID]
		return ok
	case models.AssetKindPlayer:
		_, ok := t.st.players[ref.ID]
		return ok
	}
	return false
}

func (t *tx) GetTrade(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.Trade, error) {
	tr, ok := t.st.trades[id]
	if !ok {
		return nil, notFound("trade %s not found", id)
	}
	tr.Items = t.st.itemsOf(id)
	return &tr, nil
}

func (t *tx) ListTrades(ctx context.Context, f models.TradeFilter) ([]models.Trade, error) {
	var out []models.Trade
	for id, tr := range t.st.trades {
		if f.UserID != nil && !tr.Involves(*f.UserID) {
			continue
		}
		if f.Status != nil && tr.Status != *f.Status {
			continue
		}
		tr.Items = t.st.itemsOf(id)
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (t *tx) UpdateTradeStatus(ctx context.Context, id uuid.UUID, from, to models.TradeStatus, decidedAt time.Time) (bool, error) {
	if err := t.s.inject("UpdateTradeStatus"); err != nil {
		return false, err
	}
	tr, ok := t.st.trades[id]
	if !ok || tr.Status != from {
		return false, nil
	}
	tr.Status = to
	tr.DecidedAt = &decidedAt
	t.st.trades[id] = tr
	return true, nil
}

func (t *tx) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	if err := t.s.inject("DeleteTrade"); err != nil {
		return err
	}
	if _, ok := t.st.trades[id]; !ok {
		return notFound("trade %s not found", id)
	}
	for itemID, it := range t.st.items {
		if it.TradeID == id {
			delete(t.st.items, itemID)
		}
	}
	delete(t.st.trades, id)
	return nil
}

func (t *tx) ListTradeItemsByAsset(ctx context.Context, ref models.AssetRef) ([]models.TradeItem, error) {
	var out []models.TradeItem
	for _, it := range t.st.items {
		if it.Asset == ref {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TradeID != out[j].TradeID {
			return lessUUID(out[i].TradeID, out[j].TradeID)
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (t *tx) DeleteTradeItems(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(t.st.items, id)
	}
	return nil
}

// Claims

func (t *tx) CreateClaim(ctx context.Context, c models.PlayerClaim) (*models.PlayerClaim, error) {
	if err := t.s.inject("CreateClaim"); err != nil {
		return nil, err
	}
	if _, ok := t.st.users[c.UserID]; !ok {
		return nil, storageConflict("claimant %s does not exist", c.UserID)
	}
	if _, ok := t.st.players[c.PlayerID]; !ok {
		return nil, storageConflict("claimed player %s does not exist", c.PlayerID)
	}
	for _, existing := range t.st.claims {
		if existing.UserID == c.UserID && existing.PlayerID == c.PlayerID {
			return nil, storageConflict("duplicate claim for player %s", c.PlayerID)
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Status = models.ClaimStatusPending
	c.CreatedAt = t.now(c.CreatedAt)
	c.DecidedAt = nil
	t.st.claims[c.ID] = c
	return &c, nil
}

func (t *tx) GetClaim(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.PlayerClaim, error) {
	c, ok := t.st.claims[id]
	if !ok {
		return nil, notFound("claim %s not found", id)
	}
	return &c, nil
}

func (t *tx) GetClaimByUserAndPlayer(ctx context.Context, userID, playerID uuid.UUID) (*models.PlayerClaim, error) {
	for _, c := range t.st.claims {
		if c.UserID == userID && c.PlayerID == playerID {
			return &c, nil
		}
	}
	return nil, notFound("claim for player %s not found", playerID)
}

func (t *tx) ListClaims(ctx context.Context, f models.ClaimFilter) ([]models.PlayerClaim, error) {
	var out []models.PlayerClaim
	for _, c := range t.st.claims {
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if f.NewestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return lessUUID(a.ID, b.ID)
	})
	return out, nil
}

func (t *tx) UpdateClaimStatus(ctx context.Context, id uuid.UUID, from, to models.ClaimStatus, decidedAt time.Time) (bool, error) {
	if err := t.s.inject("UpdateClaimStatus"); err != nil {
		return false, err
	}
	c, ok := t.st.claims[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	c.DecidedAt = &decidedAt
	t.st.claims[id] = c
	return true, nil
}

func (t *tx) DeleteClaim(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.st.claims[id]; !ok {
		return notFound("claim %s not found", id)
	}
	delete(t.st.claims, id)
	return nil
}

func (t *tx) DeleteClaimsByUser(ctx context.Context, userID uuid.UUID) error {
	for id, c := range t.st.claims {
		if c.UserID == userID {
			delete(t.st.claims, id)
		}
	}
	return nil
}

func (t *tx) DeleteClaimsByPlayer(ctx context.Context, playerID uuid.UUID) error {
	for id, c := range t.st.claims {
		if c.PlayerID == playerID {
			delete(t.st.claims, id)
		}
	}
	return nil
}

// Outbox

func (t *tx) AppendEvent(ctx context.Context, e models.OutboxEvent) error {
	if err := t.s.inject("AppendEvent"); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = t.now(e.CreatedAt)
	t.st.events = append(t.st.events, e)
	return nil
}
