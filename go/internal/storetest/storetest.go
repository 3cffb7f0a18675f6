// Package storetest provides an in-memory store.Runner for tests.
//
// Atomic units are serialized and run against a private copy of the state
// that replaces the shared state only when the unit returns nil, which gives
// the same all-or-nothing behaviour as a Postgres transaction with row locks.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/ownership"
	"github.com/mcdev12/pickswap/go/internal/store"
)

type state struct {
	users   map[uuid.UUID]models.User
	allowed map[string]models.AllowedEmail
	picks   map[uuid.UUID]models.DraftPick
	players map[uuid.UUID]models.Player
	trades  map[uuid.UUID]models.Trade // Items kept in items
	items   map[uuid.UUID]models.TradeItem
	claims  map[uuid.UUID]models.PlayerClaim
	events  []models.OutboxEvent
}

func newState() *state {
	return &state{
		users:   map[uuid.UUID]models.User{},
		allowed: map[string]models.AllowedEmail{},
		picks:   map[uuid.UUID]models.DraftPick{},
		players: map[uuid.UUID]models.Player{},
		trades:  map[uuid.UUID]models.Trade{},
		items:   map[uuid.UUID]models.TradeItem{},
		claims:  map[uuid.UUID]models.PlayerClaim{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		users:   cloneMap(s.users),
		allowed: cloneMap(s.allowed),
		picks:   cloneMap(s.picks),
		players: cloneMap(s.players),
		trades:  cloneMap(s.trades),
		items:   cloneMap(s.items),
		claims:  cloneMap(s.claims),
		events:  append([]models.OutboxEvent(nil), s.events...),
	}
}

type fault struct {
	skip int
	err  error
}

// Store is an in-memory implementation of store.Runner
type Store struct {
	mu     sync.Mutex // held for the whole unit
	dataMu sync.RWMutex
	data   *state
	now    func() time.Time

	faultMu sync.Mutex
	faults  map[string]*fault
}

var _ store.Runner = (*Store)(nil)

// New returns an empty store
func New() *Store {
	return &Store{data: newState(), now: time.Now, faults: map[string]*fault{}}
}

// WithClock sets the clock used for rows created without a timestamp
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// FailAfter makes the named Tx method return err once it has succeeded skip
// times. The fault fires once and then clears.
func (s *Store) FailAfter(method string, skip int, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[method] = &fault{skip: skip, err: err}
}

func (s *Store) inject(method string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	f, ok := s.faults[method]
	if !ok {
		return nil
	}
	if f.skip > 0 {
		f.skip--
		return nil
	}
	delete(s.faults, method)
	return f.err
}

// InTx runs fn against a copy of the state and commits it when fn succeeds
func (s *Store) InTx(ctx context.Context, fn func(store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.dataMu.RLock()
	working := s.data.clone()
	s.dataMu.RUnlock()

	if err := fn(&tx{s: s, st: working}); err != nil {
		return err
	}

	s.dataMu.Lock()
	s.data = working
	s.dataMu.Unlock()
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(st *state)) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	fn(s.data)
}

// Seeding and inspection helpers. They bypass atomic units.

// SeedUser inserts u, filling in an id and timestamp when missing
func (s *Store) SeedUser(u models.User) models.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.write(func(st *state) { st.users[u.ID] = u })
	return u
}

// SeedPick inserts p
func (s *Store) SeedPick(p models.DraftPick) models.DraftPick {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.write(func(st *state) { st.picks[p.ID] = p })
	return p
}

// SeedPlayer inserts p
func (s *Store) SeedPlayer(p models.Player) models.Player {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ExternalID == "" {
		p.ExternalID = p.ID.String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.write(func(st *state) { st.players[p.ID] = p })
	return p
}

// SeedAllowedEmail adds email to the allow-list
func (s *Store) SeedAllowedEmail(email string) {
	email = strings.ToLower(email)
	s.write(func(st *state) {
		st.allowed[email] = models.AllowedEmail{ID: uuid.New(), Email: email, CreatedAt: s.now()}
	})
}

// Pick returns the committed state of a pick
func (s *Store) Pick(id uuid.UUID) (models.DraftPick, bool) {
	var (
		p  models.DraftPick
		ok bool
	)
	s.read(func(st *state) { p, ok = st.picks[id] })
	return p, ok
}

// Player returns the committed state of a player
func (s *Store) Player(id uuid.UUID) (models.Player, bool) {
	var (
		p  models.Player
		ok bool
	)
	s.read(func(st *state) { p, ok = st.players[id] })
	return p, ok
}

// User returns the committed state of a user
func (s *Store) User(id uuid.UUID) (models.User, bool) {
	var (
		u  models.User
		ok bool
	)
	s.read(func(st *state) { u, ok = st.users[id] })
	return u, ok
}

// Trade returns the committed state of a trade with its items
func (s *Store) Trade(id uuid.UUID) (models.Trade, bool) {
	var (
		t  models.Trade
		ok bool
	)
	s.read(func(st *state) {
		t, ok = st.trades[id]
		if ok {
			t.Items = st.itemsOf(id)
		}
	})
	return t, ok
}

// Claim returns the committed state of a claim
func (s *Store) Claim(id uuid.UUID) (models.PlayerClaim, bool) {
	var (
		c  models.PlayerClaim
		ok bool
	)
	s.read(func(st *state) { c, ok = st.claims[id] })
	return c, ok
}

// Counts reports committed row counts, for asserting nothing leaked from a failed unit
func (s *Store) Counts() (trades, items, claims, events int) {
	s.read(func(st *state) {
		trades, items, claims, events = len(st.trades), len(st.items), len(st.claims), len(st.events)
	})
	return
}

// Events returns the committed outbox rows in insertion order
func (s *Store) Events() []models.OutboxEvent {
	var out []models.OutboxEvent
	s.read(func(st *state) { out = append(out, st.events...) })
	return out
}

// Owners maps every asset to its committed owner, nil for unclaimed players
func (s *Store) Owners() map[models.AssetRef]*uuid.UUID {
	out := map[models.AssetRef]*uuid.UUID{}
	s.read(func(st *state) {
		for id, p := range st.picks {
			owner := p.UserID
			out[models.DraftPickRef(id)] = &owner
		}
		for id, p := range st.players {
			out[models.PlayerRef(id)] = p.UserID
		}
	})
	return out
}

func (st *state) itemsOf(tradeID uuid.UUID) []models.TradeItem {
	var out []models.TradeItem
	for _, it := range st.items {
		if it.TradeID == tradeID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Direction != out[j].Direction {
			return out[i].Direction < out[j].Direction
		}
		return lessUUID(out[i].ID, out[j].ID)
	})
	return out
}

func lessUUID(a, b uuid.UUID) bool {
	return strings.Compare(a.String(), b.String()) < 0
}

func notFound(format string, args ...any) error {
	return errs.NotFound(format, args...)
}

func storageConflict(format string, args ...any) error {
	return errs.Wrap(errs.KindStorageConflict, fmt.Errorf(format, args...), "storage conflict")
}

var _ ownership.Store = (*tx)(nil)
