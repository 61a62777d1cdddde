package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

// ── users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*domain.User
	lookups int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Permissions = append([]domain.Permission(nil), u.Permissions...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) put(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) UpdatePermissions(_ context.Context, id string, perms []domain.Permission) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Permissions = append([]domain.Permission(nil), perms...)
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiry = expiry
	return nil
}

func (r *stubUserRepo) matchReset(id, tokenHash string, now time.Time) (*domain.User, bool) {
	u, ok := r.users[id]
	if !ok || u.ResetTokenHash == "" || u.ResetTokenHash != tokenHash || u.ResetTokenExpiry.Before(now) {
		return nil, false
	}
	return u, true
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, id, tokenHash string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	u, ok := r.matchReset(id, tokenHash, now)
	if !ok {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ConsumeResetToken(_ context.Context, id, tokenHash, passwordHash string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.matchReset(id, tokenHash, now)
	if !ok {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = time.Time{}
	return cloneUser(u), nil
}

// ── items ─────────────────────────────────────────────────────────────────────

type stubItemRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Item
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[string]*domain.Item)}
}

func (r *stubItemRepo) put(it *domain.Item) *domain.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *it
	r.items[it.ID] = &c
	return it
}

func (r *stubItemRepo) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c := *item
	c.ID = fmt.Sprintf("i%d", r.seq)
	r.items[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	c := *it
	return &c, nil
}

func (r *stubItemRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Item, len(ids))
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			c := *it
			out[id] = &c
		}
	}
	return out, nil
}

func (r *stubItemRepo) List(_ context.Context, filter ports.ListItemsFilter) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.Item, 0, len(r.items))
	for _, it := range r.items {
		c := *it
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if filter.Skip >= len(all) {
		return nil, nil
	}
	all = all[filter.Skip:]
	if len(all) > filter.First {
		all = all[:filter.First]
	}
	return all, nil
}

func (r *stubItemRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *stubItemRepo) Update(_ context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if patch.Title != nil {
		it.Title = *patch.Title
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Image != nil {
		it.Image = *patch.Image
	}
	if patch.LargeImage != nil {
		it.LargeImage = *patch.LargeImage
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	c := *it
	return &c, nil
}

func (r *stubItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// ── cart ──────────────────────────────────────────────────────────────────────

type stubCartRepo struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*domain.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{rows: make(map[string]*domain.CartItem)}
}

func (r *stubCartRepo) put(ci *domain.CartItem) *domain.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *ci
	r.rows[ci.ID] = &c
	return ci
}

func (r *stubCartRepo) Increment(_ context.Context, userID, itemID string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ci := range r.rows {
		if ci.UserID == userID && ci.ItemID == itemID {
			ci.Quantity++
			c := *ci
			return &c, nil
		}
	}
	r.seq++
	ci := &domain.CartItem{ID: fmt.Sprintf("c%d", r.seq), UserID: userID, ItemID: itemID, Quantity: 1}
	r.rows[ci.ID] = ci
	c := *ci
	return &c, nil
}

func (r *stubCartRepo) FindByID(_ context.Context, id string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ci, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrCartItemNotFound
	}
	c := *ci
	return &c, nil
}

func (r *stubCartRepo) ListByUser(_ context.Context, userID string) ([]*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.CartItem
	for _, ci := range r.rows {
		if ci.UserID == userID {
			c := *ci
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCartRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrCartItemNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *stubCartRepo) consume(userID string, consumed []ports.ConsumedCartItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range consumed {
		ci, ok := r.rows[c.ID]
		if !ok || ci.UserID != userID {
			continue
		}
		ci.Quantity -= c.Quantity
		if ci.Quantity <= 0 {
			delete(r.rows, c.ID)
		}
	}
}

func (r *stubCartRepo) quantity(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ci, ok := r.rows[id]; ok {
		return ci.Quantity
	}
	return 0
}

func (r *stubCartRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// ── orders ────────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	mu      sync.Mutex
	seq     int
	orders  map[string]*domain.Order
	carts   *stubCartRepo
	failErr error
}

func newStubOrderRepo(carts *stubCartRepo) *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order), carts: carts}
}

func (r *stubOrderRepo) CreateFromCart(_ context.Context, order *domain.Order, consumed []ports.ConsumedCartItem) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.seq++
	c := *order
	c.ID = fmt.Sprintf("o%d", r.seq)
	r.orders[c.ID] = &c
	r.carts.consume(order.UserID, consumed)
	out := c
	return &out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// ── payment / lock / mail ─────────────────────────────────────────────────────

type stubGateway struct {
	mu       sync.Mutex
	calls    []ports.CaptureRequest
	captureF func(ctx context.Context, req ports.CaptureRequest) (*domain.Capture, error)
}

func (g *stubGateway) Capture(ctx context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.captureF != nil {
		return g.captureF(ctx, req)
	}
	return &domain.Capture{ChargeID: "ch_1", Amount: req.Amount, Currency: req.Currency}, nil
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]bool)}
}

func (l *memLocker) Acquire(_ context.Context, userID string) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[userID] {
		return nil, domain.ErrCheckoutInProgress
	}
	l.held[userID] = true
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, userID)
		return nil
	}, nil
}

type stubMailQueue struct {
	mu   sync.Mutex
	sent []ports.Mail
}

func (q *stubMailQueue) Enqueue(m ports.Mail) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, m)
}

// ── identities ────────────────────────────────────────────────────────────────

func identityOf(u *domain.User) *domain.Identity {
	return &domain.Identity{UserID: u.ID, User: u}
}

func userWith(id string, perms ...domain.Permission) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", Name: id, Permissions: perms}
}
