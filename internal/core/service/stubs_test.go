package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	seq        int
	promoteErr error
	promotions int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Address != nil {
		addr := *u.Address
		clone.Address = &addr
	}
	return &clone
}

func (r *stubUserRepo) put(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("user-%d", r.seq)
	}
	r.users[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Email == user.Email {
			r.mu.Unlock()
			return nil, domain.ErrEmailInUse
		}
	}
	r.mu.Unlock()
	return cloneUser(r.put(cloneUser(user))), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *stubUserRepo) UpdateFields(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	applyUpdate(u, upd)
	return cloneUser(u), nil
}

// applyUpdate mirrors the $set the Mongo repository issues: supplied values
// are stored as given, address parts individually.
func applyUpdate(u *domain.User, upd domain.UserUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.FirstName, upd.FirstName)
	set(&u.LastName, upd.LastName)
	set(&u.IDNumber, upd.IDNumber)
	set(&u.BirthDate, upd.BirthDate)
	set(&u.ActivityType, upd.ActivityType)
	set(&u.ActivityNumber, upd.ActivityNumber)
	set(&u.Phone, upd.Phone)

	a := upd.Address
	if a.Street == nil && a.City == nil && a.State == nil && a.ZipCode == nil && a.Country == nil {
		return
	}
	if u.Address == nil {
		u.Address = &domain.Address{}
	}
	set(&u.Address.Street, a.Street)
	set(&u.Address.City, a.City)
	set(&u.Address.State, a.State)
	set(&u.Address.ZipCode, a.ZipCode)
	set(&u.Address.Country, a.Country)
}

func (r *stubUserRepo) PromoteRole(_ context.Context, id string, from, to domain.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.promoteErr != nil {
		return false, r.promoteErr
	}
	u, ok := r.users[id]
	if !ok || u.Role != from {
		return false, nil
	}
	u.Role = to
	r.promotions++
	return true, nil
}

func (r *stubUserRepo) SetCart(_ context.Context, id, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CartID = cartID
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) role(id string) domain.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].Role
}

// ---------------------------------------------------------------------------
// In-memory cart repository
// ---------------------------------------------------------------------------

type stubCartRepo struct {
	carts map[string]*domain.Cart
	seq   int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*domain.Cart)}
}

func cloneCart(c *domain.Cart) *domain.Cart {
	clone := *c
	clone.Products = append([]domain.CartItem{}, c.Products...)
	return &clone
}

func (r *stubCartRepo) Create(_ context.Context, c *domain.Cart) (*domain.Cart, error) {
	r.seq++
	clone := cloneCart(c)
	clone.ID = fmt.Sprintf("cart-%d", r.seq)
	r.carts[clone.ID] = clone
	return cloneCart(clone), nil
}

func (r *stubCartRepo) FindByID(_ context.Context, id string) (*domain.Cart, error) {
	c, ok := r.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cloneCart(c), nil
}

func (r *stubCartRepo) FindByUser(_ context.Context, userID string) (*domain.Cart, error) {
	for _, c := range r.carts {
		if c.UserID == userID {
			return cloneCart(c), nil
		}
	}
	return nil, domain.ErrCartNotFound
}

func (r *stubCartRepo) SaveItems(_ context.Context, id string, items []domain.CartItem) (*domain.Cart, error) {
	c, ok := r.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	c.Products = append([]domain.CartItem{}, items...)
	return cloneCart(c), nil
}

func (r *stubCartRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, c := range r.carts {
		if c.UserID == userID {
			delete(r.carts, id)
		}
	}
	return nil
}

func (r *stubCartRepo) CartOwner(_ context.Context, id string) (string, error) {
	c, ok := r.carts[id]
	if !ok {
		return "", domain.ErrCartNotFound
	}
	return c.UserID, nil
}

// ---------------------------------------------------------------------------
// In-memory product repository
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	products     map[string]*domain.Product
	decrementErr map[string]error
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		clone := *p
		r.products[p.ID] = &clone
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return nil, domain.ErrSlugInUse
		}
	}
	clone := *p
	if clone.ID == "" {
		clone.ID = "prod-" + p.Slug
	}
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if !f.IncludeInactive && !p.Active {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if _, ok := r.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	r.products[p.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DecrementStock(_ context.Context, id string, qty int) (bool, error) {
	if err := r.decrementErr[id]; err != nil {
		return false, err
	}
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

// ---------------------------------------------------------------------------
// In-memory order repository
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	orders map[string]*domain.Order
	seq    int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.seq++
	clone := *o
	clone.ID = fmt.Sprintf("order-%d", r.seq)
	r.orders[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) List(_ context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.PreviousStatus, o.Status = o.Status, status
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) OrderOwner(_ context.Context, id string) (string, error) {
	o, ok := r.orders[id]
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	return o.UserID, nil
}

// ---------------------------------------------------------------------------
// Password reset repository
// ---------------------------------------------------------------------------

type stubResetRepo struct {
	resets map[string]*domain.PasswordReset
	// afterFind runs once FindByToken has read a token.
	afterFind func(token string)
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{resets: make(map[string]*domain.PasswordReset)}
}

func (r *stubResetRepo) Create(_ context.Context, pr *domain.PasswordReset) error {
	clone := *pr
	r.resets[pr.Token] = &clone
	return nil
}

func (r *stubResetRepo) FindByToken(_ context.Context, token string) (*domain.PasswordReset, error) {
	pr, ok := r.resets[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *pr
	if r.afterFind != nil {
		r.afterFind(token)
	}
	return &clone, nil
}

func (r *stubResetRepo) MarkUsed(_ context.Context, token string) (bool, error) {
	pr, ok := r.resets[token]
	if !ok || pr.Used {
		return false, nil
	}
	pr.Used = true
	return true, nil
}

func (r *stubResetRepo) InvalidateForUser(_ context.Context, userID string) error {
	for _, pr := range r.resets {
		if pr.UserID == userID {
			pr.Used = true
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// plainHasher prefixes the password so tests can tell hashes from input.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Compare(hash, plain string) bool  { return hash == "hashed:"+plain }

// stubTokens issues "tok:<id>:<role>" and verifies the same shape.
type stubTokens struct{}

func (stubTokens) Issue(u *domain.User) (string, error) {
	return "tok:" + u.ID + ":" + string(u.Role), nil
}

func (stubTokens) Verify(token string) (*ports.TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "tok" {
		return nil, errors.New("bad token")
	}
	return &ports.TokenClaims{
		UserID:    parts[1],
		Role:      domain.Role(parts[2]),
		TokenID:   "jti-" + parts[1],
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type stubRevocations struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Time)}
}

func (s *stubRevocations) Revoke(_ context.Context, id string, until time.Time) error {
	s.revoked[id] = until
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[id]
	return ok, nil
}

type recordingNotifier struct {
	sent []ports.Notification
}

func (n *recordingNotifier) Notify(msg ports.Notification) {
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) kinds() []string {
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Kind)
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func strPtr(s string) *string { return &s }

func personalUpdate() domain.UserUpdate {
	return domain.UserUpdate{
		IDNumber:       strPtr("12345678A"),
		BirthDate:      strPtr("1990-04-12"),
		ActivityType:   strPtr("installer"),
		ActivityNumber: strPtr("A-001"),
		Phone:          strPtr("+34600000000"),
	}
}

func addressUpdate() domain.UserUpdate {
	return domain.UserUpdate{Address: domain.AddressUpdate{
		Street:  strPtr("Calle Mayor 1"),
		City:    strPtr("Madrid"),
		State:   strPtr("Madrid"),
		ZipCode: strPtr("28001"),
		Country: strPtr("ES"),
	}}
}

func completeProfile(role domain.Role) *domain.User {
	return &domain.User{
		FirstName:      "Ana",
		LastName:       "García",
		Email:          "ana@example.com",
		PasswordHash:   "hashed:secret1",
		IDNumber:       "12345678A",
		BirthDate:      "1990-04-12",
		ActivityType:   "installer",
		ActivityNumber: "A-001",
		Phone:          "+34600000000",
		Address: &domain.Address{
			Street: "Calle Mayor 1", City: "Madrid", State: "Madrid", ZipCode: "28001", Country: "ES",
		},
		Role: role,
	}
}
