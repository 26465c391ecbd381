package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/authz"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
	"github.com/madezdev/ecommerce-api/internal/core/service"
)

type owners map[string]string

func (o owners) CartOwner(_ context.Context, id string) (string, error) {
	if owner, ok := o[id]; ok {
		return owner, nil
	}
	return "", domain.ErrCartNotFound
}

func (o owners) OrderOwner(_ context.Context, id string) (string, error) {
	if owner, ok := o[id]; ok {
		return owner, nil
	}
	return "", domain.ErrOrderNotFound
}

type fakeCarts struct {
	ports.CartService
	added int
}

func (f *fakeCarts) Get(_ context.Context, id string) (*domain.Cart, error) {
	return &domain.Cart{ID: id, Products: []domain.CartItem{}}, nil
}

func (f *fakeCarts) AddProduct(_ context.Context, cartID, productID string, qty int) (*domain.Cart, error) {
	f.added++
	return &domain.Cart{ID: cartID, Products: []domain.CartItem{{ProductID: productID, Quantity: 1}}}, nil
}

type fakeOrders struct {
	ports.OrderService
}

func (fakeOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	return &domain.Order{ID: id, UserID: "u1", Status: domain.OrderPending}, nil
}

type fakeUsers struct {
	ports.UserService
}

func (fakeUsers) List(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: "u1"}}, nil
}

var principals = service.StaticResolver{
	"alice": {ID: "u1", Role: domain.RoleUser, CartID: "c1"},
	"bob":   {ID: "u2", Role: domain.RoleUser, CartID: "c2"},
	"gina":  {ID: "u3", Role: domain.RoleGuest, CartID: "c3"},
	"root":  {ID: "a1", Role: domain.RoleAdmin},
}

func newTestRouter(carts *fakeCarts) http.Handler {
	own := owners{"c1": "u1", "c2": "u2", "c3": "u3", "o1": "u1"}
	return NewRouter(Deps{
		Carts:          carts,
		Orders:         fakeOrders{},
		Users:          fakeUsers{},
		Resolver:       principals,
		Guard:          authz.NewGuard(own, own, zerolog.Nop()),
		DisableMetrics: true,
	}, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

// A user asking for someone else's cart is refused; an admin is not.
func TestRouter_CartOwnership(t *testing.T) {
	h := newTestRouter(&fakeCarts{})

	code, resp := do(t, h, http.MethodGet, "/api/carts/c1", "bob", "")
	if code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", code)
	}
	if resp["status"] != "error" || resp["code"] != nil {
		t.Fatalf("unexpected body %v", resp)
	}

	if code, _ = do(t, h, http.MethodGet, "/api/carts/c1", "root", ""); code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", code)
	}
	if code, _ = do(t, h, http.MethodGet, "/api/carts/c1", "alice", ""); code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", code)
	}
}

// A guest adding to a cart gets the profile code, even on their own cart.
func TestRouter_GuestCannotMutateCart(t *testing.T) {
	carts := &fakeCarts{}
	h := newTestRouter(carts)

	for _, cart := range []string{"c3", "c1"} {
		code, resp := do(t, h, http.MethodPost, "/api/carts/"+cart+"/products/p1", "gina", `{"quantity":1}`)
		if code != http.StatusForbidden {
			t.Fatalf("cart %s: expected 403, got %d", cart, code)
		}
		if resp["code"] != domain.CodeIncompleteProfile {
			t.Fatalf("cart %s: expected INCOMPLETE_PROFILE, got %v", cart, resp["code"])
		}
	}
	if carts.added != 0 {
		t.Fatalf("service must not be reached")
	}

	code, resp := do(t, h, http.MethodPost, "/api/carts/c1/products/p1", "bob", `{"quantity":1}`)
	if code != http.StatusForbidden || resp["code"] != nil {
		t.Fatalf("ownership denial must carry no profile code, got %d %v", code, resp)
	}

	if code, _ = do(t, h, http.MethodPost, "/api/carts/c1/products/p1", "alice", `{"quantity":2}`); code != http.StatusOK {
		t.Fatalf("expected owner add to succeed, got %d", code)
	}
	if carts.added != 1 {
		t.Fatalf("expected one add, got %d", carts.added)
	}
}

func TestRouter_OrderExistenceHiding(t *testing.T) {
	h := newTestRouter(&fakeCarts{})

	foreignCode, foreign := do(t, h, http.MethodGet, "/api/orders/o1", "bob", "")
	missingCode, missing := do(t, h, http.MethodGet, "/api/orders/o9", "bob", "")
	if foreignCode != http.StatusNotFound || missingCode != http.StatusNotFound {
		t.Fatalf("expected 404 for both, got %d and %d", foreignCode, missingCode)
	}
	if foreign["message"] != missing["message"] {
		t.Fatalf("bodies must match: %v vs %v", foreign, missing)
	}

	if code, _ := do(t, h, http.MethodGet, "/api/orders/o1", "alice", ""); code != http.StatusOK {
		t.Fatalf("owner should read the order, got %d", code)
	}
}

func TestRouter_AuthAndRoles(t *testing.T) {
	h := newTestRouter(&fakeCarts{})

	if code, resp := do(t, h, http.MethodGet, "/api/users", "", ""); code != http.StatusUnauthorized || resp["status"] != "error" {
		t.Fatalf("expected 401 envelope, got %d %v", code, resp)
	}
	if code, _ := do(t, h, http.MethodGet, "/api/users", "expired", ""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", code)
	}
	if code, _ := do(t, h, http.MethodGet, "/api/users", "alice", ""); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", code)
	}
	if code, _ := do(t, h, http.MethodGet, "/api/users", "root", ""); code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", code)
	}
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(&fakeCarts{})
	if code, resp := do(t, h, http.MethodGet, "/health", "", ""); code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("unexpected liveness %d %v", code, resp)
	}
}
