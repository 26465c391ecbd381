package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

type stubCartService struct {
	ports.CartService
	createFn   func(ctx context.Context, userID string) (*domain.Cart, bool, error)
	addFn      func(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error)
	checkoutFn func(ctx context.Context, cartID string) (*domain.Order, error)
}

func (s *stubCartService) Create(ctx context.Context, userID string) (*domain.Cart, bool, error) {
	return s.createFn(ctx, userID)
}

func (s *stubCartService) AddProduct(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error) {
	return s.addFn(ctx, cartID, productID, qty)
}

func (s *stubCartService) Checkout(ctx context.Context, cartID string) (*domain.Order, error) {
	return s.checkoutFn(ctx, cartID)
}

func TestCartHandler_Create_StatusReflectsCreation(t *testing.T) {
	for _, created := range []bool{true, false} {
		e := newEcho()
		stub := &stubCartService{
			createFn: func(ctx context.Context, userID string) (*domain.Cart, bool, error) {
				return &domain.Cart{ID: "c1", UserID: userID}, created, nil
			},
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/carts", nil), rec)
		c.Set("principal", &domain.Principal{ID: "u1", Role: domain.RoleUser})

		if err := NewCartHandler(stub).Create(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		want := http.StatusOK
		if created {
			want = http.StatusCreated
		}
		if rec.Code != want {
			t.Fatalf("created=%v: expected %d, got %d", created, want, rec.Code)
		}
	}
}

func TestCartHandler_AddProduct_DefaultsQuantity(t *testing.T) {
	e := newEcho()
	var gotQty = -1
	stub := &stubCartService{
		addFn: func(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error) {
			if cartID != "c1" || productID != "p1" {
				t.Fatalf("unexpected ids %s %s", cartID, productID)
			}
			gotQty = qty
			return &domain.Cart{ID: cartID}, nil
		},
	}
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id", "pid")
	c.SetParamValues("c1", "p1")

	if err := NewCartHandler(stub).AddProduct(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotQty != 0 {
		t.Fatalf("expected zero quantity to reach the service default, got %d", gotQty)
	}
}

func TestCartHandler_Purchase(t *testing.T) {
	e := newEcho()
	stub := &stubCartService{
		checkoutFn: func(ctx context.Context, cartID string) (*domain.Order, error) {
			return &domain.Order{ID: "o1", Code: "ORD-1A2B3C4D", Status: domain.OrderPending}, nil
		},
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := NewCartHandler(stub).Purchase(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	order := decode(t, rec)["order"].(map[string]any)
	if order["code"] != "ORD-1A2B3C4D" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestCheckoutFailureReason(t *testing.T) {
	cases := map[string]error{
		"stock":      &domain.StockError{},
		"empty_cart": domain.ErrEmptyCart,
		"not_found":  domain.ErrCartNotFound,
		"error":      errors.New("boom"),
	}
	for want, err := range cases {
		if got := checkoutFailureReason(err); got != want {
			t.Errorf("checkoutFailureReason(%v) = %q, want %q", err, got, want)
		}
	}
}
