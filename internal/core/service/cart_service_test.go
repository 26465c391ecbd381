package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

type cartFixture struct {
	svc      *cartService
	users    *stubUserRepo
	carts    *stubCartRepo
	products *stubProductRepo
	orders   *stubOrderRepo
	notes    *recordingNotifier
	owner    *domain.User
	cartID   string
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	users := newStubUserRepo()
	carts := newStubCartRepo()
	products := newStubProductRepo(
		&domain.Product{ID: "p1", Title: "Panel 450W", Price: domain.Price{Price: 100}, Stock: 10, Active: true},
		&domain.Product{ID: "p2", Title: "Inverter", Price: domain.Price{Price: 250.5}, Stock: 1, Active: true},
	)
	orders := newStubOrderRepo()
	notes := &recordingNotifier{}

	owner := users.put(completeProfile(domain.RoleUser))
	cart, err := carts.Create(context.Background(), &domain.Cart{UserID: owner.ID})
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	_ = users.SetCart(context.Background(), owner.ID, cart.ID)

	svc := NewCartService(CartDeps{
		Carts:    carts,
		Products: products,
		Orders:   orders,
		Users:    users,
		Mail:     NewMailbox(notes, zerolog.Nop()),
	}, zerolog.Nop()).(*cartService)

	return &cartFixture{
		svc: svc, users: users, carts: carts, products: products,
		orders: orders, notes: notes, owner: owner, cartID: cart.ID,
	}
}

func TestCartService_AddProduct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	if _, err := f.svc.AddProduct(ctx, f.cartID, "p1", 0); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	cart, err := f.svc.AddProduct(ctx, f.cartID, "p1", 2)
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if len(cart.Products) != 1 || cart.Products[0].Quantity != 3 {
		t.Fatalf("expected single line with qty 3, got %+v", cart.Products)
	}

	if _, err := f.svc.AddProduct(ctx, f.cartID, "nope", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := f.svc.AddProduct(ctx, f.cartID, "p1", -1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := f.svc.AddProduct(ctx, "cart-x", "p1", 1); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestCartService_SetQuantityRemoveEmpty(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, _ = f.svc.AddProduct(ctx, f.cartID, "p1", 1)
	_, _ = f.svc.AddProduct(ctx, f.cartID, "p2", 1)

	cart, err := f.svc.SetQuantity(ctx, f.cartID, "p1", 4)
	if err != nil || cart.Products[0].Quantity != 4 {
		t.Fatalf("SetQuantity: %+v, %v", cart, err)
	}
	if _, err := f.svc.SetQuantity(ctx, f.cartID, "p9", 1); !errors.Is(err, domain.ErrProductNotInCart) {
		t.Fatalf("expected ErrProductNotInCart, got %v", err)
	}

	cart, err = f.svc.RemoveProduct(ctx, f.cartID, "p2")
	if err != nil || len(cart.Products) != 1 {
		t.Fatalf("RemoveProduct: %+v, %v", cart, err)
	}

	cart, err = f.svc.Empty(ctx, f.cartID)
	if err != nil || len(cart.Products) != 0 {
		t.Fatalf("Empty: %+v, %v", cart, err)
	}
}

func TestCartService_Create_ReusesExistingCart(t *testing.T) {
	f := newCartFixture(t)

	cart, created, err := f.svc.Create(context.Background(), f.owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created || cart.ID != f.cartID {
		t.Fatalf("expected existing cart %s, got %s (created=%v)", f.cartID, cart.ID, created)
	}
}

func TestCartService_Create_Lazily(t *testing.T) {
	f := newCartFixture(t)
	u := f.users.put(&domain.User{Email: "new@example.com", Role: domain.RoleGuest})

	cart, created, err := f.svc.Create(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created || cart.UserID != u.ID {
		t.Fatalf("expected new cart for user, got %+v", cart)
	}
	stored, _ := f.users.FindByID(context.Background(), u.ID)
	if stored.CartID != cart.ID {
		t.Fatalf("cart not assigned to user")
	}
}

func TestCartService_Checkout_Success(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, _ = f.svc.AddProduct(ctx, f.cartID, "p1", 2)
	_, _ = f.svc.AddProduct(ctx, f.cartID, "p2", 1)

	order, err := f.svc.Checkout(ctx, f.cartID)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.TotalAmount != 450.5 {
		t.Fatalf("expected total 450.5, got %v", order.TotalAmount)
	}
	if order.Status != domain.OrderPending || order.UserID != f.owner.ID {
		t.Fatalf("unexpected order %+v", order)
	}
	if !strings.HasPrefix(order.Code, "ORD-") || len(order.Code) != 12 {
		t.Fatalf("unexpected order code %q", order.Code)
	}
	if order.ShippingAddress == nil || order.ShippingAddress.City != "Madrid" {
		t.Fatalf("shipping address not copied from profile")
	}

	cart, _ := f.carts.FindByID(ctx, f.cartID)
	if len(cart.Products) != 0 {
		t.Fatalf("cart must be emptied after checkout")
	}
	if f.products.products["p1"].Stock != 8 || f.products.products["p2"].Stock != 0 {
		t.Fatalf("stock not decremented")
	}
	if kinds := f.notes.kinds(); len(kinds) != 1 || kinds[0] != KindOrderPlaced {
		t.Fatalf("expected order email, got %v", kinds)
	}
}

func TestCartService_Checkout_InsufficientStock(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, _ = f.svc.AddProduct(ctx, f.cartID, "p1", 1)
	_, _ = f.svc.AddProduct(ctx, f.cartID, "p2", 3)

	_, err := f.svc.Checkout(ctx, f.cartID)

	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockError, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("stock error must be a validation error")
	}
	if len(stockErr.Products) != 1 || stockErr.Products[0].ProductID != "p2" || stockErr.Products[0].AvailableQuantity != 1 {
		t.Fatalf("unexpected unavailable list %+v", stockErr.Products)
	}
	if f.products.products["p1"].Stock != 10 {
		t.Fatalf("stock must be untouched on rejection")
	}
	if len(f.orders.orders) != 0 {
		t.Fatalf("no order must be created")
	}
}

// A store failure on a later line leaves earlier lines decremented; the
// partial decrement is logged with the affected products.
func TestCartService_Checkout_PartialDecrementIsLogged(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	var buf bytes.Buffer
	f.svc.log = zerolog.New(&buf)

	_, _ = f.svc.AddProduct(ctx, f.cartID, "p1", 2)
	_, _ = f.svc.AddProduct(ctx, f.cartID, "p2", 1)
	f.products.decrementErr = map[string]error{"p2": errors.New("write conflict")}

	if _, err := f.svc.Checkout(ctx, f.cartID); err == nil {
		t.Fatalf("expected checkout to fail")
	}
	if len(f.orders.orders) != 0 {
		t.Fatalf("no order must be created")
	}
	if f.products.products["p1"].Stock != 8 {
		t.Fatalf("expected p1 stock 8, got %d", f.products.products["p1"].Stock)
	}

	out := buf.String()
	if !strings.Contains(out, "stock decremented before checkout failed") ||
		!strings.Contains(out, `"decremented":["p1"]`) ||
		!strings.Contains(out, `"failed_product":"p2"`) {
		t.Fatalf("expected partial decrement log, got %s", out)
	}
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	f := newCartFixture(t)

	if _, err := f.svc.Checkout(context.Background(), f.cartID); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}
