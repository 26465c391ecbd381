package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

const orderCodePrefix = "ORD-"

type cartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
	users    ports.UserRepository
	mail     *Mailbox
	log      zerolog.Logger
}

// CartDeps groups the collaborators of the cart service.
type CartDeps struct {
	Carts    ports.CartRepository
	Products ports.ProductRepository
	Orders   ports.OrderRepository
	Users    ports.UserRepository
	Mail     *Mailbox
}

// NewCartService returns a CartService implementation. Callers are expected
// to have run the ownership and profile checks already.
func NewCartService(deps CartDeps, log zerolog.Logger) ports.CartService {
	return &cartService{
		carts:    deps.Carts,
		products: deps.Products,
		orders:   deps.Orders,
		users:    deps.Users,
		mail:     deps.Mail,
		log:      log,
	}
}

func (s *cartService) Create(ctx context.Context, userID string) (*domain.Cart, bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if user.CartID != "" {
		cart, err := s.carts.FindByID(ctx, user.CartID)
		if err == nil {
			return cart, false, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, false, fmt.Errorf("load cart: %w", err)
		}
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("find cart: %w", err)
	}
	created := false
	if cart == nil {
		now := time.Now().UTC()
		cart, err = s.carts.Create(ctx, &domain.Cart{UserID: userID, Products: []domain.CartItem{}, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return nil, false, fmt.Errorf("create cart: %w", err)
		}
		created = true
	}

	if err := s.users.SetCart(ctx, userID, cart.ID); err != nil {
		return nil, false, fmt.Errorf("assign cart: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("cart_id", cart.ID).Bool("created", created).Msg("cart assigned")
	return cart, created, nil
}

func (s *cartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.carts.FindByID(ctx, cartID)
}

func (s *cartService) AddProduct(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	cart.Add(productID, qty)
	return s.save(ctx, cart)
}

func (s *cartService) SetQuantity(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, qty); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

func (s *cartService) RemoveProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Remove(productID); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

func (s *cartService) Empty(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	n := cart.Clear()
	s.log.Info().Str("cart_id", cartID).Int("removed", n).Msg("cart emptied")
	return s.save(ctx, cart)
}

// Checkout turns the cart into a pending order. Every line is checked
// against stock first; any shortfall aborts with a StockError listing the
// offending products and leaves the cart untouched.
func (s *cartService) Checkout(ctx context.Context, cartID string) (*domain.Order, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Products) == 0 {
		return nil, domain.ErrEmptyCart
	}

	lines, unavailable, err := s.priceLines(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(unavailable) > 0 {
		s.log.Warn().Str("cart_id", cartID).Int("unavailable", len(unavailable)).Msg("checkout rejected")
		return nil, &domain.StockError{Products: unavailable}
	}

	decremented := make([]string, 0, len(lines))
	for _, l := range lines {
		ok, err := s.products.DecrementStock(ctx, l.ProductID, l.Quantity)
		if err == nil && ok {
			decremented = append(decremented, l.ProductID)
			continue
		}
		if len(decremented) > 0 {
			s.log.Error().Err(err).
				Str("cart_id", cartID).
				Str("failed_product", l.ProductID).
				Strs("decremented", decremented).
				Msg("stock decremented before checkout failed")
		}
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		return nil, &domain.StockError{Products: []domain.UnavailableProduct{{
			ProductID:         l.ProductID,
			Name:              l.Name,
			RequestedQuantity: l.Quantity,
		}}}
	}

	owner, err := s.users.FindByID(ctx, cart.UserID)
	if err != nil {
		return nil, fmt.Errorf("load cart owner: %w", err)
	}

	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}

	now := time.Now().UTC()
	order, err := s.orders.Create(ctx, &domain.Order{
		Code:            newOrderCode(),
		UserID:          cart.UserID,
		Products:        lines,
		TotalAmount:     total,
		Status:          domain.OrderPending,
		ShippingAddress: owner.Address,
		OrderDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("cart_id", cartID).
			Strs("decremented", decremented).
			Msg("stock decremented but order not created")
		return nil, fmt.Errorf("create order: %w", err)
	}

	cart.Clear()
	if _, err := s.save(ctx, cart); err != nil {
		s.log.Error().Err(err).Str("cart_id", cartID).Msg("order created but cart not emptied")
	}

	s.mail.OrderPlaced(owner, order)

	s.log.Info().
		Str("order_id", order.ID).
		Str("code", order.Code).
		Float64("total", total).
		Msg("checkout completed")

	return order, nil
}

func (s *cartService) priceLines(ctx context.Context, cart *domain.Cart) ([]domain.OrderLine, []domain.UnavailableProduct, error) {
	lines := make([]domain.OrderLine, 0, len(cart.Products))
	var unavailable []domain.UnavailableProduct

	for _, item := range cart.Products {
		p, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				unavailable = append(unavailable, domain.UnavailableProduct{
					ProductID:         item.ProductID,
					RequestedQuantity: item.Quantity,
				})
				continue
			}
			return nil, nil, fmt.Errorf("load product: %w", err)
		}
		if !p.Active || p.Stock < item.Quantity {
			unavailable = append(unavailable, domain.UnavailableProduct{
				ProductID:         p.ID,
				Name:              p.Title,
				RequestedQuantity: item.Quantity,
				AvailableQuantity: p.Stock,
			})
			continue
		}
		lines = append(lines, domain.OrderLine{
			ProductID: p.ID,
			Name:      p.Title,
			Price:     p.Price.Price,
			Quantity:  item.Quantity,
		})
	}
	return lines, unavailable, nil
}

func (s *cartService) save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	saved, err := s.carts.SaveItems(ctx, cart.ID, cart.Products)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return saved, nil
}

func newOrderCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return orderCodePrefix + strings.ToUpper(id[:8])
}
