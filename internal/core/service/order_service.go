package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

type orderService struct {
	orders ports.OrderRepository
	users  ports.UserRepository
	mail   *Mailbox
	log    zerolog.Logger
}

// NewOrderService returns an OrderService implementation.
func NewOrderService(orders ports.OrderRepository, users ports.UserRepository, mail *Mailbox, log zerolog.Logger) ports.OrderService {
	return &orderService{orders: orders, users: users, mail: mail, log: log}
}

func (s *orderService) ListMine(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}
	orders, err := s.orders.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to status, records the previous one and
// emails the owner.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("from", string(order.PreviousStatus)).
		Str("to", string(order.Status)).
		Msg("order status updated")

	owner, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", order.ID).Msg("order owner not found, skipping email")
		return order, nil
	}
	s.mail.OrderStatusChanged(owner, order)
	return order, nil
}
