// Package authz holds the role and ownership checks that run before a
// handler touches a resource. Every check returns nil to allow, or a
// *domain.Error whose kind is Unauthorized, Forbidden, IncompleteProfile or
// NotFound.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// RequireAuthenticated denies a missing principal.
func RequireAuthenticated(p *domain.Principal) error {
	if p == nil || p.ID == "" {
		return domain.ErrMissingCredential
	}
	return nil
}

// RequireRole allows principals whose role is in allowed.
func RequireRole(p *domain.Principal, allowed ...domain.Role) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return domain.ErrRoleNotAllowed
}

// RequireSelfOrAdmin allows admins and the user identified by targetUserID.
func RequireSelfOrAdmin(p *domain.Principal, targetUserID string) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() || p.ID == targetUserID {
		return nil
	}
	return domain.ErrNotSelf
}

// RequireCompleteProfile rejects guests. It gates cart mutations
// independently of when the promotion check last ran.
func RequireCompleteProfile(p *domain.Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.Role == domain.RoleGuest {
		return domain.ErrProfileIncomplete
	}
	return nil
}

// Guard performs the ownership checks that need a store lookup.
type Guard struct {
	carts  ports.CartOwnerResolver
	orders ports.OrderOwnerResolver
	log    zerolog.Logger
}

// NewGuard creates a Guard backed by the given owner resolvers.
func NewGuard(carts ports.CartOwnerResolver, orders ports.OrderOwnerResolver, log zerolog.Logger) *Guard {
	return &Guard{carts: carts, orders: orders, log: log}
}

// RequireCartOwnerOrAdmin allows admins outright. Other callers must hold a
// cart and must own cartID. An unknown cart id is reported as a wrong cart,
// not as missing.
func (g *Guard) RequireCartOwnerOrAdmin(ctx context.Context, p *domain.Principal, cartID string) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}
	if p.CartID == "" {
		return domain.ErrNoCartAssigned
	}

	owner, err := g.carts.CartOwner(ctx, cartID)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidID):
		return domain.ErrNotCartOwner
	case err != nil:
		return fmt.Errorf("resolve cart owner: %w", err)
	}

	if owner != p.ID {
		g.log.Warn().
			Str("user_id", p.ID).
			Str("cart_id", cartID).
			Msg("cart access denied")
		return domain.ErrNotCartOwner
	}
	return nil
}

// RequireOrderOwnerOrAdmin checks existence before ownership, and reports a
// foreign order exactly like a missing one.
func (g *Guard) RequireOrderOwnerOrAdmin(ctx context.Context, p *domain.Principal, orderID string) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}

	owner, err := g.orders.OrderOwner(ctx, orderID)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidID):
		return domain.ErrOrderNotFound
	case err != nil:
		return fmt.Errorf("resolve order owner: %w", err)
	}

	if p.IsAdmin() || owner == p.ID {
		return nil
	}
	g.log.Warn().
		Str("user_id", p.ID).
		Str("order_id", orderID).
		Msg("order access denied")
	return domain.ErrOrderNotFound
}
