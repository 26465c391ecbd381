package ports

import (
	"context"
	"time"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateFields applies a partial profile update and returns the stored result.
	UpdateFields(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error)
	// PromoteRole sets role to `to` only while it is still `from`. It reports
	// whether a document was changed.
	PromoteRole(ctx context.Context, id string, from, to domain.Role) (bool, error)
	SetCart(ctx context.Context, id, cartID string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// CartOwnerResolver maps a cart id to its owning user id.
type CartOwnerResolver interface {
	CartOwner(ctx context.Context, cartID string) (string, error)
}

// OrderOwnerResolver maps an order id to its owning user id.
type OrderOwnerResolver interface {
	OrderOwner(ctx context.Context, orderID string) (string, error)
}

// CartRepository defines persistence for carts.
type CartRepository interface {
	CartOwnerResolver
	Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	FindByID(ctx context.Context, id string) (*domain.Cart, error)
	FindByUser(ctx context.Context, userID string) (*domain.Cart, error)
	SaveItems(ctx context.Context, id string, items []domain.CartItem) (*domain.Cart, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// OrderRepository defines persistence for orders.
type OrderRepository interface {
	OrderOwnerResolver
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// List returns all orders, newest first. An empty status means any.
	List(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// ProductRepository defines persistence for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock subtracts qty only if at least qty units remain. It
	// reports whether the decrement happened.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
}

// QuestionRepository defines persistence for product questions.
type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) (*domain.Question, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Question, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Question, error)
	ListUnanswered(ctx context.Context) ([]*domain.Question, error)
	Answer(ctx context.Context, id, answer, answeredBy string, at time.Time) (*domain.Question, error)
}

// PasswordResetRepository stores single-use reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, r *domain.PasswordReset) error
	FindByToken(ctx context.Context, token string) (*domain.PasswordReset, error)
	// MarkUsed consumes token if it is still unused and reports whether
	// this call was the one that consumed it.
	MarkUsed(ctx context.Context, token string) (bool, error)
	InvalidateForUser(ctx context.Context, userID string) error
}
