package ports

import (
	"context"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is returned by flows that issue a token.
type AuthResult struct {
	Token        string
	User         *domain.User
	Completeness domain.Completeness
	Promoted     bool
}

// ProfileResult is a user together with freshly computed completeness flags.
type ProfileResult struct {
	User         *domain.User
	Completeness domain.Completeness
	Promoted     bool
}

// PromotionResult is the outcome of one promotion check.
type PromotionResult struct {
	Promoted     bool
	Completeness domain.Completeness
	User         *domain.User
}

// Promoter re-evaluates a user's profile and applies guest to user promotion.
type Promoter interface {
	MaybePromote(ctx context.Context, userID string) (*PromotionResult, error)
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CreateAdmin(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Current(ctx context.Context, userID string) (*ProfileResult, error)
	Logout(ctx context.Context, token string) error
	SeedAdmin(ctx context.Context, email, password string) error
}

type PasswordResetService interface {
	Request(ctx context.Context, email string) error
	Validate(ctx context.Context, token string) error
	Reset(ctx context.Context, token, newPassword string) error
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*ProfileResult, error)
	Update(ctx context.Context, id string, upd domain.UserUpdate) (*ProfileResult, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	// Create returns the caller's cart, creating it when absent. The bool
	// reports whether a new cart was made.
	Create(ctx context.Context, userID string) (*domain.Cart, bool, error)
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	AddProduct(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error)
	RemoveProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	Empty(ctx context.Context, cartID string) (*domain.Cart, error)
	Checkout(ctx context.Context, cartID string) (*domain.Order, error)
}

type OrderService interface {
	ListMine(ctx context.Context, userID string) ([]*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type ProductService interface {
	List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type QuestionService interface {
	ListByProduct(ctx context.Context, productID string) ([]*domain.Question, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Question, error)
	Ask(ctx context.Context, userID, productID, text string) (*domain.Question, error)
	ListUnanswered(ctx context.Context) ([]*domain.Question, error)
	Answer(ctx context.Context, questionID, adminID, text string) (*domain.Question, error)
}

// NotificationService delivers queued notifications.
type NotificationService interface {
	Deliver(ctx context.Context, n Notification) error
}
