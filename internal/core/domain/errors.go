package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced to a client unwraps to exactly one of
// these, and the HTTP layer maps kinds to status codes.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrIncompleteProfile = errors.New("incomplete profile")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrUpdateFailed      = errors.New("update failed")
)

// CodeIncompleteProfile is the machine-readable code sent with
// ErrIncompleteProfile so clients can prompt for the missing data.
const CodeIncompleteProfile = "INCOMPLETE_PROFILE"

// Error is a client-facing failure: a kind plus the message to show.
type Error struct {
	Kind error
	Msg  string
	Code string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Invalid builds a validation error.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrMissingCredential  = NewError(ErrUnauthorized, "authentication required")
	ErrInvalidToken       = NewError(ErrUnauthorized, "invalid or expired token")
	ErrInvalidCredentials = NewError(ErrUnauthorized, "invalid credentials")

	ErrRoleNotAllowed = NewError(ErrForbidden, "you do not have permission to perform this action")
	ErrNotSelf        = NewError(ErrForbidden, "you can only access your own account")
	ErrNoCartAssigned = NewError(ErrForbidden, "you do not have a cart assigned")
	ErrNotCartOwner   = NewError(ErrForbidden, "you can only access your own cart")

	ErrProfileIncomplete = &Error{
		Kind: ErrIncompleteProfile,
		Msg:  "please complete your profile before using the cart",
		Code: CodeIncompleteProfile,
	}

	ErrUserNotFound       = NewError(ErrNotFound, "user not found")
	ErrCartNotFound       = NewError(ErrNotFound, "cart not found")
	ErrOrderNotFound      = NewError(ErrNotFound, "order not found")
	ErrProductNotFound    = NewError(ErrNotFound, "product not found")
	ErrProductNotInCart   = NewError(ErrNotFound, "product not found in cart")
	ErrQuestionNotFound   = NewError(ErrNotFound, "question not found")
	ErrInvalidEmail       = NewError(ErrValidation, "invalid email format")
	ErrEmailInUse         = NewError(ErrValidation, "email already in use")
	ErrSlugInUse          = NewError(ErrValidation, "slug already in use")
	ErrInvalidID          = NewError(ErrValidation, "invalid id format")
	ErrNoFieldsToUpdate   = NewError(ErrValidation, "no fields provided for update")
	ErrInvalidQuantity    = NewError(ErrValidation, "invalid quantity value")
	ErrEmptyCart          = NewError(ErrValidation, "cart is empty")
	ErrInvalidOrderStatus = NewError(ErrValidation, "invalid order status")
	ErrEmptyQuestion      = NewError(ErrValidation, "question cannot be empty")
	ErrEmptyAnswer        = NewError(ErrValidation, "answer cannot be empty")
	ErrInvalidResetToken  = NewError(ErrValidation, "invalid or expired reset token")
)

// UnavailableProduct describes one cart line that cannot be fulfilled.
type UnavailableProduct struct {
	ProductID         string `json:"productId"`
	Name              string `json:"name"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AvailableQuantity int    `json:"availableQuantity"`
}

// StockError is returned by checkout when one or more lines exceed stock.
type StockError struct {
	Products []UnavailableProduct
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%d products are not available", len(e.Products))
}

func (e *StockError) Unwrap() error { return ErrValidation }
