package handler

import "github.com/madezdev/ecommerce-api/internal/core/domain"

// errorResponse documents the error envelope rendered by the central error handler.
type errorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty" example:"INCOMPLETE_PROFILE"`
}

// messageResponse is a success without payload.
type messageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}

// --- Sessions ---

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type loginResponse struct {
	Status             string       `json:"status" example:"success"`
	Message            string       `json:"message"`
	Token              string       `json:"token"`
	User               *domain.User `json:"user"`
	UserIsCompleted    bool         `json:"userIsCompleted"`
	AddressIsCompleted bool         `json:"addressIsCompleted"`
}

type profileResponse struct {
	Status             string       `json:"status" example:"success"`
	User               *domain.User `json:"user"`
	UserIsCompleted    bool         `json:"userIsCompleted"`
	AddressIsCompleted bool         `json:"addressIsCompleted"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// --- Users ---

type addressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// updateUserRequest lists the only fields a profile update may touch.
// Empty strings are treated as absent.
type updateUserRequest struct {
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	IDNumber       string          `json:"idNumber"`
	BirthDate      string          `json:"birthDate"`
	ActivityType   string          `json:"activityType"`
	ActivityNumber string          `json:"activityNumber"`
	Phone          string          `json:"phone"`
	Address        *addressRequest `json:"address"`
}

type userListResponse struct {
	Status string         `json:"status" example:"success"`
	Users  []*domain.User `json:"users"`
}

// --- Carts ---

type cartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type cartResponse struct {
	Status string       `json:"status" example:"success"`
	Cart   *domain.Cart `json:"cart"`
}

type purchaseResponse struct {
	Status  string        `json:"status" example:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// --- Orders ---

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing canceled delivered"`
}

type orderResponse struct {
	Status string        `json:"status" example:"success"`
	Order  *domain.Order `json:"order"`
}

type orderListResponse struct {
	Status string          `json:"status" example:"success"`
	Orders []*domain.Order `json:"orders"`
}

// --- Products ---

type priceRequest struct {
	Price   float64  `json:"price"   validate:"gte=0"`
	IVA     *float64 `json:"iva"     validate:"omitempty,gte=0"`
	IsOffer bool     `json:"isOffer"`
}

type productRequest struct {
	Title       string       `json:"title"       validate:"required"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Brand       string       `json:"brand"`
	Price       priceRequest `json:"price"`
	Category    string       `json:"category"    validate:"omitempty,oneof=fotovoltaico bombas climatizacion termica other"`
	SubCategory string       `json:"subCategory"`
	Images      []string     `json:"imagePath"`
	Model       string       `json:"model"`
	Origin      string       `json:"origin"`
	Stock       int          `json:"stock"       validate:"gte=0"`
	Tags        []string     `json:"tags"`
	Warranty    string       `json:"warranty"`
	Active      *bool        `json:"active"`
	Outstanding bool         `json:"outstanding"`
}

type productResponse struct {
	Status  string          `json:"status" example:"success"`
	Product *domain.Product `json:"product"`
}

type productListResponse struct {
	Status     string            `json:"status" example:"success"`
	Products   []*domain.Product `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int64             `json:"totalPages"`
}

// --- Questions ---

type askQuestionRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Question  string `json:"question"  validate:"required"`
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type questionResponse struct {
	Status   string           `json:"status" example:"success"`
	Question *domain.Question `json:"question"`
}

type questionListResponse struct {
	Status    string             `json:"status" example:"success"`
	Questions []*domain.Question `json:"questions"`
}
