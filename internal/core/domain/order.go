package domain

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCanceled   OrderStatus = "canceled"
	OrderDelivered  OrderStatus = "delivered"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCanceled, OrderDelivered:
		return true
	}
	return false
}

// OrderLine is a snapshot of a product at purchase time.
type OrderLine struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price times quantity.
func (l OrderLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Order is created by cart checkout and owned by the purchasing user.
type Order struct {
	ID              string      `json:"id"`
	Code            string      `json:"code"`
	UserID          string      `json:"user"`
	Products        []OrderLine `json:"products"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	PreviousStatus  OrderStatus `json:"previousStatus,omitempty"`
	ShippingAddress *Address    `json:"shippingAddress,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	OrderDate       time.Time   `json:"orderDate"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
