package domain

import "time"

// CartItem is one product line in a cart.
type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Cart belongs to exactly one user.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	Products  []CartItem `json:"products"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Add puts qty units of productID in the cart, merging with an existing line.
func (c *Cart) Add(productID string, qty int) {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products[i].Quantity += qty
			return
		}
	}
	c.Products = append(c.Products, CartItem{ProductID: productID, Quantity: qty})
}

// SetQuantity overwrites the quantity of an existing line.
func (c *Cart) SetQuantity(productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products[i].Quantity = qty
			return nil
		}
	}
	return ErrProductNotInCart
}

// Remove drops the line for productID.
func (c *Cart) Remove(productID string) error {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products = append(c.Products[:i], c.Products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotInCart
}

// Clear empties the cart and returns how many lines were removed.
func (c *Cart) Clear() int {
	n := len(c.Products)
	c.Products = []CartItem{}
	return n
}
