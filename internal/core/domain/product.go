package domain

import "time"

// Category is the top-level product family.
type Category string

const (
	CategoryPhotovoltaic Category = "fotovoltaico"
	CategoryPumps        Category = "bombas"
	CategoryClimate      Category = "climatizacion"
	CategoryThermal      Category = "termica"
	CategoryOther        Category = "other"
)

// DefaultIVA is the VAT percentage applied when none is given.
const DefaultIVA = 21

// Price groups a product's net price, VAT rate and offer flag.
type Price struct {
	Price   float64 `json:"price"`
	IVA     float64 `json:"iva"`
	IsOffer bool    `json:"isOffer"`
}

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Brand       string    `json:"brand"`
	Price       Price     `json:"price"`
	Category    Category  `json:"category"`
	SubCategory string    `json:"subCategory"`
	Images      []string  `json:"imagePath,omitempty"`
	Model       string    `json:"model"`
	Origin      string    `json:"origin"`
	Stock       int       `json:"stock"`
	Tags        []string  `json:"tags,omitempty"`
	Warranty    string    `json:"warranty,omitempty"`
	Active      bool      `json:"active"`
	Outstanding bool      `json:"outstanding"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Category        Category
	SubCategory     string
	OnlyOffers      bool
	IncludeInactive bool
	Page            int
	Limit           int
}
