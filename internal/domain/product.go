package domain

import "math"

// ProductStatus is the publication state of a product listing.
type ProductStatus string

const (
	// ProductStatusDraft is the initial state of a seller-created listing.
	ProductStatusDraft ProductStatus = "draft"
	// ProductStatusPublished makes a listing visible on the storefront.
	ProductStatusPublished ProductStatus = "published"
	// ProductStatusArchived hides a listing without deleting it.
	ProductStatusArchived ProductStatus = "archived"
)

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPublished, ProductStatusArchived:
		return true
	}
	return false
}

// Product is a marketplace listing.
type Product struct {
	Record
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Price        float64       `json:"price"`
	Currency     string        `json:"currency"`
	CategorySlug string        `json:"category_slug,omitempty"`
	CategoryName string        `json:"category_name,omitempty"`
	Rating       float64       `json:"rating"`
	ReviewsCount int           `json:"reviews_count"`
	Thumbnail    string        `json:"thumbnail,omitempty"`
	Images       []string      `json:"images,omitempty"`
	SellerID     string        `json:"seller_id,omitempty"`
	RegionID     string        `json:"region_id,omitempty"`
	Status       ProductStatus `json:"status"`
}

// IsPublished reports whether the product is visible on the storefront.
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// Normalize clamps numeric fields into their documented domains:
// rating to [0,5] with non-finite values treated as zero, and negative
// review counts to zero. Call before persisting external data.
func (p *Product) Normalize() {
	if math.IsNaN(p.Rating) || math.IsInf(p.Rating, 0) {
		p.Rating = 0
	}
	p.Rating = math.Max(0, math.Min(5, p.Rating))
	if p.ReviewsCount < 0 {
		p.ReviewsCount = 0
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
		p.Price = 0
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
}

// PopularityScore orders products for the trending rotation pool:
// review volume weighted by rating.
func (p *Product) PopularityScore() float64 {
	return float64(p.ReviewsCount) * p.Rating
}
