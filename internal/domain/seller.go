package domain

// Seller is the marketplace profile attached to a user with the seller
// role. Listings reference the seller, not the user, so a seller can be
// suspended without touching the account.
type Seller struct {
	Record
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	RegionID    string `json:"region_id,omitempty"`
}

// Region is a marketplace region used to scope listings.
type Region struct {
	Record
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}
