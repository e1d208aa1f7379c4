package domain

import "time"

// Category is a canonical catalog category. The slug is the source of
// truth for identity; display names are editorial and may drift.
type Category struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
