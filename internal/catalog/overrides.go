package catalog

// CategoryOverrides maps normalized editorial labels to canonical
// catalog slugs. Marketing copy names categories loosely ("Fashion",
// "Electronics Gadget"); these pins keep those links landing on real
// catalog pages. Keys must already be in NormalizeText form.
var CategoryOverrides = map[string]string{
	"fashion":             "women-s-clothing",
	"education product":   "science-education-supplies",
	"frozen food":         "kitchen-and-dining",
	"beverages":           "kitchen-and-dining",
	"organic grocery":     "health-and-household",
	"office supplies":     "stationery-and-gift-wrapping-supplies",
	"beauty products":     "beauty-and-personal-care",
	"books":               "books",
	"electronics gadget":  "computers-and-tablets",
	"electronics":         "computers-and-tablets",
	"travel accessories":  "travel-duffel-bags",
	"travel":              "travel-duffel-bags",
	"fitness":             "sports-and-fitness",
	"sneakers":            "men-s-shoes",
	"toys":                "toys-and-games",
	"furniture":           "furniture",
}
