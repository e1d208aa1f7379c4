package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
)

// Suggestion result sizes, matching the storefront navbar.
const (
	maxProductSuggestions  = 6
	maxCategorySuggestions = 8
)

// SuggestService ranks typo-tolerant search suggestions over product
// titles and category names.
type SuggestService struct {
	snapshot *catalog.Cache
	logger   *slog.Logger
}

// NewSuggestService creates a new suggestion service.
func NewSuggestService(snapshot *catalog.Cache, logger *slog.Logger) *SuggestService {
	return &SuggestService{snapshot: snapshot, logger: logger}
}

// ProductSuggestion is a ranked product hit.
type ProductSuggestion struct {
	Product domain.Product `json:"product"`
	Score   int            `json:"score"`
}

// CategorySuggestion is a ranked category hit.
type CategorySuggestion struct {
	Category domain.Category `json:"category"`
	Score    int             `json:"score"`
}

// Suggestions bundles both result lists for one query.
type Suggestions struct {
	Products   []ProductSuggestion  `json:"products"`
	Categories []CategorySuggestion `json:"categories"`
}

// Suggest returns the top product and category matches for a raw
// query. An empty or unmatchable query yields empty lists, never an
// error: the navbar renders on every keystroke.
func (s *SuggestService) Suggest(ctx context.Context, rawQuery string, limit int) (*Suggestions, error) {
	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	productLimit := maxProductSuggestions
	categoryLimit := maxCategorySuggestions
	if limit > 0 {
		if limit < productLimit {
			productLimit = limit
		}
		if limit < categoryLimit {
			categoryLimit = limit
		}
	}

	q := catalog.ParseQuery(rawQuery)

	productMatches := catalog.Rank(snap.Products,
		func(p domain.Product) string { return p.Title },
		q, productLimit, nil)

	categoryMatches := catalog.Rank(snap.Categories,
		func(c domain.Category) string { return c.Name },
		q, categoryLimit, nil)

	out := &Suggestions{
		Products:   make([]ProductSuggestion, 0, len(productMatches)),
		Categories: make([]CategorySuggestion, 0, len(categoryMatches)),
	}
	for _, m := range productMatches {
		out.Products = append(out.Products, ProductSuggestion{Product: m.Item, Score: m.Score})
	}
	for _, m := range categoryMatches {
		out.Categories = append(out.Categories, CategorySuggestion{Category: m.Item, Score: m.Score})
	}
	return out, nil
}
