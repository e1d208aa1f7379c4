package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSuggestRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "suggest",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggest",
		Summary:     "Search suggestions",
		Description: "Returns typo-tolerant product and category suggestions for a partial query.",
		Tags:        []string{"Search"},
	}, s.handleSuggest)
}

// === DTOs ===

// SuggestInput carries the search query.
type SuggestInput struct {
	Query string `query:"q" maxLength:"200" doc:"Partial search query"`
	Limit int    `query:"limit" minimum:"0" maximum:"20" doc:"Cap on each suggestion list (0 uses the defaults)"`
}

// ProductSuggestionResponse is one ranked product hit.
type ProductSuggestionResponse struct {
	Product ProductResponse `json:"product" doc:"Matched product"`
	Score   int             `json:"score" doc:"Relevance score"`
}

// CategorySuggestionResponse is one ranked category hit.
type CategorySuggestionResponse struct {
	Category CategoryResponse `json:"category" doc:"Matched category"`
	Score    int              `json:"score" doc:"Relevance score"`
}

// SuggestResponse bundles both suggestion lists.
type SuggestResponse struct {
	Products   []ProductSuggestionResponse  `json:"products" doc:"Ranked product suggestions"`
	Categories []CategorySuggestionResponse `json:"categories" doc:"Ranked category suggestions"`
}

// SuggestOutput wraps the suggestions for Huma.
type SuggestOutput struct {
	Body SuggestResponse
}

// === Handler ===

func (s *Server) handleSuggest(ctx context.Context, input *SuggestInput) (*SuggestOutput, error) {
	result, err := s.services.Suggest.Suggest(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	resp := SuggestResponse{
		Products:   make([]ProductSuggestionResponse, 0, len(result.Products)),
		Categories: make([]CategorySuggestionResponse, 0, len(result.Categories)),
	}
	for i := range result.Products {
		resp.Products = append(resp.Products, ProductSuggestionResponse{
			Product: mapProduct(&result.Products[i].Product),
			Score:   result.Products[i].Score,
		})
	}
	for i := range result.Categories {
		resp.Categories = append(resp.Categories, CategorySuggestionResponse{
			Category: mapCategory(&result.Categories[i].Category),
			Score:    result.Categories[i].Score,
		})
	}
	return &SuggestOutput{Body: resp}, nil
}
