package catalog

import (
	"strings"

	"github.com/davedeals/davedeals-server/internal/domain"
)

// Ref is a loosely-specified category reference, typically from an
// editorial link table: either field may be empty.
type Ref struct {
	Slug string
	Name string
}

// categoryIndex holds lookup structures over one catalog snapshot.
type categoryIndex struct {
	bySlug map[string]*domain.Category
	byName map[string]*domain.Category
	list   []domain.Category
}

func buildCategoryIndex(categories []domain.Category) categoryIndex {
	idx := categoryIndex{
		bySlug: make(map[string]*domain.Category, len(categories)),
		byName: make(map[string]*domain.Category, len(categories)),
		list:   categories,
	}
	for i := range categories {
		c := &categories[i]
		if c.Slug != "" {
			idx.bySlug[c.Slug] = c
		}
		if key := NormalizeText(c.Name); key != "" {
			idx.byName[key] = c
		}
	}
	return idx
}

// ResolveSlug maps ref onto the canonical slug of the best-matching
// category in the snapshot. Resolution short-circuits in order:
//
//  1. override table hit (when the override's target exists)
//  2. exact slug match
//  3. exact normalized-name match
//  4. derived-slug match (name slugified)
//  5. token-overlap fuzzy match, first maximum wins
//  6. the original slug, possibly empty
//
// The empty string means "no destination"; callers link to the generic
// catalog listing in that case. ResolveSlug is a pure function of its
// arguments and never fails.
func ResolveSlug(ref Ref, categories []domain.Category, overrides map[string]string) string {
	idx := buildCategoryIndex(categories)

	overrideKey := ref.Slug
	if overrideKey == "" {
		overrideKey = ref.Name
	}
	if target, ok := overrides[NormalizeText(overrideKey)]; ok {
		if _, exists := idx.bySlug[target]; exists {
			return target
		}
	}

	if ref.Slug != "" {
		if _, exists := idx.bySlug[ref.Slug]; exists {
			return ref.Slug
		}
	}

	nameKey := NormalizeText(ref.Name)
	if nameKey != "" {
		if c, exists := idx.byName[nameKey]; exists {
			return c.Slug
		}
	}

	if derived := ToSlug(ref.Name); derived != "" {
		if _, exists := idx.bySlug[derived]; exists {
			return derived
		}
	}

	tokens := Tokenize(nameKey)
	if len(tokens) == 0 {
		return ref.Slug
	}

	best := ""
	bestScore := 0
	for i := range idx.list {
		c := &idx.list[i]
		hay := NormalizeText(c.Name) + " " + NormalizeText(c.Slug)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(hay, tok) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = c.Slug
		}
	}
	if best != "" {
		return best
	}
	return ref.Slug
}
