package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
)

// Rotation namespaces. Stable strings: changing one reshuffles every
// storefront section for every user mid-window.
const (
	nsBestDeals     = "best-deals"
	nsMostSelling   = "most-selling"
	nsTopCategories = "top-categories"
)

// Storefront sizing.
const (
	defaultDealsLimit      = 24
	defaultTrendingLimit   = 12
	trendingPoolSize       = 200
	defaultCategoriesLimit = 6
)

// StorefrontService renders the rotating home-page sections. Every
// selection is a pure function of (snapshot, clock window), so all
// users see the same storefront within a window and the sections roll
// over on their own at the day or ISO-week boundary.
type StorefrontService struct {
	snapshot *catalog.Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(snapshot *catalog.Cache, logger *slog.Logger) *StorefrontService {
	return &StorefrontService{
		snapshot: snapshot,
		logger:   logger,
		now:      time.Now,
	}
}

// BestDeals returns today's deals: the published products shuffled on
// the day seed, grouped by category, and interleaved round-robin so no
// category dominates the front of the rail.
func (s *StorefrontService) BestDeals(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultDealsLimit
	}

	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	seed := catalog.Seed(nsBestDeals, catalog.WindowKey(catalog.GranularityDay, s.now()))
	shuffled := catalog.Shuffle(snap.Products, seed)

	// Group in first-seen order so the grouping itself is a function
	// of the shuffle, not of map iteration.
	var order []string
	groups := map[string][]domain.Product{}
	for _, p := range shuffled {
		key := p.CategorySlug
		if key == "" {
			key = "misc"
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	grouped := make([][]domain.Product, len(order))
	for i, key := range order {
		grouped[i] = groups[key]
	}

	return catalog.SelectRoundRobin(grouped, limit), nil
}

// Trending returns this week's "most selling" products: the top of the
// popularity ordering (reviews × rating, ties by reviews then rating),
// pooled and shuffled on the week seed.
func (s *StorefrontService) Trending(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ranked := make([]domain.Product, len(snap.Products))
	copy(ranked, snap.Products)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].PopularityScore(), ranked[j].PopularityScore()
		if si != sj {
			return si > sj
		}
		if ranked[i].ReviewsCount != ranked[j].ReviewsCount {
			return ranked[i].ReviewsCount > ranked[j].ReviewsCount
		}
		return ranked[i].Rating > ranked[j].Rating
	})

	pool := ranked
	if len(pool) > trendingPoolSize {
		pool = pool[:trendingPoolSize]
	}

	seed := catalog.Seed(nsMostSelling, catalog.WindowKey(catalog.GranularityWeek, s.now()))
	shuffled := catalog.Shuffle(pool, seed)
	if len(shuffled) > limit {
		shuffled = shuffled[:limit]
	}
	return shuffled, nil
}

// TopCategories returns this week's featured categories: the largest
// categories by listing count, rotated on the week seed.
func (s *StorefrontService) TopCategories(ctx context.Context, limit int) ([]domain.Category, error) {
	if limit <= 0 {
		limit = defaultCategoriesLimit
	}

	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ranked := make([]domain.Category, len(snap.Categories))
	copy(ranked, snap.Categories)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	seed := catalog.Seed(nsTopCategories, catalog.WindowKey(catalog.GranularityWeek, s.now()))
	shuffled := catalog.Shuffle(ranked, seed)
	if len(shuffled) > limit {
		shuffled = shuffled[:limit]
	}
	return shuffled, nil
}
