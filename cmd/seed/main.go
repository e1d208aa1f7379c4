// Package main provides a tool to seed the database with demo storefront data.
//
// It creates demo accounts (admin, seller, buyer), a couple of regions,
// and a published sample catalog so the storefront rails have something
// to rotate through.
//
// Usage:
//
//	DATA_PATH=~/DaveDeals/data go run ./cmd/seed
//	DATA_PATH=~/DaveDeals/data go run ./cmd/seed --skip-users
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/davedeals/davedeals-server/internal/auth"
	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
	"github.com/davedeals/davedeals-server/internal/id"
	"github.com/davedeals/davedeals-server/internal/store/sqlite"
)

var skipUsers = flag.Bool("skip-users", false, "Skip creating demo accounts")

// demoPassword is shared by all seeded accounts.
const demoPassword = "davedeals-demo-1"

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/DaveDeals/data")
	}

	dbPath := filepath.Join(dataPath, "davedeals.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	var sellerID string
	if !*skipUsers {
		sellerID = createDemoAccounts(ctx, s)
	}

	regionID := createDemoRegions(ctx, s)
	createDemoCatalog(ctx, s, sellerID, regionID)

	if err := s.RefreshCategoryCounts(ctx); err != nil {
		log.Fatalf("Failed to refresh category counts: %v", err)
	}

	fmt.Println("Done.")
}

// createDemoAccounts seeds one account per role and returns the demo
// seller's ID for attaching listings.
func createDemoAccounts(ctx context.Context, s *sqlite.Store) string {
	accounts := []struct {
		email string
		name  string
		role  domain.Role
	}{
		{"admin@davedeals.dev", "Demo Admin", domain.RoleAdmin},
		{"seller@davedeals.dev", "Demo Seller", domain.RoleSeller},
		{"buyer@davedeals.dev", "Demo Buyer", domain.RoleBuyer},
	}

	var sellerUserID string
	for _, a := range accounts {
		existing, err := s.GetUserByEmail(ctx, a.email)
		if err == nil {
			fmt.Printf("Account exists: %s (%s)\n", a.email, existing.Role)
			if a.role == domain.RoleSeller {
				sellerUserID = existing.ID
			}
			continue
		}

		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user := &domain.User{
			Email:        a.email,
			PasswordHash: hash,
			Name:         a.name,
			Role:         a.role,
		}
		user.ID = id.MustGenerate(id.PrefixUser)
		user.InitTimestamps()

		if err := s.CreateUser(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", a.email, err)
		}
		fmt.Printf("Created account: %s (%s) password=%s\n", a.email, a.role, demoPassword)

		if a.role == domain.RoleSeller {
			sellerUserID = user.ID
		}
	}

	if sellerUserID == "" {
		return ""
	}

	if seller, err := s.GetSellerByUserID(ctx, sellerUserID); err == nil {
		return seller.ID
	}

	seller := &domain.Seller{
		UserID:      sellerUserID,
		DisplayName: "Demo Seller Shop",
	}
	seller.ID = id.MustGenerate(id.PrefixSeller)
	seller.InitTimestamps()
	if err := s.CreateSeller(ctx, seller); err != nil {
		log.Fatalf("Failed to create seller profile: %v", err)
	}
	return seller.ID
}

func createDemoRegions(ctx context.Context, s *sqlite.Store) string {
	regions, err := s.ListRegions(ctx)
	if err != nil {
		log.Fatalf("Failed to list regions: %v", err)
	}
	if len(regions) > 0 {
		return regions[0].ID
	}

	var firstID string
	for _, r := range []struct{ name, code string }{
		{"United States", "US"},
		{"European Union", "EU"},
	} {
		region := &domain.Region{Name: r.name, Code: r.code}
		region.ID = id.MustGenerate(id.PrefixRegion)
		region.InitTimestamps()
		if err := s.CreateRegion(ctx, region); err != nil {
			log.Fatalf("Failed to create region %s: %v", r.name, err)
		}
		fmt.Printf("Created region: %s (%s)\n", r.name, r.code)
		if firstID == "" {
			firstID = region.ID
		}
	}
	return firstID
}

// createDemoCatalog replaces the imported catalog with a small published
// sample spread across a handful of categories.
func createDemoCatalog(ctx context.Context, s *sqlite.Store, sellerID, regionID string) {
	catalogData := map[string][]string{
		"Electronics": {
			"Wireless Earbuds", "Ultra HD Monitor", "Mechanical Keyboard",
			"USB-C Charging Hub", "Noise Cancelling Headphones", "Smart Speaker",
		},
		"Kitchen & Dining": {
			"Cast Iron Skillet", "Espresso Machine", "Chef Knife Set",
			"Air Fryer", "Stand Mixer", "Ceramic Dinnerware Set",
		},
		"Men's Shoes": {
			"Trail Running Shoes", "Leather Oxford Shoes", "Canvas Sneakers",
			"Hiking Boots", "Slip-On Loafers", "Basketball Shoes",
		},
		"Home Decor": {
			"Linen Throw Pillow", "Wall Art Print", "Scented Candle Set",
			"Woven Area Rug", "Table Lamp", "Floating Shelves",
		},
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	var categories []domain.Category
	var products []domain.Product

	for name, titles := range catalogData {
		slug := catalog.ToSlug(name)
		categories = append(categories, domain.Category{
			Slug:      slug,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})

		for _, title := range titles {
			p := domain.Product{
				Title:        title,
				Description:  fmt.Sprintf("Demo listing for %s.", title),
				Price:        float64(rng.Intn(29500)+500) / 100,
				Currency:     "USD",
				CategorySlug: slug,
				CategoryName: name,
				Rating:       3 + rng.Float64()*2,
				ReviewsCount: rng.Intn(900) + 25,
				SellerID:     sellerID,
				RegionID:     regionID,
				Status:       domain.ProductStatusPublished,
			}
			p.ID = id.MustGenerate(id.PrefixProduct)
			p.InitTimestamps()
			p.Normalize()
			products = append(products, p)
		}
	}

	if err := s.ReplaceCategories(ctx, categories); err != nil {
		log.Fatalf("Failed to write categories: %v", err)
	}
	if err := s.ReplaceProducts(ctx, products); err != nil {
		log.Fatalf("Failed to write products: %v", err)
	}

	fmt.Printf("Seeded %d categories and %d products\n", len(categories), len(products))
}
