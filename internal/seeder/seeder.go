// Package seeder generates demo catalog, users, orders and tracking events
// for local development and demos.
package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/karloscodes/cartridge"

	"github.com/roobiinpandey/qahwatapp/internal/catalog"
	"github.com/roobiinpandey/qahwatapp/internal/events"
	"github.com/roobiinpandey/qahwatapp/internal/orders"
	"github.com/roobiinpandey/qahwatapp/internal/timeframe"
	"github.com/roobiinpandey/qahwatapp/internal/users"
)

// Seeder populates the database with a demo coffee store and a realistic
// spread of tracking events over the trailing month.
type Seeder struct {
	DBManager    cartridge.DBManager
	Logger       *slog.Logger
	SessionCount int
}

// NewSeeder creates a new seeder instance
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, sessionCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if sessionCount <= 0 {
		sessionCount = 500
	}
	return &Seeder{
		DBManager:    dbManager,
		Logger:       logger,
		SessionCount: sessionCount,
	}
}

var demoProducts = []catalog.Product{
	{Name: "Ethiopian Yirgacheffe", Slug: "ethiopian-yirgacheffe", Origin: "Ethiopia", RoastLevel: "light", Price: 48.00, StockQuantity: 120, IsFeatured: true, IsActive: true},
	{Name: "Colombian Supremo", Slug: "colombian-supremo", Origin: "Colombia", RoastLevel: "medium", Price: 42.00, StockQuantity: 200, IsActive: true},
	{Name: "Yemeni Mocha", Slug: "yemeni-mocha", Origin: "Yemen", RoastLevel: "medium", Price: 95.00, StockQuantity: 40, IsFeatured: true, IsActive: true},
	{Name: "Brazilian Santos", Slug: "brazilian-santos", Origin: "Brazil", RoastLevel: "dark", Price: 38.00, StockQuantity: 300, IsActive: true},
	{Name: "Sumatra Mandheling", Slug: "sumatra-mandheling", Origin: "Indonesia", RoastLevel: "dark", Price: 45.00, StockQuantity: 90, IsActive: true},
	{Name: "Kenyan AA", Slug: "kenyan-aa", Origin: "Kenya", RoastLevel: "light", Price: 52.00, StockQuantity: 75, IsActive: true},
	{Name: "Guatemala Antigua", Slug: "guatemala-antigua", Origin: "Guatemala", RoastLevel: "medium", Price: 44.00, StockQuantity: 110, IsActive: true},
	{Name: "House Espresso Blend", Slug: "house-espresso-blend", Origin: "Blend", RoastLevel: "dark", Price: 35.00, StockQuantity: 500, IsFeatured: true, IsActive: true},
}

var demoCategories = []catalog.Category{
	{Name: "Single Origin", Slug: "single-origin"},
	{Name: "Blends", Slug: "blends"},
	{Name: "Specialty", Slug: "specialty"},
}

var demoUserAgents = []string{
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
}

var demoCountries = []string{"AE", "SA", "US", "GB", "DE", "YE", "EG", ""}

var demoSources = []string{"direct", "search", "category", "featured", "social", "email", ""}

// Seed populates the database with the demo store and tracking history.
func (s *Seeder) Seed(ctx context.Context) error {
	start := time.Now()
	s.Logger.Info("Seeding demo data...", slog.Int("sessions", s.SessionCount))

	products, err := s.seedCatalog()
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	customers, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.seedSessions(ctx, products, customers); err != nil {
		return fmt.Errorf("failed to seed sessions: %w", err)
	}

	s.Logger.Info("Seeding completed", slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Seeder) seedCatalog() ([]catalog.Product, error) {
	db := s.DBManager.GetConnection()

	categories := make([]catalog.Category, len(demoCategories))
	copy(categories, demoCategories)
	for i := range categories {
		if err := db.Where(catalog.Category{Slug: categories[i].Slug}).
			FirstOrCreate(&categories[i]).Error; err != nil {
			return nil, err
		}
	}

	products := make([]catalog.Product, len(demoProducts))
	copy(products, demoProducts)
	for i := range products {
		if products[i].Origin == "Blend" {
			products[i].Categories = []catalog.Category{categories[1]}
		} else if products[i].Price >= 50 {
			products[i].Categories = []catalog.Category{categories[0], categories[2]}
		} else {
			products[i].Categories = []catalog.Category{categories[0]}
		}
		if err := db.Where(catalog.Product{Slug: products[i].Slug}).
			FirstOrCreate(&products[i]).Error; err != nil {
			return nil, err
		}
	}

	s.Logger.Info("Seeded catalog",
		slog.Int("products", len(products)), slog.Int("categories", len(categories)))
	return products, nil
}

func (s *Seeder) seedUsers() ([]users.User, error) {
	db := s.DBManager.GetConnection()

	customers := make([]users.User, 0, 20)
	for i := 1; i <= 20; i++ {
		email := fmt.Sprintf("customer%d@example.com", i)
		existing, err := users.FindByEmail(db, email)
		if err == nil {
			customers = append(customers, *existing)
			continue
		}
		user, err := users.CreateUser(db, s.Logger,
			fmt.Sprintf("Customer %d", i), email, "demo-password", users.RoleCustomer)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *user)
	}

	if _, err := users.FindByEmail(db, "admin@example.com"); err != nil {
		if _, err := users.CreateUser(db, s.Logger,
			"Admin", "admin@example.com", "demo-admin-password", users.RoleAdmin); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("Seeded users", slog.Int("customers", len(customers)))
	return customers, nil
}

// seedSessions simulates browse-to-purchase sessions spread over the
// trailing 30 days. Events go through the real ingest path so rollups get
// built exactly as they would in production.
func (s *Seeder) seedSessions(ctx context.Context, products []catalog.Product, customers []users.User) error {
	db := s.DBManager.GetConnection()

	for i := 0; i < s.SessionCount; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sessionID := uuid.NewString()
		ts := time.Now().UTC().
			AddDate(0, 0, -rand.IntN(30)).
			Add(-time.Duration(rand.IntN(86400)) * time.Second)

		var userID uint
		if rand.IntN(100) < 60 {
			userID = customers[rand.IntN(len(customers))].ID
		}

		product := products[rand.IntN(len(products))]
		userAgent := demoUserAgents[rand.IntN(len(demoUserAgents))]
		country := demoCountries[rand.IntN(len(demoCountries))]
		source := demoSources[rand.IntN(len(demoSources))]

		track := func(eventType events.EventType, data events.EventData) error {
			ts = ts.Add(time.Duration(5+rand.IntN(55)) * time.Second)
			clock := &timeframe.FixedTimeProvider{Time: ts}
			return events.TrackEvent(s.DBManager, s.Logger, clock, &events.TrackEventInput{
				UserID:    userID,
				SessionID: sessionID,
				EventType: eventType,
				UserAgent: userAgent,
				Data:      data,
			})
		}

		viewData := events.EventData{
			ProductID: product.ID,
			Country:   country,
			Source:    source,
			IsUnique:  true,
		}
		if err := track(events.EventTypeProductView, viewData); err != nil {
			return err
		}

		// 40% of sessions add to cart, half of those buy
		if rand.IntN(100) >= 40 {
			continue
		}
		cartData := events.EventData{ProductID: product.ID, Country: country}
		if err := track(events.EventTypeAddToCart, cartData); err != nil {
			return err
		}

		if rand.IntN(100) >= 50 {
			continue
		}
		// Guests sign up at checkout
		if userID == 0 {
			userID = customers[rand.IntN(len(customers))].ID
		}
		if err := track(events.EventTypeCheckoutStarted, events.EventData{ProductID: product.ID}); err != nil {
			return err
		}
		if err := track(events.EventTypeCheckoutCompleted, events.EventData{ProductID: product.ID}); err != nil {
			return err
		}

		quantity := 1 + rand.IntN(3)
		total := product.Price * float64(quantity)
		order := &orders.Order{
			UserID:        userID,
			TotalPrice:    total,
			Status:        orders.StatusDelivered,
			PaymentStatus: orders.PaymentPaid,
			PaymentMethod: "card",
			CreatedAt:     ts,
			Items: []orders.OrderItem{{
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.Price,
			}},
		}
		if err := orders.CreateOrder(db, s.Logger, order); err != nil {
			return err
		}

		orderData := events.EventData{
			ProductID: product.ID,
			OrderID:   order.ID,
			Amount:    total,
			Country:   country,
		}
		if err := track(events.EventTypeOrderPlaced, orderData); err != nil {
			return err
		}
		if err := track(events.EventTypePurchase, orderData); err != nil {
			return err
		}

		// Occasional post-purchase review
		if rand.IntN(100) < 30 {
			reviewData := events.EventData{
				ProductID: product.ID,
				Rating:    3 + rand.IntN(3),
			}
			if err := track(events.EventTypeReviewSubmitted, reviewData); err != nil {
				return err
			}
		}
	}

	s.Logger.Info("Seeded sessions", slog.Int("sessions", s.SessionCount))
	return nil
}
