// Package reports assembles the admin-facing analytics reports from the
// events, rollups, users and orders tables.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/catalog"
	"github.com/roobiinpandey/qahwatapp/internal/events"
	"github.com/roobiinpandey/qahwatapp/internal/orders"
	"github.com/roobiinpandey/qahwatapp/internal/pkg/async"
	"github.com/roobiinpandey/qahwatapp/internal/rollups"
	"github.com/roobiinpandey/qahwatapp/internal/timeframe"
	"github.com/roobiinpandey/qahwatapp/internal/users"
)

var (
	countryQuery = gountries.New()
	titleCaser   = cases.Title(language.English)
)

// CountryName resolves an ISO code to a display name, falling back to the
// title-cased input for codes the database does not know.
func CountryName(code string) string {
	if code == "" {
		return "Unknown"
	}
	country, err := countryQuery.FindCountryByAlpha(code)
	if err != nil {
		return titleCaser.String(code)
	}
	return country.Name.Common
}

// DashboardOverview is the admin landing report.
type DashboardOverview struct {
	TotalUsers       int64                   `json:"totalUsers"`
	TotalProducts    int64                   `json:"totalProducts"`
	TotalOrders      int64                   `json:"totalOrders"`
	Revenue          *orders.RevenueSummary  `json:"revenue"`
	DailyActiveUsers []timeframe.DateStat    `json:"dailyActiveUsers"`
	PopularProducts  []events.PopularProduct `json:"popularProducts"`
	Funnel           *events.Funnel          `json:"funnel"`
}

// GetDashboardOverview builds the admin dashboard over the trailing window.
// The independent queries run through a worker pool.
func GetDashboardOverview(db *gorm.DB, from, to time.Time) (*DashboardOverview, error) {
	tasks := []async.Task{
		{
			Name: "totalUsers",
			Execute: func() (interface{}, error) {
				return users.CountUsers(db)
			},
		},
		{
			Name: "totalProducts",
			Execute: func() (interface{}, error) {
				return catalog.CountActiveProducts(db)
			},
		},
		{
			Name: "totalOrders",
			Execute: func() (interface{}, error) {
				return orders.CountOrders(db)
			},
		},
		{
			Name: "revenue",
			Execute: func() (interface{}, error) {
				return orders.GetRevenueSummary(db, from, to)
			},
		},
		{
			Name: "dailyActiveUsers",
			Execute: func() (interface{}, error) {
				return events.GetDailyActiveUsers(db, from, to)
			},
		},
		{
			Name: "popularProducts",
			Execute: func() (interface{}, error) {
				return events.GetPopularProducts(db, from, to, 5)
			},
		},
		{
			Name: "funnel",
			Execute: func() (interface{}, error) {
				return events.GetConversionFunnel(db, from, to)
			},
		},
	}

	pool := async.NewPool(4)
	results := pool.Execute(context.Background(), tasks)

	for name, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("dashboard overview %s: %w", name, result.Err)
		}
	}

	return &DashboardOverview{
		TotalUsers:       results["totalUsers"].Data.(int64),
		TotalProducts:    results["totalProducts"].Data.(int64),
		TotalOrders:      results["totalOrders"].Data.(int64),
		Revenue:          results["revenue"].Data.(*orders.RevenueSummary),
		DailyActiveUsers: results["dailyActiveUsers"].Data.([]timeframe.DateStat),
		PopularProducts:  results["popularProducts"].Data.([]events.PopularProduct),
		Funnel:           results["funnel"].Data.(*events.Funnel),
	}, nil
}

// UsersReport covers signups and client mix for the admin users page.
type UsersReport struct {
	TotalUsers        int64                   `json:"totalUsers"`
	RegistrationTrend []timeframe.DateStat    `json:"registrationTrend"`
	RegistrationSlope float64                 `json:"registrationSlope"`
	DeviceBreakdown   []events.BreakdownEntry `json:"deviceBreakdown"`
	PlatformBreakdown []events.BreakdownEntry `json:"platformBreakdown"`
}

// GetUsersReport builds the admin users report over the trailing window.
func GetUsersReport(db *gorm.DB, from, to time.Time) (*UsersReport, error) {
	report := &UsersReport{}
	var err error

	if report.TotalUsers, err = users.CountUsers(db); err != nil {
		return nil, fmt.Errorf("users report: %w", err)
	}
	if report.RegistrationTrend, err = users.RegistrationTrend(db, from, to); err != nil {
		return nil, fmt.Errorf("users report: %w", err)
	}
	report.RegistrationSlope = timeframe.CalculateTrend(report.RegistrationTrend)
	if report.DeviceBreakdown, err = events.GetDeviceBreakdown(db, from, to); err != nil {
		return nil, fmt.Errorf("users report: %w", err)
	}
	if report.PlatformBreakdown, err = events.GetPlatformBreakdown(db, from, to); err != nil {
		return nil, fmt.Errorf("users report: %w", err)
	}
	return report, nil
}

// CategoryPerformance aggregates rollup metrics per catalog category.
type CategoryPerformance struct {
	CategoryID   uint    `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Views        int64   `json:"views"`
	Purchases    int64   `json:"purchases"`
	Revenue      float64 `json:"revenue"`
}

// ProductsReport covers the admin products page.
type ProductsReport struct {
	TopByViews     []rollups.TopPerformer `json:"topByViews"`
	TopByRevenue   []rollups.TopPerformer `json:"topByRevenue"`
	TopByPurchases []rollups.TopPerformer `json:"topByPurchases"`
	Categories     []CategoryPerformance  `json:"categories"`
}

// GetProductsReport builds the admin products report over the trailing window.
func GetProductsReport(db *gorm.DB, from, to time.Time) (*ProductsReport, error) {
	report := &ProductsReport{}
	var err error

	if report.TopByViews, err = rollups.GetTopPerformers(db, "views", from, to, 10); err != nil {
		return nil, fmt.Errorf("products report: %w", err)
	}
	if report.TopByRevenue, err = rollups.GetTopPerformers(db, "revenue", from, to, 10); err != nil {
		return nil, fmt.Errorf("products report: %w", err)
	}
	if report.TopByPurchases, err = rollups.GetTopPerformers(db, "purchases", from, to, 10); err != nil {
		return nil, fmt.Errorf("products report: %w", err)
	}
	if report.Categories, err = getCategoryPerformance(db, from, to); err != nil {
		return nil, fmt.Errorf("products report: %w", err)
	}
	return report, nil
}

func getCategoryPerformance(db *gorm.DB, from, to time.Time) ([]CategoryPerformance, error) {
	var results []CategoryPerformance
	query := `
		SELECT c.id AS category_id, c.name AS category_name,
			COALESCE(SUM(r.views), 0) AS views,
			COALESCE(SUM(r.purchases), 0) AS purchases,
			COALESCE(SUM(r.revenue), 0) AS revenue
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		JOIN product_rollups r ON r.product_id = pc.product_id
			AND r.day >= ? AND r.day <= ?
		GROUP BY c.id, c.name
		ORDER BY views DESC
	`
	if err := db.Raw(query, from, to).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get category performance: %w", err)
	}
	return results, nil
}

// NamedGeoEntry is a geo breakdown row with a resolved country name.
type NamedGeoEntry struct {
	Country   string `json:"country"`
	Name      string `json:"name"`
	Views     int64  `json:"views"`
	Purchases int64  `json:"purchases"`
}

// ResolveGeoNames attaches display names to a product geo breakdown.
func ResolveGeoNames(entries []rollups.GeoBreakdownEntry) []NamedGeoEntry {
	named := make([]NamedGeoEntry, 0, len(entries))
	for _, entry := range entries {
		named = append(named, NamedGeoEntry{
			Country:   entry.Country,
			Name:      CountryName(entry.Country),
			Views:     entry.Views,
			Purchases: entry.Purchases,
		})
	}
	return named
}
