package rollups

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrUnsupportedMetric is returned when a ranking metric is not whitelisted.
var ErrUnsupportedMetric = errors.New("unsupported metric")

// IsUnsupportedMetric reports whether err came from an unknown ranking metric.
func IsUnsupportedMetric(err error) bool {
	return errors.Is(err, ErrUnsupportedMetric)
}

// Metrics accepted by GetTopPerformers. The map doubles as the SQL column
// whitelist so the metric name can be interpolated safely.
var topPerformerMetrics = map[string]string{
	"views":     "views",
	"revenue":   "revenue",
	"purchases": "purchases",
}

// TopPerformer is one entry in the top-performers ranking.
type TopPerformer struct {
	ProductID   uint    `json:"productId"`
	ProductName string  `json:"productName"`
	Value       float64 `json:"value"`
}

// GetTopPerformers ranks products by a summed rollup metric over the window.
func GetTopPerformers(db *gorm.DB, metric string, from, to time.Time, limit int) ([]TopPerformer, error) {
	column, ok := topPerformerMetrics[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMetric, metric)
	}
	if limit <= 0 {
		limit = 10
	}

	var results []TopPerformer
	query := fmt.Sprintf(`
		SELECT r.product_id, COALESCE(p.name, '') AS product_name, SUM(r.%s) AS value
		FROM product_rollups r
		LEFT JOIN products p ON p.id = r.product_id
		WHERE r.day >= ? AND r.day <= ?
		GROUP BY r.product_id
		HAVING value > 0
		ORDER BY value DESC
		LIMIT ?
	`, column)
	if err := db.Raw(query, from, to, limit).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get top performers: %w", err)
	}
	return results, nil
}

// PerformanceSummary aggregates one product's rollups over a window.
type PerformanceSummary struct {
	ProductID         uint            `json:"productId"`
	Views             int64           `json:"views"`
	UniqueViews       int64           `json:"uniqueViews"`
	AddToCart         int64           `json:"addToCart"`
	Purchases         int64           `json:"purchases"`
	Revenue           float64         `json:"revenue"`
	ReviewsCount      int64           `json:"reviewsCount"`
	AverageRating     float64         `json:"averageRating"`
	WishlistAdds      int64           `json:"wishlistAdds"`
	Shares            int64           `json:"shares"`
	SearchImpressions int64           `json:"searchImpressions"`
	SearchClicks      int64           `json:"searchClicks"`
	Conversions       ConversionRates `json:"conversions"`
}

// GetPerformanceSummary sums a product's daily rollups over the window and
// derives the window-level conversion rates from the summed counters. The
// average rating is weighted by per-day review counts.
func GetPerformanceSummary(db *gorm.DB, productID uint, from, to time.Time) (*PerformanceSummary, error) {
	var row struct {
		Views             int64
		UniqueViews       int64
		AddToCart         int64
		Purchases         int64
		Revenue           float64
		ReviewsCount      int64
		RatingSum         float64
		WishlistAdds      int64
		Shares            int64
		SearchImpressions int64
		SearchClicks      int64
	}
	query := `
		SELECT
			COALESCE(SUM(views), 0) AS views,
			COALESCE(SUM(unique_views), 0) AS unique_views,
			COALESCE(SUM(add_to_cart), 0) AS add_to_cart,
			COALESCE(SUM(purchases), 0) AS purchases,
			COALESCE(SUM(revenue), 0) AS revenue,
			COALESCE(SUM(reviews_count), 0) AS reviews_count,
			COALESCE(SUM(average_rating * reviews_count), 0) AS rating_sum,
			COALESCE(SUM(wishlist_adds), 0) AS wishlist_adds,
			COALESCE(SUM(shares), 0) AS shares,
			COALESCE(SUM(search_impressions), 0) AS search_impressions,
			COALESCE(SUM(search_clicks), 0) AS search_clicks
		FROM product_rollups
		WHERE product_id = ? AND day >= ? AND day <= ?
	`
	if err := db.Raw(query, productID, from, to).Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to get performance summary: %w", err)
	}

	summary := &PerformanceSummary{
		ProductID:         productID,
		Views:             row.Views,
		UniqueViews:       row.UniqueViews,
		AddToCart:         row.AddToCart,
		Purchases:         row.Purchases,
		Revenue:           row.Revenue,
		ReviewsCount:      row.ReviewsCount,
		WishlistAdds:      row.WishlistAdds,
		Shares:            row.Shares,
		SearchImpressions: row.SearchImpressions,
		SearchClicks:      row.SearchClicks,
		Conversions: CalculateConversions(
			row.Views, row.AddToCart, row.Purchases,
			row.SearchImpressions, row.SearchClicks),
	}
	if row.ReviewsCount > 0 {
		summary.AverageRating = row.RatingSum / float64(row.ReviewsCount)
	}
	return summary, nil
}

// TrendPoint is one day of a product's rollup trend.
type TrendPoint struct {
	Day       time.Time `json:"day"`
	Views     int64     `json:"views"`
	AddToCart int64     `json:"addToCart"`
	Purchases int64     `json:"purchases"`
	Revenue   float64   `json:"revenue"`
}

// GetTrend returns a product's daily rollup rows over the window, oldest first.
func GetTrend(db *gorm.DB, productID uint, from, to time.Time) ([]TrendPoint, error) {
	var results []TrendPoint
	query := `
		SELECT day, views, add_to_cart, purchases, revenue
		FROM product_rollups
		WHERE product_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC
	`
	if err := db.Raw(query, productID, from, to).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get rollup trend: %w", err)
	}
	return results, nil
}

// GeoBreakdownEntry is a per-country slice of a product's activity.
type GeoBreakdownEntry struct {
	Country   string `json:"country"`
	Views     int64  `json:"views"`
	Purchases int64  `json:"purchases"`
}

// GetGeoBreakdown sums a product's geo stats over the window, most viewed
// countries first.
func GetGeoBreakdown(db *gorm.DB, productID uint, from, to time.Time) ([]GeoBreakdownEntry, error) {
	var results []GeoBreakdownEntry
	query := `
		SELECT country, SUM(views) AS views, SUM(purchases) AS purchases
		FROM rollup_geo_stats
		WHERE product_id = ? AND day >= ? AND day <= ?
		GROUP BY country
		ORDER BY views DESC
	`
	if err := db.Raw(query, productID, from, to).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get geo breakdown: %w", err)
	}
	return results, nil
}
