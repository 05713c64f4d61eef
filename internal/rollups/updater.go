package rollups

import (
	"fmt"
	"time"

	"log/slog"

	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/catalog"
)

// Kind identifies which rollup counters a product event touches.
type Kind string

const (
	KindView             Kind = "view"
	KindAddToCart        Kind = "add_to_cart"
	KindPurchase         Kind = "purchase"
	KindReview           Kind = "review"
	KindWishlistAdd      Kind = "wishlist_add"
	KindShare            Kind = "share"
	KindSearchImpression Kind = "search_impression"
	KindSearchClick      Kind = "search_click"
)

// Traffic sources with dedicated rollup columns. Events carrying any other
// source are stored but not counted in the traffic breakdown.
const (
	TrafficDirect          = "direct"
	TrafficSearch          = "search"
	TrafficCategory        = "category"
	TrafficFeatured        = "featured"
	TrafficRecommendations = "recommendations"
	TrafficSocial          = "social"
	TrafficEmail           = "email"
	TrafficOther           = "other"
)

// ProductEvent is the normalized input for a single rollup increment.
type ProductEvent struct {
	ProductID     uint
	Day           time.Time
	Kind          Kind
	IsUnique      bool
	Amount        float64
	Rating        int
	TrafficSource string
	DeviceType    string
	Platform      string
	Country       string
	Snapshot      catalog.Snapshot
}

func boolToInc(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RecordEvent applies one product event to the (product, day) rollup row.
// The whole update is a single INSERT ... ON CONFLICT upsert: the unique
// index guarantees one row per key and the DO UPDATE arithmetic runs inside
// SQLite, so concurrent ingests never read-modify-write stale counters.
// Review ratings fold into the running average in the same statement since
// SET expressions evaluate against the pre-update row.
func RecordEvent(tx *gorm.DB, logger *slog.Logger, ev *ProductEvent) error {
	if ev.ProductID == 0 {
		return fmt.Errorf("product event requires a product id")
	}
	if ev.Day.IsZero() {
		return fmt.Errorf("product event requires a day bucket")
	}

	viewInc := boolToInc(ev.Kind == KindView)
	uniqueInc := boolToInc(ev.Kind == KindView && ev.IsUnique)
	cartInc := boolToInc(ev.Kind == KindAddToCart)
	purchaseInc := boolToInc(ev.Kind == KindPurchase)
	reviewInc := boolToInc(ev.Kind == KindReview)
	wishlistInc := boolToInc(ev.Kind == KindWishlistAdd)
	shareInc := boolToInc(ev.Kind == KindShare)
	searchImpInc := boolToInc(ev.Kind == KindSearchImpression)
	searchClickInc := boolToInc(ev.Kind == KindSearchClick)

	revenueInc := 0.0
	if ev.Kind == KindPurchase {
		revenueInc = ev.Amount
	}
	initialRating := 0.0
	if reviewInc == 1 {
		initialRating = float64(ev.Rating)
	}

	// Traffic, device and platform are session-level attributes; they are
	// broken down on view events only so the totals line up with views.
	isView := viewInc == 1
	trafficIncs := trafficIncrements(ev.TrafficSource, isView)
	deviceIncs := deviceIncrements(ev.DeviceType, isView)
	platformIncs := platformIncrements(ev.Platform, isView)

	now := time.Now().UTC()
	query := `
		INSERT INTO product_rollups (
			product_id, day,
			views, unique_views, add_to_cart, purchases, revenue,
			reviews_count, average_rating, wishlist_adds, shares,
			search_impressions, search_clicks,
			traffic_direct, traffic_search, traffic_category, traffic_featured,
			traffic_recommendations, traffic_social, traffic_email, traffic_other,
			device_mobile, device_tablet, device_desktop,
			platform_ios, platform_android, platform_web,
			meta_price, meta_stock_quantity, meta_is_featured, meta_is_active,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id, day) DO UPDATE SET
			views = product_rollups.views + ?,
			unique_views = product_rollups.unique_views + ?,
			add_to_cart = product_rollups.add_to_cart + ?,
			purchases = product_rollups.purchases + ?,
			revenue = product_rollups.revenue + ?,
			average_rating = CASE WHEN ? > 0
				THEN (product_rollups.average_rating * product_rollups.reviews_count + ?) / (product_rollups.reviews_count + 1)
				ELSE product_rollups.average_rating END,
			reviews_count = product_rollups.reviews_count + ?,
			wishlist_adds = product_rollups.wishlist_adds + ?,
			shares = product_rollups.shares + ?,
			search_impressions = product_rollups.search_impressions + ?,
			search_clicks = product_rollups.search_clicks + ?,
			traffic_direct = product_rollups.traffic_direct + ?,
			traffic_search = product_rollups.traffic_search + ?,
			traffic_category = product_rollups.traffic_category + ?,
			traffic_featured = product_rollups.traffic_featured + ?,
			traffic_recommendations = product_rollups.traffic_recommendations + ?,
			traffic_social = product_rollups.traffic_social + ?,
			traffic_email = product_rollups.traffic_email + ?,
			traffic_other = product_rollups.traffic_other + ?,
			device_mobile = product_rollups.device_mobile + ?,
			device_tablet = product_rollups.device_tablet + ?,
			device_desktop = product_rollups.device_desktop + ?,
			platform_ios = product_rollups.platform_ios + ?,
			platform_android = product_rollups.platform_android + ?,
			platform_web = product_rollups.platform_web + ?,
			updated_at = ?
	`
	err := tx.Exec(query,
		ev.ProductID, ev.Day,
		viewInc, uniqueInc, cartInc, purchaseInc, revenueInc,
		reviewInc, initialRating, wishlistInc, shareInc,
		searchImpInc, searchClickInc,
		trafficIncs[0], trafficIncs[1], trafficIncs[2], trafficIncs[3],
		trafficIncs[4], trafficIncs[5], trafficIncs[6], trafficIncs[7],
		deviceIncs[0], deviceIncs[1], deviceIncs[2],
		platformIncs[0], platformIncs[1], platformIncs[2],
		ev.Snapshot.Price, ev.Snapshot.StockQuantity, ev.Snapshot.IsFeatured, ev.Snapshot.IsActive,
		now, now,
		viewInc, uniqueInc, cartInc, purchaseInc, revenueInc,
		reviewInc, float64(ev.Rating), reviewInc,
		wishlistInc, shareInc, searchImpInc, searchClickInc,
		trafficIncs[0], trafficIncs[1], trafficIncs[2], trafficIncs[3],
		trafficIncs[4], trafficIncs[5], trafficIncs[6], trafficIncs[7],
		deviceIncs[0], deviceIncs[1], deviceIncs[2],
		platformIncs[0], platformIncs[1], platformIncs[2],
		now,
	).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product rollup: %w", err)
	}

	if err := recomputeConversions(tx, ev.ProductID, ev.Day); err != nil {
		return err
	}

	if err := updateGeoStat(tx, ev, now); err != nil {
		return err
	}

	logger.Debug("Recorded product event",
		slog.Uint64("product_id", uint64(ev.ProductID)),
		slog.String("kind", string(ev.Kind)))
	return nil
}

// recomputeConversions derives the conversion percentages from the counters
// stored on the row. Zero denominators produce 0 and results are capped at 100.
func recomputeConversions(tx *gorm.DB, productID uint, day time.Time) error {
	query := `
		UPDATE product_rollups SET
			view_to_cart = CASE WHEN views > 0
				THEN MIN(100.0, ROUND(add_to_cart * 100.0 / views, 2)) ELSE 0 END,
			cart_to_purchase = CASE WHEN add_to_cart > 0
				THEN MIN(100.0, ROUND(purchases * 100.0 / add_to_cart, 2)) ELSE 0 END,
			view_to_purchase = CASE WHEN views > 0
				THEN MIN(100.0, ROUND(purchases * 100.0 / views, 2)) ELSE 0 END,
			search_click_rate = CASE WHEN search_impressions > 0
				THEN MIN(100.0, ROUND(search_clicks * 100.0 / search_impressions, 2)) ELSE 0 END
		WHERE product_id = ? AND day = ?
	`
	if err := tx.Exec(query, productID, day).Error; err != nil {
		return fmt.Errorf("failed to recompute conversions: %w", err)
	}
	return nil
}

// updateGeoStat bumps the per-country companion row. Only views and
// purchases are broken down geographically.
func updateGeoStat(tx *gorm.DB, ev *ProductEvent, now time.Time) error {
	if ev.Country == "" || (ev.Kind != KindView && ev.Kind != KindPurchase) {
		return nil
	}

	viewInc := boolToInc(ev.Kind == KindView)
	purchaseInc := boolToInc(ev.Kind == KindPurchase)

	query := `
		INSERT INTO rollup_geo_stats (product_id, day, country, views, purchases, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id, day, country) DO UPDATE SET
			views = rollup_geo_stats.views + ?,
			purchases = rollup_geo_stats.purchases + ?,
			updated_at = ?
	`
	err := tx.Exec(query,
		ev.ProductID, ev.Day, ev.Country, viewInc, purchaseInc, now, now,
		viewInc, purchaseInc, now,
	).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rollup geo stat: %w", err)
	}
	return nil
}

func trafficIncrements(source string, isView bool) [8]int {
	var incs [8]int
	if !isView {
		return incs
	}
	switch source {
	case TrafficDirect:
		incs[0] = 1
	case TrafficSearch:
		incs[1] = 1
	case TrafficCategory:
		incs[2] = 1
	case TrafficFeatured:
		incs[3] = 1
	case TrafficRecommendations:
		incs[4] = 1
	case TrafficSocial:
		incs[5] = 1
	case TrafficEmail:
		incs[6] = 1
	case TrafficOther:
		incs[7] = 1
	}
	return incs
}

func deviceIncrements(deviceType string, isView bool) [3]int {
	var incs [3]int
	if !isView {
		return incs
	}
	switch deviceType {
	case "mobile":
		incs[0] = 1
	case "tablet":
		incs[1] = 1
	case "desktop":
		incs[2] = 1
	}
	return incs
}

func platformIncrements(platform string, isView bool) [3]int {
	var incs [3]int
	if !isView {
		return incs
	}
	switch platform {
	case "ios":
		incs[0] = 1
	case "android":
		incs[1] = 1
	case "web":
		incs[2] = 1
	}
	return incs
}
