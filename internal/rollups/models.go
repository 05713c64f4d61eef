// Package rollups maintains the per-product daily aggregate tables fed by
// event ingestion and read by the product analytics queries.
package rollups

import "time"

// ProductRollup is one day of aggregated activity for a single product.
// Rows are keyed (product_id, day) with a unique index; counters are only
// ever bumped through atomic upserts so concurrent ingests cannot lose
// increments or create duplicate rows.
type ProductRollup struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ProductID uint      `gorm:"uniqueIndex:idx_product_rollups_product_day;not null"`
	Day       time.Time `gorm:"uniqueIndex:idx_product_rollups_product_day;not null"`

	// Counters
	Views             int     `gorm:"default:0"`
	UniqueViews       int     `gorm:"default:0"`
	AddToCart         int     `gorm:"default:0"`
	Purchases         int     `gorm:"default:0"`
	Revenue           float64 `gorm:"default:0"`
	ReviewsCount      int     `gorm:"default:0"`
	AverageRating     float64 `gorm:"default:0"`
	WishlistAdds      int     `gorm:"default:0"`
	Shares            int     `gorm:"default:0"`
	SearchImpressions int     `gorm:"default:0"`
	SearchClicks      int     `gorm:"default:0"`

	// Derived conversion percentages, recomputed from the counters above
	// after every increment.
	ViewToCart      float64 `gorm:"default:0"`
	CartToPurchase  float64 `gorm:"default:0"`
	ViewToPurchase  float64 `gorm:"default:0"`
	SearchClickRate float64 `gorm:"default:0"`

	// Traffic source breakdown. Fixed set of columns; sources outside the
	// set are not counted.
	TrafficDirect          int `gorm:"default:0"`
	TrafficSearch          int `gorm:"default:0"`
	TrafficCategory        int `gorm:"default:0"`
	TrafficFeatured        int `gorm:"default:0"`
	TrafficRecommendations int `gorm:"default:0"`
	TrafficSocial          int `gorm:"default:0"`
	TrafficEmail           int `gorm:"default:0"`
	TrafficOther           int `gorm:"default:0"`

	// Device breakdown
	DeviceMobile  int `gorm:"default:0"`
	DeviceTablet  int `gorm:"default:0"`
	DeviceDesktop int `gorm:"default:0"`

	// Platform breakdown
	PlatformIOS     int `gorm:"column:platform_ios;default:0"`
	PlatformAndroid int `gorm:"default:0"`
	PlatformWeb     int `gorm:"default:0"`

	// Catalog snapshot taken when the row is first created for the day.
	MetaPrice         float64 `gorm:"default:0"`
	MetaStockQuantity int     `gorm:"default:0"`
	MetaIsFeatured    bool    `gorm:"default:false"`
	MetaIsActive      bool    `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RollupGeoStat is the unbounded per-country companion to ProductRollup.
// Countries live in their own table instead of columns because the set is
// open-ended.
type RollupGeoStat struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ProductID uint      `gorm:"uniqueIndex:idx_rollup_geo_product_day_country;not null"`
	Day       time.Time `gorm:"uniqueIndex:idx_rollup_geo_product_day_country;not null"`
	Country   string    `gorm:"uniqueIndex:idx_rollup_geo_product_day_country;size:2;not null"`
	Views     int       `gorm:"default:0"`
	Purchases int       `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
