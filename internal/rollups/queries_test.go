package rollups_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roobiinpandey/qahwatapp/internal/rollups"
	"github.com/roobiinpandey/qahwatapp/internal/testsupport"
)

func seedRollup(t *testing.T, db *gorm.DB, rollup *rollups.ProductRollup) {
	t.Helper()
	require.NoError(t, db.Create(rollup).Error)
}

func TestGetTopPerformers(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	day1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	testsupport.CreateTestProduct(t, db, "Yirgacheffe", 48)
	testsupport.CreateTestProduct(t, db, "Mocha", 95)
	testsupport.CreateTestProduct(t, db, "Santos", 38)

	// Product 1 split over two days, product 2 in one, product 3 has no views.
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 1, Day: day1, Views: 30, Revenue: 100})
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 1, Day: day2, Views: 30, Revenue: 50})
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 2, Day: day1, Views: 40, Revenue: 400})
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 3, Day: day1, Views: 0})

	top, err := rollups.GetTopPerformers(db, "views", day1, day2, 10)
	require.NoError(t, err)
	require.Len(t, top, 2, "products without the metric are excluded")
	assert.Equal(t, uint(1), top[0].ProductID)
	assert.Equal(t, 60.0, top[0].Value, "daily rows must be summed over the window")
	assert.Equal(t, "Yirgacheffe", top[0].ProductName)
	assert.Equal(t, uint(2), top[1].ProductID)

	byRevenue, err := rollups.GetTopPerformers(db, "revenue", day1, day2, 1)
	require.NoError(t, err)
	require.Len(t, byRevenue, 1, "limit must apply")
	assert.Equal(t, uint(2), byRevenue[0].ProductID)
	assert.Equal(t, 400.0, byRevenue[0].Value)
}

func TestGetTopPerformersRejectsUnknownMetric(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	_, err := rollups.GetTopPerformers(db, "views; DROP TABLE products", time.Now(), time.Now(), 10)
	require.Error(t, err)
	assert.True(t, rollups.IsUnsupportedMetric(err))
}

func TestGetPerformanceSummary(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	day1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	seedRollup(t, db, &rollups.ProductRollup{
		ProductID: 1, Day: day1,
		Views: 100, UniqueViews: 80, AddToCart: 20, Purchases: 5, Revenue: 250,
		ReviewsCount: 2, AverageRating: 5,
	})
	seedRollup(t, db, &rollups.ProductRollup{
		ProductID: 1, Day: day2,
		Views: 100, AddToCart: 30, Purchases: 5, Revenue: 250,
		ReviewsCount: 4, AverageRating: 2,
	})
	// Another product's rows must not leak in.
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 2, Day: day1, Views: 999})

	summary, err := rollups.GetPerformanceSummary(db, 1, day1, day2)
	require.NoError(t, err)
	assert.Equal(t, int64(200), summary.Views)
	assert.Equal(t, int64(80), summary.UniqueViews)
	assert.Equal(t, int64(50), summary.AddToCart)
	assert.Equal(t, int64(10), summary.Purchases)
	assert.Equal(t, 500.0, summary.Revenue)
	assert.Equal(t, int64(6), summary.ReviewsCount)
	// Weighted: (5*2 + 2*4) / 6 = 3
	assert.InDelta(t, 3.0, summary.AverageRating, 0.0001)
	assert.Equal(t, 25.0, summary.Conversions.ViewToCart)
	assert.Equal(t, 20.0, summary.Conversions.CartToPurchase)
	assert.Equal(t, 5.0, summary.Conversions.ViewToPurchase)
}

func TestGetPerformanceSummaryEmpty(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	summary, err := rollups.GetPerformanceSummary(db, 42, day, day)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Views)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0.0, summary.Conversions.ViewToPurchase)
}

func TestGetTrend(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	day1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	// Inserted out of order; the trend must come back oldest first.
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 1, Day: day3, Views: 30})
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 1, Day: day1, Views: 10})
	seedRollup(t, db, &rollups.ProductRollup{ProductID: 1, Day: day2, Views: 20})

	trend, err := rollups.GetTrend(db, 1, day1, day3)
	require.NoError(t, err)
	require.Len(t, trend, 3)
	assert.Equal(t, int64(10), trend[0].Views)
	assert.Equal(t, int64(20), trend[1].Views)
	assert.Equal(t, int64(30), trend[2].Views)
}

func TestGetGeoBreakdown(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	day1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, db.Create(&rollups.RollupGeoStat{ProductID: 1, Day: day1, Country: "AE", Views: 5, Purchases: 1}).Error)
	require.NoError(t, db.Create(&rollups.RollupGeoStat{ProductID: 1, Day: day2, Country: "AE", Views: 7, Purchases: 2}).Error)
	require.NoError(t, db.Create(&rollups.RollupGeoStat{ProductID: 1, Day: day1, Country: "US", Views: 3}).Error)

	breakdown, err := rollups.GetGeoBreakdown(db, 1, day1, day2)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "AE", breakdown[0].Country)
	assert.Equal(t, int64(12), breakdown[0].Views)
	assert.Equal(t, int64(3), breakdown[0].Purchases)
	assert.Equal(t, "US", breakdown[1].Country)
}
